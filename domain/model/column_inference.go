package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ColumnType represents the SQL column type
type ColumnType int

const (
	// ColumnTypeText represents TEXT column type
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents INTEGER column type
	ColumnTypeInteger
	// ColumnTypeReal represents REAL column type
	ColumnTypeReal
	// ColumnTypeDatetime represents datetime stored as TEXT in ISO8601 format
	ColumnTypeDatetime
	// ColumnTypeBoolean represents a column of TRUE/FALSE cells, stored as INTEGER
	ColumnTypeBoolean
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the SQL column type string
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeInteger, ColumnTypeBoolean:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	default:
		return sqlTypeText // SQLite stores datetime as TEXT in ISO8601 format
	}
}

// ColumnInfo represents column information with name and inferred type
type ColumnInfo struct {
	Name string
	Type ColumnType
}

// Common datetime patterns to detect
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	formats []string
}{
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.000", "3:04:05"},
	},
}

// isDatetime checks if a string value represents a datetime
func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, dp := range datetimePatterns {
		if !dp.pattern.MatchString(value) {
			continue
		}
		for _, format := range dp.formats {
			if _, err := time.Parse(format, value); err == nil {
				return true
			}
		}
	}
	return false
}

// InferColumnType infers the column type from cell values.
// Typed cells (float64, bool) count directly; text cells are parsed.
func InferColumnType(values []Value) ColumnType {
	var hasText, hasDatetime, hasReal, hasInteger, hasBool bool

	for _, v := range values {
		switch x := v.(type) {
		case nil:
			continue
		case bool:
			hasBool = true
			continue
		case float64:
			if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
				hasInteger = true
			} else {
				hasReal = true
			}
			continue
		}

		s := strings.TrimSpace(String(v))
		if s == "" {
			continue
		}
		if isDatetime(s) {
			hasDatetime = true
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			hasInteger = true
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			hasReal = true
			continue
		}
		hasText = true
		break
	}

	// Priority: TEXT > DATETIME > REAL > INTEGER > BOOLEAN
	switch {
	case hasText:
		return ColumnTypeText
	case hasDatetime:
		if hasReal || hasInteger || hasBool {
			return ColumnTypeText
		}
		return ColumnTypeDatetime
	case hasBool:
		if hasReal || hasInteger {
			return ColumnTypeText
		}
		return ColumnTypeBoolean
	case hasReal:
		return ColumnTypeReal
	case hasInteger:
		return ColumnTypeInteger
	default:
		return ColumnTypeText
	}
}

// InferColumnsInfo infers column information for the named columns of rows.
func InferColumnsInfo(columns []string, rows []*Row) []ColumnInfo {
	if len(columns) == 0 {
		return nil
	}
	info := make([]ColumnInfo, len(columns))
	for i, name := range columns {
		values := make([]Value, 0, len(rows))
		for _, r := range rows {
			if v, ok := r.Get(name); ok {
				values = append(values, v)
			}
		}
		info[i] = ColumnInfo{Name: name, Type: InferColumnType(values)}
	}
	return info
}
