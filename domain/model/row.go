package model

import (
	"sort"
	"strings"
)

// Meta records where a materialized row lives in the sheet.
type Meta struct {
	// Row is the 1-based sheet row.
	Row int
	// Cols is the number of grid columns when the row was read.
	Cols int
}

// Row is one sheet row keyed by heading name.
// Meta is kept out of Fields so it never reaches a write payload.
type Row struct {
	Fields map[string]Value
	Meta   Meta
}

// NewRow create new Row from field values.
func NewRow(fields map[string]Value) *Row {
	r := &Row{Fields: make(map[string]Value, len(fields))}
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (Value, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[key]
	return v, ok
}

// Set stores v under key.
func (r *Row) Set(key string, v Value) {
	if r.Fields == nil {
		r.Fields = make(map[string]Value)
	}
	r.Fields[key] = v
}

// IsEmpty reports whether the row has no non-blank field.
func (r *Row) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, v := range r.Fields {
		if !IsBlank(v) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the row. Values are shared, the map is not.
func (r *Row) Clone() *Row {
	c := NewRow(r.Fields)
	c.Meta = r.Meta
	return c
}

// Values serializes the row positionally in header order.
// Blank header positions and missing keys yield nil.
func (r *Row) Values(h Header) []Value {
	out := make([]Value, len(h))
	for i, name := range h {
		if name == "" {
			continue
		}
		out[i] = r.Fields[name]
	}
	return out
}

// ChangedKeys returns the keys of r whose values differ from before, sorted.
// Keys missing from r are not reported: a cell is blanked only by setting
// its key to nil or "".
func (r *Row) ChangedKeys(before *Row) []string {
	var keys []string
	for k, v := range r.Fields {
		old, _ := before.Get(k)
		if !Equal(old, v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Equal compare Row fields. Meta is ignored.
func (r *Row) Equal(r2 *Row) bool {
	if len(r.Fields) != len(r2.Fields) {
		return false
	}
	for k, v := range r.Fields {
		v2, ok := r2.Fields[k]
		if !ok || !Equal(v, v2) {
			return false
		}
	}
	return true
}

// Header is the positional list of trimmed heading names for a sheet.
// A blank heading keeps its slot so positions stay aligned with grid columns.
type Header []string

// NewHeader derives a Header from a raw header row.
func NewHeader(raw []Value) Header {
	h := make(Header, len(raw))
	for i, v := range raw {
		h[i] = strings.TrimSpace(String(v))
	}
	return h
}

// Names returns the non-blank headings in column order.
func (h Header) Names() []string {
	names := make([]string, 0, len(h))
	for _, name := range h {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Column returns the 1-based grid column of the first heading named name.
func (h Header) Column(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for i, v := range h {
		if v == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Grid is a rectangular block of cell values, row major.
type Grid [][]Value

// Width returns the length of the first row, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Cell returns the value at 0-based (row, col), nil when out of range.
func (g Grid) Cell(row, col int) Value {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil
	}
	return g[row][col]
}

// Pad returns a copy of g where every row has exactly width cells.
func (g Grid) Pad(width int) Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		padded := make([]Value, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
