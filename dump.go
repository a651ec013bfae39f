package sheetql

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/nao1215/sheetql/domain/model"
	"github.com/xuri/excelize/v2"
)

// Dump writes the selected data rows to w. The first line (or the schema)
// carries the projected columns, or every heading when Select was not used.
//
// Example:
//
//	err := q.Where(map[string]any{"Status": "done"}).
//		Dump(ctx, os.Stdout, NewDumpOptions().WithFormat(OutputFormatTSV))
func (q *Query) Dump(ctx context.Context, w io.Writer, opts ...DumpOptions) error {
	options := NewDumpOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if !options.Compression.Writable() {
		return NewErrorContext("dump", q.sheetName).
			WithDetails(options.Compression.String()+" compression is not supported for writing").
			Error(ErrUnsupportedFormat)
	}

	t, err := q.snapshot(ctx, "dump")
	if err != nil {
		return err
	}

	out, cleanup, err := newCompressionHandler(options.Compression).writer(w)
	if err != nil {
		return NewErrorContext("dump", q.sheetName).Error(err)
	}
	if err := writeTable(out, t, options.Format); err != nil {
		_ = cleanup()
		return NewErrorContext("dump", q.sheetName).WithDetails(options.Format.String()).Error(err)
	}
	if err := cleanup(); err != nil {
		return NewErrorContext("dump", q.sheetName).Error(err)
	}
	return nil
}

// DumpFile writes the selected data rows to a file in outputDir named after
// the sheet, e.g. "Tasks.tsv.gz". It returns the path written.
func (q *Query) DumpFile(ctx context.Context, outputDir string, opts ...DumpOptions) (string, error) {
	options := NewDumpOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, NewTableName(q.sheetName).Sanitize().String()+options.FileExtension())
	file, err := os.Create(path) //nolint:gosec // Safe: path is built from the sanitized sheet name
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := q.Dump(ctx, file, options); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func writeTable(w io.Writer, t *table, format OutputFormat) error {
	switch format {
	case OutputFormatCSV:
		return writeDelimited(w, t.grid(), csvDelimiter)
	case OutputFormatTSV:
		return writeDelimited(w, t.grid(), tsvDelimiter)
	case OutputFormatLTSV:
		return writeLTSV(w, t.grid())
	case OutputFormatParquet:
		return writeParquet(w, t)
	case OutputFormatXLSX:
		return writeXLSX(w, t)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// writeDelimited writes every grid line as one CSV or TSV record.
func writeDelimited(w io.Writer, grid model.Grid, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	for _, line := range grid {
		record := make([]string, len(line))
		for j, v := range line {
			record[j] = model.String(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ltsvEscaper keeps labels and values on one line
var ltsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// writeLTSV writes the lines below the first one as label:value records,
// taking the labels from the first line.
func writeLTSV(w io.Writer, grid model.Grid) error {
	if len(grid) == 0 {
		return nil
	}
	labels := make([]string, len(grid[0]))
	for i, v := range grid[0] {
		labels[i] = ltsvEscaper.Replace(strings.ReplaceAll(model.String(v), ":", "_"))
	}

	fields := make([]string, len(labels))
	for _, line := range grid[1:] {
		for j, label := range labels {
			var v model.Value
			if j < len(line) {
				v = line[j]
			}
			fields[j] = label + ":" + ltsvEscaper.Replace(model.String(v))
		}
		if _, err := io.WriteString(w, strings.Join(fields, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// parquetSink hides Close from the parquet writer so the compression layer
// below keeps ownership of the stream.
type parquetSink struct {
	io.Writer
}

func writeParquet(w io.Writer, t *table) error {
	fields := make([]arrow.Field, len(t.columns))
	for i, info := range t.columnInfo {
		fields[i] = arrow.Field{Name: info.Name, Type: arrowType(info.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i := range t.rows {
		for j, v := range t.record(i) {
			appendArrowValue(builder.Field(j), t.columnInfo[j].Type, v)
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	writer, err := pqarrow.NewFileWriter(schema, parquetSink{w}, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return writer.Close()
}

func arrowType(ct model.ColumnType) arrow.DataType {
	switch ct {
	case model.ColumnTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case model.ColumnTypeReal:
		return arrow.PrimitiveTypes.Float64
	case model.ColumnTypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func appendArrowValue(b array.Builder, ct model.ColumnType, v model.Value) {
	if model.IsBlank(v) {
		b.AppendNull()
		return
	}
	switch ct {
	case model.ColumnTypeInteger:
		n, ok := toFloat(v)
		if !ok {
			b.AppendNull()
			return
		}
		b.(*array.Int64Builder).Append(int64(n))
	case model.ColumnTypeReal:
		n, ok := toFloat(v)
		if !ok {
			b.AppendNull()
			return
		}
		b.(*array.Float64Builder).Append(n)
	case model.ColumnTypeBoolean:
		x, ok := v.(bool)
		if !ok {
			b.AppendNull()
			return
		}
		b.(*array.BooleanBuilder).Append(x)
	default:
		b.(*array.StringBuilder).Append(model.String(v))
	}
}

// toFloat reads a number cell or numeric text.
func toFloat(v model.Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func writeXLSX(w io.Writer, t *table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	header := make([]any, len(t.columns))
	for i, c := range t.columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range t.rows {
		values := t.record(i)
		line := make([]any, len(values))
		copy(line, values)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	if len(t.name) <= 31 {
		if err := f.SetSheetName(sheet, t.name); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
