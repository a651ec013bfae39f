package sheetql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nao1215/sheetql/domain/model"
	"github.com/xuri/excelize/v2"
)

// DefaultHeaderRow is the header row used when From is given none.
const DefaultHeaderRow = 1

// Query is a builder for reading and writing the rows of one sheet.
// Use New to create a new instance, then chain From, Where and Select.
//
// The typical usage pattern is:
//
//	q := sheetql.New(host).From("Tasks").Where(map[string]any{"Status": "open"})
//	rows, err := q.Rows(ctx)
//	if err != nil {
//		return err
//	}
//	n, err := q.UpdateRows(ctx, map[string]any{"Status": "done"})
//
// A Query is not safe for concurrent use.
type Query struct {
	host   Host
	logger *slog.Logger

	// sheetName is the target sheet set by From
	sheetName string
	// headerRow is the 1-based row holding the headings
	headerRow int
	// columns is the projection recorded by Select
	columns []string
	// where is the active row predicate, nil selects everything
	where Predicate
	// fromErr and whereErr hold the error of the latest From and Where call,
	// reported by the next operation
	fromErr  error
	whereErr error

	// sheet is the resolved handle for sheetName
	sheet Sheet
	// header caches the heading lookup
	header model.Header
	// table caches the materialized rows, header row included
	table []*model.Row
}

// Option configures a Query.
type Option func(*Query)

// WithLogger sets the logger receiving debug records for reads and writes.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithHeaderRow sets the header row used by From when none is given.
func WithHeaderRow(row int) Option {
	return func(q *Query) {
		q.headerRow = row
	}
}

// New creates a query builder over host.
func New(host Host, opts ...Option) *Query {
	q := &Query{
		host:      host,
		logger:    slog.New(slog.DiscardHandler),
		headerRow: DefaultHeaderRow,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Select records the projected column names.
// Row objects always carry every column; the projection applies to Dump and
// OpenDB.
//
// Returns the builder for method chaining.
func (q *Query) Select(columns ...string) *Query {
	q.columns = slices.Clone(columns)
	return q
}

// From sets the target sheet and optionally its header row (default 1).
// Any cached handle, headings and rows are dropped.
//
// Returns the builder for method chaining.
func (q *Query) From(sheet string, headerRow ...int) *Query {
	row := q.headerRow
	if len(headerRow) > 0 {
		row = headerRow[0]
	}
	if row < 1 {
		q.fromErr = fmt.Errorf("%w: %d", ErrInvalidHeaderRow, row)
		return q
	}
	q.fromErr = nil
	q.sheetName = sheet
	q.headerRow = row
	q.sheet = nil
	q.invalidate()
	return q
}

// Where installs the row predicate. p may be a map[string]any (compiled with
// Match), a map[string]string, a Predicate, a func(*model.Row) bool, or nil
// to select every row.
//
// Returns the builder for method chaining.
func (q *Query) Where(p any) *Query {
	pred, err := compilePredicate(p)
	if err != nil {
		q.whereErr = err
		return q
	}
	q.whereErr = nil
	q.where = pred
	return q
}

// Err returns the configuration error left by the latest From or Where call.
func (q *Query) Err() error {
	if q.fromErr != nil {
		return q.fromErr
	}
	return q.whereErr
}

// SheetName returns the target sheet.
func (q *Query) SheetName() string {
	return q.sheetName
}

// HeaderRow returns the 1-based header row.
func (q *Query) HeaderRow() int {
	return q.headerRow
}

// Columns returns the projection recorded by Select.
func (q *Query) Columns() []string {
	return slices.Clone(q.columns)
}

// Headings returns the trimmed, non-blank headings of the header row.
func (q *Query) Headings(ctx context.Context) ([]string, error) {
	h, err := q.loadHeader(ctx)
	if err != nil {
		return nil, err
	}
	return h.Names(), nil
}

// Table returns every materialized row, header row included, filtered by the
// active predicate. A missing sheet yields no rows.
func (q *Query) Table(ctx context.Context) ([]*model.Row, error) {
	rows, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(rows, q.where), nil
}

// Rows returns the data rows below the header row filtered by the active
// predicate. A missing sheet yields no rows.
func (q *Query) Rows(ctx context.Context) ([]*model.Row, error) {
	rows, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(q.dataRows(rows), q.where), nil
}

// Values returns the values of column over the selected data rows.
func (q *Query) Values(ctx context.Context, column string) ([]model.Value, error) {
	if _, err := q.column(ctx, "values", column); err != nil {
		return nil, err
	}
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]model.Value, len(rows))
	for i, r := range rows {
		values[i], _ = r.Get(column)
	}
	return values, nil
}

// CellRef is the 1-based sheet position of a cell.
type CellRef struct {
	Row int
	Col int
}

// A1 returns the cell reference in A1 notation.
func (c CellRef) A1() (string, error) {
	return excelize.CoordinatesToCellName(c.Col, c.Row)
}

// Cells returns the position of column in each selected data row.
func (q *Query) Cells(ctx context.Context, column string) ([]CellRef, error) {
	col, err := q.column(ctx, "cells", column)
	if err != nil {
		return nil, err
	}
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	cells := make([]CellRef, len(rows))
	for i, r := range rows {
		cells[i] = CellRef{Row: r.Meta.Row, Col: col}
	}
	return cells, nil
}

// CellsWithHeadings returns, for each selected data row, the positions of
// column and every extra column keyed by heading.
func (q *Query) CellsWithHeadings(ctx context.Context, column string, extra ...string) ([]map[string]CellRef, error) {
	names := append([]string{column}, extra...)
	cols := make([]int, len(names))
	for i, name := range names {
		col, err := q.column(ctx, "cells", name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]CellRef, len(rows))
	for i, r := range rows {
		m := make(map[string]CellRef, len(names))
		for j, name := range names {
			m[name] = CellRef{Row: r.Meta.Row, Col: cols[j]}
		}
		out[i] = m
	}
	return out, nil
}

// ClearCache drops the cached headings and rows and commits buffered host
// writes so the next read observes them.
func (q *Query) ClearCache(ctx context.Context) error {
	q.invalidate()
	if err := q.host.Commit(ctx); err != nil {
		return NewErrorContext("commit", q.sheetName).Error(err)
	}
	return nil
}

func (q *Query) invalidate() {
	q.header = nil
	q.table = nil
}

// resolveSheet returns the target sheet handle. When required is false a
// missing sheet returns a nil Sheet and no error.
func (q *Query) resolveSheet(ctx context.Context, required bool) (Sheet, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if q.sheetName == "" {
		return nil, ErrNoSheetSelected
	}
	if q.sheet != nil {
		return q.sheet, nil
	}
	sheet, err := q.host.FindSheet(ctx, q.sheetName)
	if err != nil {
		if errors.Is(err, ErrSheetNotFound) && !required {
			q.logger.DebugContext(ctx, "sheet not found, reading no rows", slog.String("sheet", q.sheetName))
			return nil, nil
		}
		return nil, NewErrorContext("find sheet", q.sheetName).Error(err)
	}
	q.sheet = sheet
	return sheet, nil
}

// load returns the cached rows, materializing them on first use.
func (q *Query) load(ctx context.Context) ([]*model.Row, error) {
	if q.table != nil {
		return q.table, nil
	}
	sheet, err := q.resolveSheet(ctx, false)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return []*model.Row{}, nil
	}

	grid, err := sheet.ReadAll(ctx)
	if err != nil {
		return nil, NewErrorContext("read", q.sheetName).Error(err)
	}
	header, rows := materialize(grid, q.headerRow)
	q.table = rows
	if q.header == nil {
		q.header = header
	}
	q.logger.DebugContext(ctx, "materialized sheet",
		slog.String("sheet", q.sheetName),
		slog.Int("rows", len(rows)),
		slog.Int("cols", grid.Width()))
	return rows, nil
}

// loadHeader returns the cached header, reading it on first use.
// Unlike load, a missing sheet is an error.
func (q *Query) loadHeader(ctx context.Context) (model.Header, error) {
	if q.header != nil {
		return q.header, nil
	}
	sheet, err := q.resolveSheet(ctx, true)
	if err != nil {
		return nil, err
	}
	header, err := readHeader(ctx, sheet, q.headerRow)
	if err != nil {
		return nil, NewErrorContext("read headings", q.sheetName).Error(err)
	}
	q.header = header
	return header, nil
}

// column resolves a heading to its 1-based grid column.
func (q *Query) column(ctx context.Context, op, name string) (int, error) {
	h, err := q.loadHeader(ctx)
	if err != nil {
		return 0, err
	}
	col, ok := h.Column(name)
	if !ok {
		return 0, NewErrorContext(op, q.sheetName).WithColumn(name).Error(ErrColumnNotFound)
	}
	return col, nil
}

// dataRows drops the header row and anything above it.
func (q *Query) dataRows(rows []*model.Row) []*model.Row {
	for i, r := range rows {
		if r.Meta.Row > q.headerRow {
			return rows[i:]
		}
	}
	return []*model.Row{}
}
