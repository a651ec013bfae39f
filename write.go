package sheetql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/sheetql/domain/model"
)

// updateConfig holds UpdateRows settings
type updateConfig struct {
	// strict makes an update that selects no rows fail with ErrNoMatch
	strict bool
	// fullRow rewrites whole rows instead of only the changed cells
	fullRow bool
}

// UpdateOption configures UpdateRows.
type UpdateOption func(*updateConfig)

// Strict makes UpdateRows fail with ErrNoMatch when no row is selected.
func Strict() UpdateOption {
	return func(c *updateConfig) {
		c.strict = true
	}
}

// FullRow makes UpdateRows rewrite each selected row in one range write
// instead of writing only the cells whose values changed.
func FullRow() UpdateOption {
	return func(c *updateConfig) {
		c.fullRow = true
	}
}

// InsertRows appends rows after the last used row in a single range write.
// Each row is projected onto the current headings; missing keys, nil and
// false become empty cells. Rows that project to no non-empty cell are
// skipped.
// It returns the number of rows written.
func (q *Query) InsertRows(ctx context.Context, rows ...*model.Row) (int, error) {
	sheet, header, err := q.writeTarget(ctx, "insert")
	if err != nil {
		return 0, err
	}

	grid := make(model.Grid, 0, len(rows))
	for _, r := range rows {
		if r.IsEmpty() {
			continue
		}
		values, err := payload(r, header)
		if err != nil {
			return 0, NewErrorContext("insert", q.sheetName).Error(err)
		}
		if allBlank(values) {
			continue
		}
		grid = append(grid, values)
	}
	if len(grid) == 0 {
		return 0, nil
	}

	last, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, NewErrorContext("insert", q.sheetName).Error(err)
	}
	if err := sheet.WriteRange(ctx, last+1, 1, grid); err != nil {
		return 0, NewErrorContext("insert", q.sheetName).Error(err)
	}
	q.invalidate()
	q.logger.DebugContext(ctx, "inserted rows",
		slog.String("sheet", q.sheetName),
		slog.Int("first_row", last+1),
		slog.Int("count", len(grid)))
	return len(grid), nil
}

// UpdateRows applies mutation to every selected data row and writes the
// result back. mutation may be a Mutation, a func(*model.Row) *model.Row, a
// func(*model.Row), or a map[string]any compiled with Set.
//
// By default only cells whose values changed are written; FullRow rewrites
// whole rows. The cached rows are not modified: the mutation runs on copies.
// It returns the number of rows written.
func (q *Query) UpdateRows(ctx context.Context, mutation any, opts ...UpdateOption) (int, error) {
	cfg := updateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := compileMutation(mutation)
	if err != nil {
		return 0, err
	}
	if _, _, err := q.writeTarget(ctx, "update"); err != nil {
		return 0, err
	}
	rows, err := q.Rows(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		if cfg.strict {
			return 0, NewErrorContext("update", q.sheetName).Error(ErrNoMatch)
		}
		return 0, nil
	}

	updated := 0
	for _, r := range rows {
		before := r.Clone()
		after := m.apply(r.Clone())
		if after.Meta.Row == 0 {
			after.Meta = before.Meta
		}

		if cfg.fullRow {
			err = q.updateRow(ctx, after)
		} else {
			err = q.updateRowSafe(ctx, after, before)
		}
		if err != nil {
			if updated > 0 {
				q.invalidate()
			}
			return updated, err
		}
		updated++
	}

	q.invalidate()
	q.logger.DebugContext(ctx, "updated rows",
		slog.String("sheet", q.sheetName),
		slog.Int("count", updated),
		slog.Bool("full_row", cfg.fullRow))
	return updated, nil
}

// UpdateRow rewrites a whole materialized row in one range write.
// Cells beyond the headings and columns absent from the row keep their
// current content.
func (q *Query) UpdateRow(ctx context.Context, row *model.Row) error {
	if err := q.updateRow(ctx, row); err != nil {
		return err
	}
	q.invalidate()
	return nil
}

// UpdateRowSafe writes only the cells of row whose values differ from
// before, one cell at a time, leaving every other cell untouched.
func (q *Query) UpdateRowSafe(ctx context.Context, row, before *model.Row) error {
	if err := q.updateRowSafe(ctx, row, before); err != nil {
		return err
	}
	q.invalidate()
	return nil
}

func (q *Query) updateRow(ctx context.Context, row *model.Row) error {
	sheet, header, err := q.writeTarget(ctx, "update row")
	if err != nil {
		return err
	}
	if row == nil || row.Meta.Row < 1 {
		return NewErrorContext("update row", q.sheetName).Error(ErrRowNotMaterialized)
	}

	width := max(row.Meta.Cols, len(header))
	current, err := sheet.ReadRange(ctx, row.Meta.Row, 1, 1, width)
	if err != nil {
		return NewErrorContext("update row", q.sheetName).Error(err)
	}
	line := make([]model.Value, width)
	if len(current) > 0 {
		copy(line, current[0])
	}

	for i, name := range header {
		if name == "" {
			continue
		}
		v, ok := row.Get(name)
		if !ok {
			continue
		}
		n, err := model.Normalize(v)
		if err != nil {
			return NewErrorContext("update row", q.sheetName).Error(malformed(name, err))
		}
		line[i] = n
	}

	if err := sheet.WriteRange(ctx, row.Meta.Row, 1, model.Grid{line}); err != nil {
		return NewErrorContext("update row", q.sheetName).Error(err)
	}
	return nil
}

func (q *Query) updateRowSafe(ctx context.Context, row, before *model.Row) error {
	sheet, header, err := q.writeTarget(ctx, "update row")
	if err != nil {
		return err
	}
	if row == nil || row.Meta.Row < 1 {
		return NewErrorContext("update row", q.sheetName).Error(ErrRowNotMaterialized)
	}

	for _, key := range row.ChangedKeys(before) {
		col, ok := header.Column(key)
		if !ok {
			return NewErrorContext("update row", q.sheetName).WithColumn(key).Error(ErrColumnNotFound)
		}
		v, _ := row.Get(key)
		n, err := model.Normalize(v)
		if err != nil {
			return NewErrorContext("update row", q.sheetName).Error(malformed(key, err))
		}
		if err := sheet.WriteCell(ctx, row.Meta.Row, col, n); err != nil {
			return NewErrorContext("update row", q.sheetName).WithColumn(key).Error(err)
		}
	}
	return nil
}

// SetColumnValues writes value into every data row of column, from the row
// below the header down to the last used row, in one range write.
// It returns the number of cells written.
func (q *Query) SetColumnValues(ctx context.Context, column string, value any) (int, error) {
	sheet, _, err := q.writeTarget(ctx, "set column")
	if err != nil {
		return 0, err
	}
	col, err := q.column(ctx, "set column", column)
	if err != nil {
		return 0, err
	}
	v, err := model.Normalize(value)
	if err != nil {
		return 0, NewErrorContext("set column", q.sheetName).Error(malformed(column, err))
	}

	last, err := sheet.LastRow(ctx)
	if err != nil {
		return 0, NewErrorContext("set column", q.sheetName).Error(err)
	}
	n := last - q.headerRow
	if n <= 0 {
		return 0, nil
	}

	grid := make(model.Grid, n)
	for i := range grid {
		grid[i] = []model.Value{v}
	}
	if err := sheet.WriteRange(ctx, q.headerRow+1, col, grid); err != nil {
		return 0, NewErrorContext("set column", q.sheetName).WithColumn(column).Error(err)
	}
	q.invalidate()
	q.logger.DebugContext(ctx, "set column values",
		slog.String("sheet", q.sheetName),
		slog.String("column", column),
		slog.Int("count", n))
	return n, nil
}

// DeleteRows deletes every selected data row. The header row is never
// deleted. Rows are removed in ascending order and each target is shifted up
// by the number of rows already deleted.
// It returns the number of rows deleted.
func (q *Query) DeleteRows(ctx context.Context) (int, error) {
	sheet, _, err := q.writeTarget(ctx, "delete")
	if err != nil {
		return 0, err
	}
	rows, err := q.Rows(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, r := range rows {
		target := r.Meta.Row - deleted
		if err := sheet.DeleteRow(ctx, target, r.Meta.Cols); err != nil {
			if deleted > 0 {
				q.invalidate()
			}
			return deleted, NewErrorContext("delete", q.sheetName).
				WithDetails(fmt.Sprintf("row %d", r.Meta.Row)).Error(err)
		}
		deleted++
	}

	q.invalidate()
	q.logger.DebugContext(ctx, "deleted rows",
		slog.String("sheet", q.sheetName),
		slog.Int("count", deleted))
	return deleted, nil
}

// writeTarget resolves the sheet and header a write needs. Both are required.
func (q *Query) writeTarget(ctx context.Context, op string) (Sheet, model.Header, error) {
	sheet, err := q.resolveSheet(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	header, err := q.loadHeader(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(header.Names()) == 0 {
		return nil, nil, NewErrorContext(op, q.sheetName).WithDetails("sheet has no headings").Error(ErrColumnNotFound)
	}
	return sheet, header, nil
}

// payload serializes row in header order for an insert. nil and false are
// written as empty cells.
func payload(row *model.Row, header model.Header) ([]model.Value, error) {
	values := row.Values(header)
	for i, v := range values {
		n, err := model.Normalize(v)
		if err != nil {
			return nil, malformed(header[i], err)
		}
		if n == nil || n == false {
			n = ""
		}
		values[i] = n
	}
	return values, nil
}

func allBlank(values []model.Value) bool {
	for _, v := range values {
		if !model.IsBlank(v) {
			return false
		}
	}
	return true
}
