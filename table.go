package sheetql

import (
	"context"

	"github.com/nao1215/sheetql/domain/model"
)

// table is a snapshot of the selected rows, used by Dump and OpenDB.
type table struct {
	// name is the sanitized sheet name.
	name string
	// columns are the projected columns, or every heading without a projection.
	columns []string
	// rows are the selected data rows.
	rows []*model.Row
	// columnInfo contains inferred type information for each column
	columnInfo []model.ColumnInfo
}

// newTable create new table and infers its column types.
func newTable(name string, columns []string, rows []*model.Row) *table {
	return &table{
		name:       NewTableName(name).Sanitize().String(),
		columns:    columns,
		rows:       rows,
		columnInfo: model.InferColumnsInfo(columns, rows),
	}
}

// record returns the values of row i in column order.
func (t *table) record(i int) []model.Value {
	out := make([]model.Value, len(t.columns))
	for j, c := range t.columns {
		out[j], _ = t.rows[i].Get(c)
	}
	return out
}

// grid returns the columns followed by every record.
func (t *table) grid() model.Grid {
	g := make(model.Grid, 0, len(t.rows)+1)
	header := make([]model.Value, len(t.columns))
	for i, c := range t.columns {
		header[i] = c
	}
	g = append(g, header)
	for i := range t.rows {
		g = append(g, t.record(i))
	}
	return g
}

// snapshot captures the selected data rows restricted to the projection.
func (q *Query) snapshot(ctx context.Context, op string) (*table, error) {
	columns := q.Columns()
	if len(columns) == 0 {
		names, err := q.Headings(ctx)
		if err != nil {
			return nil, err
		}
		columns = names
	} else {
		for _, c := range columns {
			if _, err := q.column(ctx, op, c); err != nil {
				return nil, err
			}
		}
	}
	if err := validateColumnNames(columns); err != nil {
		return nil, NewErrorContext(op, q.sheetName).Error(err)
	}

	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return newTable(q.sheetName, columns, rows), nil
}
