package sheetql

import (
	"context"

	"github.com/nao1215/sheetql/domain/model"
)

// materialize converts a grid into rows keyed by the header at headerRow.
// Every grid row is returned, header included, in ascending sheet order.
// Blank headings are not used as keys; a repeated heading keeps the value of
// its rightmost column.
func materialize(grid model.Grid, headerRow int) (model.Header, []*model.Row) {
	numCols := grid.Width()
	if numCols == 0 {
		return model.Header{}, []*model.Row{}
	}

	var raw []model.Value
	if headerRow-1 < len(grid) {
		raw = grid[headerRow-1]
	}
	header := model.NewHeader(padValues(raw, numCols))

	rows := make([]*model.Row, len(grid))
	for i, cells := range grid {
		row := &model.Row{
			Fields: make(map[string]model.Value, len(header)),
			Meta:   model.Meta{Row: i + 1, Cols: numCols},
		}
		for j, name := range header {
			if name == "" {
				continue
			}
			var v model.Value
			if j < len(cells) {
				v = cells[j]
			}
			row.Fields[name] = v
		}
		rows[i] = row
	}
	return header, rows
}

// readHeader reads only the rows down to headerRow and derives the header.
func readHeader(ctx context.Context, sheet Sheet, headerRow int) (model.Header, error) {
	lastCol, err := sheet.LastColumn(ctx)
	if err != nil {
		return nil, err
	}
	if lastCol == 0 {
		return model.Header{}, nil
	}
	grid, err := sheet.ReadRange(ctx, 1, 1, headerRow, lastCol)
	if err != nil {
		return nil, err
	}
	var raw []model.Value
	if headerRow-1 < len(grid) {
		raw = grid[headerRow-1]
	}
	return model.NewHeader(padValues(raw, lastCol)), nil
}

func padValues(values []model.Value, width int) []model.Value {
	if len(values) >= width {
		return values
	}
	out := make([]model.Value, width)
	copy(out, values)
	return out
}
