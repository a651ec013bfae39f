package sheetql

import (
	"context"

	"github.com/nao1215/sheetql/domain/model"
)

// Host is the spreadsheet a Query runs against.
//
// Writes made through a Sheet are not guaranteed to be visible to later reads
// until Commit returns.
type Host interface {
	// FindSheet returns the sheet with the given name, or an error wrapping
	// ErrSheetNotFound when there is none.
	FindSheet(ctx context.Context, name string) (Sheet, error)
	// Commit flushes buffered writes.
	Commit(ctx context.Context) error
}

// Sheet is the cell-level capability set of one worksheet.
// Rows and columns are 1-based.
type Sheet interface {
	// Name returns the sheet name.
	Name() string
	// ReadAll returns the full used range, padded to a rectangle.
	ReadAll(ctx context.Context) (model.Grid, error)
	// ReadRange returns numRows x numCols cells starting at (row, col).
	ReadRange(ctx context.Context, row, col, numRows, numCols int) (model.Grid, error)
	// WriteRange writes values with its top-left cell at (row, col).
	WriteRange(ctx context.Context, row, col int, values model.Grid) error
	// WriteCell writes a single cell.
	WriteCell(ctx context.Context, row, col int, value model.Value) error
	// AppendRow writes values into the row after the last used row.
	AppendRow(ctx context.Context, values []model.Value) error
	// DeleteRow removes numCols cells of row and shifts the rows below up.
	DeleteRow(ctx context.Context, row, numCols int) error
	// LastRow returns the last used row, 0 for an empty sheet.
	LastRow(ctx context.Context) (int, error)
	// LastColumn returns the last used column, 0 for an empty sheet.
	LastColumn(ctx context.Context) (int, error)
}
