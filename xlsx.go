package sheetql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/sheetql/domain/model"
	"github.com/xuri/excelize/v2"
)

// XLSXHost is a Host backed by an Excel workbook.
// Cell writes go to the in-memory workbook; Commit saves it to its path,
// compressed when the path ends in .gz, .xz or .zst.
// Decoded sheets are cached until the next write through the host.
// It is not safe for concurrent use.
type XLSXHost struct {
	file *excelize.File
	path string
	// grids caches decoded sheets by name
	grids map[string]model.Grid
}

// OpenXLSX opens the workbook at path. Compressed workbooks (.xlsx.gz,
// .xlsx.bz2, .xlsx.xz, .xlsx.zst) are decompressed into memory.
func OpenXLSX(path string) (*XLSXHost, error) {
	var (
		file *excelize.File
		err  error
	)
	if detectCompression(path) != CompressionNone {
		data, readErr := readCompressedFile(path)
		if readErr != nil {
			return nil, NewErrorContext("open", "").WithDetails(path).Error(readErr)
		}
		file, err = excelize.OpenReader(bytes.NewReader(data))
	} else {
		file, err = excelize.OpenFile(path)
	}
	if err != nil {
		return nil, NewErrorContext("open", "").WithDetails(path).Error(err)
	}
	return NewXLSXHost(file, path), nil
}

// NewXLSXHost wraps an open workbook. With an empty path Commit is a no-op
// and the caller owns saving the workbook.
func NewXLSXHost(file *excelize.File, path string) *XLSXHost {
	return &XLSXHost{file: file, path: path, grids: make(map[string]model.Grid)}
}

// File returns the underlying workbook. Decoded sheets are dropped since the
// caller may edit it.
func (h *XLSXHost) File() *excelize.File {
	clear(h.grids)
	return h.file
}

// Close closes the workbook without saving.
func (h *XLSXHost) Close() error {
	return h.file.Close()
}

// FindSheet implements Host.
func (h *XLSXHost) FindSheet(_ context.Context, name string) (Sheet, error) {
	idx, err := h.file.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return &xlsxSheet{host: h, file: h.file, name: name}, nil
}

// Commit implements Host by saving the workbook to its path.
func (h *XLSXHost) Commit(_ context.Context) error {
	if h.path == "" {
		return nil
	}
	compression := detectCompression(h.path)
	if compression == CompressionNone {
		return h.file.SaveAs(h.path)
	}

	w, cleanup, err := createCompressedFile(h.path, compression)
	if err != nil {
		return err
	}
	if _, err := h.file.WriteTo(w); err != nil {
		return errors.Join(err, cleanup())
	}
	return cleanup()
}

// xlsxSheet implements Sheet for one worksheet of a workbook.
type xlsxSheet struct {
	host *XLSXHost
	file *excelize.File
	name string
}

func (s *xlsxSheet) Name() string {
	return s.name
}

func (s *xlsxSheet) ReadAll(ctx context.Context) (model.Grid, error) {
	grid, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return grid.Pad(usedColumns(grid)), nil
}

func (s *xlsxSheet) ReadRange(ctx context.Context, row, col, numRows, numCols int) (model.Grid, error) {
	if err := checkPosition(row, col); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, cached := s.host.grids[s.name]
	out := make(model.Grid, numRows)
	for i := range out {
		line := make([]model.Value, numCols)
		for j := range line {
			if cached {
				line[j] = grid.Cell(row-1+i, col-1+j)
				continue
			}
			v, err := s.cell(row+i, col+j)
			if err != nil {
				return nil, err
			}
			line[j] = v
		}
		out[i] = line
	}
	return out, nil
}

// cell reads one typed cell without decoding the rest of the sheet.
func (s *xlsxSheet) cell(row, col int) (model.Value, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	raw, err := s.file.GetCellValue(s.name, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s!%s: %w", s.name, name, err)
	}
	return s.decode(row, col, raw)
}

func (s *xlsxSheet) WriteRange(_ context.Context, row, col int, values model.Grid) error {
	for i, line := range values {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		cells := make([]any, len(line))
		copy(cells, line)
		s.forget()
		if err := s.file.SetSheetRow(s.name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func (s *xlsxSheet) WriteCell(_ context.Context, row, col int, value model.Value) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	s.forget()
	return s.file.SetCellValue(s.name, cell, value)
}

func (s *xlsxSheet) AppendRow(ctx context.Context, values []model.Value) error {
	last, err := s.LastRow(ctx)
	if err != nil {
		return err
	}
	return s.WriteRange(ctx, last+1, 1, model.Grid{values})
}

// DeleteRow removes the whole worksheet row; excelize shifts every column.
func (s *xlsxSheet) DeleteRow(_ context.Context, row, _ int) error {
	if err := checkPosition(row, 1); err != nil {
		return err
	}
	s.forget()
	return s.file.RemoveRow(s.name, row)
}

func (s *xlsxSheet) LastRow(ctx context.Context) (int, error) {
	grid, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return len(grid), nil
}

func (s *xlsxSheet) LastColumn(ctx context.Context) (int, error) {
	grid, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return usedColumns(grid), nil
}

// forget drops the decoded copy of the sheet.
func (s *xlsxSheet) forget() {
	delete(s.host.grids, s.name)
}

// read returns the typed cells of the sheet with trailing blank rows removed.
// The result is shared with the cache and must not be modified.
func (s *xlsxSheet) read(ctx context.Context) (model.Grid, error) {
	if grid, ok := s.host.grids[s.name]; ok {
		return grid, nil
	}
	rows, err := s.file.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", s.name, err)
	}

	grid := make(model.Grid, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := make([]model.Value, len(row))
		for j, raw := range row {
			v, err := s.decode(i+1, j+1, raw)
			if err != nil {
				return nil, err
			}
			line[j] = v
		}
		grid[i] = line
	}

	last := len(grid)
	for last > 0 && rowIsBlank(grid[last-1]) {
		last--
	}
	s.host.grids[s.name] = grid[:last]
	return grid[:last], nil
}

// decode turns raw cell text into a typed value using the cell type.
func (s *xlsxSheet) decode(row, col int, raw string) (model.Value, error) {
	if raw == "" {
		return "", nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := s.file.GetCellType(s.name, cell)
	if err != nil {
		return nil, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true", nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func rowIsBlank(line []model.Value) bool {
	for _, v := range line {
		if !model.IsBlank(v) {
			return false
		}
	}
	return true
}

func usedColumns(grid model.Grid) int {
	width := 0
	for _, line := range grid {
		for j := len(line) - 1; j >= width; j-- {
			if !model.IsBlank(line[j]) {
				width = j + 1
				break
			}
		}
	}
	return width
}
