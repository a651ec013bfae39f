package sheetql

import (
	"context"
	"fmt"
	"sync"

	"github.com/nao1215/sheetql/domain/model"
)

// MemoryHost is an in-process Host holding each sheet as a grid.
// Writes are applied immediately; Commit only counts calls.
// It is safe for concurrent use.
type MemoryHost struct {
	mu      sync.Mutex
	sheets  map[string]*memorySheet
	commits int
}

// NewMemoryHost creates an empty in-memory host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{sheets: make(map[string]*memorySheet)}
}

// AddSheet creates or replaces the sheet name with a copy of grid.
//
// Returns the host for method chaining.
func (h *MemoryHost) AddSheet(name string, grid model.Grid) *MemoryHost {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sheets[name] = &memorySheet{host: h, name: name, cells: copyGrid(grid)}
	return h
}

// Grid returns a copy of the sheet's cells, trimmed to the used range.
func (h *MemoryHost) Grid(name string) (model.Grid, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sheets[name]
	if !ok {
		return nil, false
	}
	return s.used(), true
}

// Commits returns how many times Commit was called.
func (h *MemoryHost) Commits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commits
}

// FindSheet implements Host.
func (h *MemoryHost) FindSheet(_ context.Context, name string) (Sheet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return s, nil
}

// Commit implements Host.
func (h *MemoryHost) Commit(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits++
	return nil
}

// memorySheet is a ragged grid; missing cells read as nil.
type memorySheet struct {
	host  *MemoryHost
	name  string
	cells model.Grid
}

func (s *memorySheet) Name() string {
	return s.name
}

func (s *memorySheet) ReadAll(_ context.Context) (model.Grid, error) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.used(), nil
}

func (s *memorySheet) ReadRange(_ context.Context, row, col, numRows, numCols int) (model.Grid, error) {
	if err := checkPosition(row, col); err != nil {
		return nil, err
	}
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	out := make(model.Grid, numRows)
	for i := range out {
		line := make([]model.Value, numCols)
		for j := range line {
			line[j] = s.cells.Cell(row-1+i, col-1+j)
		}
		out[i] = line
	}
	return out, nil
}

func (s *memorySheet) WriteRange(_ context.Context, row, col int, values model.Grid) error {
	if err := checkPosition(row, col); err != nil {
		return err
	}
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	for i, line := range values {
		for j, v := range line {
			s.set(row+i, col+j, v)
		}
	}
	return nil
}

func (s *memorySheet) WriteCell(_ context.Context, row, col int, value model.Value) error {
	if err := checkPosition(row, col); err != nil {
		return err
	}
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.set(row, col, value)
	return nil
}

func (s *memorySheet) AppendRow(_ context.Context, values []model.Value) error {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	row := s.lastRow() + 1
	for j, v := range values {
		s.set(row, j+1, v)
	}
	return nil
}

// DeleteRow removes the whole row; numCols is ignored because the grid has
// no per-column shifting.
func (s *memorySheet) DeleteRow(_ context.Context, row, _ int) error {
	if err := checkPosition(row, 1); err != nil {
		return err
	}
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	if row > len(s.cells) {
		return nil
	}
	s.cells = append(s.cells[:row-1], s.cells[row:]...)
	return nil
}

func (s *memorySheet) LastRow(_ context.Context) (int, error) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.lastRow(), nil
}

func (s *memorySheet) LastColumn(_ context.Context) (int, error) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.lastColumn(), nil
}

func (s *memorySheet) set(row, col int, v model.Value) {
	for len(s.cells) < row {
		s.cells = append(s.cells, nil)
	}
	line := s.cells[row-1]
	for len(line) < col {
		line = append(line, nil)
	}
	line[col-1] = v
	s.cells[row-1] = line
}

func (s *memorySheet) lastRow() int {
	for i := len(s.cells) - 1; i >= 0; i-- {
		for _, v := range s.cells[i] {
			if !model.IsBlank(v) {
				return i + 1
			}
		}
	}
	return 0
}

func (s *memorySheet) lastColumn() int {
	last := 0
	for _, line := range s.cells {
		for j := len(line) - 1; j >= last; j-- {
			if !model.IsBlank(line[j]) {
				last = j + 1
				break
			}
		}
	}
	return last
}

// used returns the cells within the used range as a padded rectangle.
func (s *memorySheet) used() model.Grid {
	rows, cols := s.lastRow(), s.lastColumn()
	return model.Grid(s.cells[:rows]).Pad(cols)
}

func checkPosition(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("sheetql: invalid cell position (%d, %d)", row, col)
	}
	return nil
}

func copyGrid(g model.Grid) model.Grid {
	out := make(model.Grid, len(g))
	for i, line := range g {
		out[i] = append([]model.Value(nil), line...)
	}
	return out
}
