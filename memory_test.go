package sheetql

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nao1215/sheetql/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rangeWrite records one WriteRange call
type rangeWrite struct {
	row, col int
	values   model.Grid
}

// spySheet records the writes reaching a sheet
type spySheet struct {
	Sheet

	mu          sync.Mutex
	cellWrites  []CellRef
	rangeWrites []rangeWrite
	deletes     []int
	failDelete  int
}

func (s *spySheet) WriteCell(ctx context.Context, row, col int, value model.Value) error {
	s.mu.Lock()
	s.cellWrites = append(s.cellWrites, CellRef{Row: row, Col: col})
	s.mu.Unlock()
	return s.Sheet.WriteCell(ctx, row, col, value)
}

func (s *spySheet) WriteRange(ctx context.Context, row, col int, values model.Grid) error {
	s.mu.Lock()
	s.rangeWrites = append(s.rangeWrites, rangeWrite{row: row, col: col, values: values})
	s.mu.Unlock()
	return s.Sheet.WriteRange(ctx, row, col, values)
}

func (s *spySheet) DeleteRow(ctx context.Context, row, numCols int) error {
	s.mu.Lock()
	if s.failDelete > 0 && len(s.deletes) == s.failDelete {
		s.mu.Unlock()
		return errors.New("host unavailable")
	}
	s.deletes = append(s.deletes, row)
	s.mu.Unlock()
	return s.Sheet.DeleteRow(ctx, row, numCols)
}

// spyHost hands out one spySheet per sheet name
type spyHost struct {
	*MemoryHost
	spies map[string]*spySheet
}

func newSpyHost(sheets map[string]model.Grid) *spyHost {
	h := &spyHost{MemoryHost: NewMemoryHost(), spies: make(map[string]*spySheet)}
	for name, grid := range sheets {
		h.AddSheet(name, grid)
	}
	return h
}

func (h *spyHost) FindSheet(ctx context.Context, name string) (Sheet, error) {
	if spy, ok := h.spies[name]; ok {
		return spy, nil
	}
	s, err := h.MemoryHost.FindSheet(ctx, name)
	if err != nil {
		return nil, err
	}
	spy := &spySheet{Sheet: s}
	h.spies[name] = spy
	return spy, nil
}

func (h *spyHost) spy(t *testing.T, name string) *spySheet {
	t.Helper()
	spy, ok := h.spies[name]
	require.True(t, ok, "sheet %s was never resolved", name)
	return spy
}

func TestMemoryHost_FindSheet(t *testing.T) {
	t.Parallel()

	h := NewMemoryHost().AddSheet("Tasks", model.Grid{{"Name"}})

	s, err := h.FindSheet(context.Background(), "Tasks")
	require.NoError(t, err)
	assert.Equal(t, "Tasks", s.Name())

	_, err = h.FindSheet(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestMemoryHost_AddSheetCopiesGrid(t *testing.T) {
	t.Parallel()

	grid := model.Grid{{"Name"}, {"Ann"}}
	h := NewMemoryHost().AddSheet("S", grid)
	grid[1][0] = "changed"

	got, ok := h.Grid("S")
	require.True(t, ok)
	assert.Equal(t, model.Grid{{"Name"}, {"Ann"}}, got)
}

func TestMemorySheet_Ranges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := NewMemoryHost().AddSheet("S", model.Grid{
		{"a", "b"},
		{"c"},
	})
	s, err := h.FindSheet(ctx, "S")
	require.NoError(t, err)

	t.Run("read all pads to a rectangle", func(t *testing.T) {
		grid, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Grid{{"a", "b"}, {"c", nil}}, grid)
	})

	t.Run("read range beyond used cells yields nil", func(t *testing.T) {
		grid, err := s.ReadRange(ctx, 2, 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, model.Grid{{"c", nil, nil}, {nil, nil, nil}}, grid)
	})

	t.Run("write grows the grid", func(t *testing.T) {
		require.NoError(t, s.WriteRange(ctx, 3, 2, model.Grid{{"x", "y"}}))
		last, err := s.LastRow(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, last)
		lastCol, err := s.LastColumn(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, lastCol)
	})

	t.Run("append goes after the last used row", func(t *testing.T) {
		require.NoError(t, s.AppendRow(ctx, []model.Value{"z"}))
		grid, _ := h.Grid("S")
		assert.Equal(t, "z", grid.Cell(3, 0))
	})

	t.Run("delete shifts rows up", func(t *testing.T) {
		require.NoError(t, s.DeleteRow(ctx, 1, 2))
		grid, _ := h.Grid("S")
		assert.Equal(t, "c", grid.Cell(0, 0))
	})

	t.Run("invalid positions", func(t *testing.T) {
		assert.Error(t, s.WriteCell(ctx, 0, 1, "x"))
		_, err := s.ReadRange(ctx, 1, 0, 1, 1)
		assert.Error(t, err)
	})
}

func TestMemoryHost_Commit(t *testing.T) {
	t.Parallel()

	h := NewMemoryHost()
	require.NoError(t, h.Commit(context.Background()))
	require.NoError(t, h.Commit(context.Background()))
	assert.Equal(t, 2, h.Commits())
}
