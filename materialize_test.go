package sheetql

import (
	"context"
	"testing"

	"github.com/nao1215/sheetql/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	t.Run("empty grid", func(t *testing.T) {
		t.Parallel()
		header, rows := materialize(nil, 1)
		assert.Empty(t, header)
		assert.Empty(t, rows)
	})

	t.Run("positions and widths", func(t *testing.T) {
		t.Parallel()
		header, rows := materialize(model.Grid{
			{"Name", "Age"},
			{"Ann", float64(30)},
			{"Bo"},
		}, 1)
		assert.Equal(t, model.Header{"Name", "Age"}, header)
		require.Len(t, rows, 3)
		for i, r := range rows {
			assert.Equal(t, model.Meta{Row: i + 1, Cols: 2}, r.Meta)
		}
		v, ok := rows[2].Get("Age")
		assert.True(t, ok, "short lines still carry every heading")
		assert.Nil(t, v)
	})

	t.Run("blank headings are not keys", func(t *testing.T) {
		t.Parallel()
		_, rows := materialize(model.Grid{
			{"Name", nil, "Age"},
			{"Ann", "hidden", float64(30)},
		}, 1)
		assert.Equal(t, map[string]model.Value{"Name": "Ann", "Age": float64(30)}, rows[1].Fields)
	})

	t.Run("repeated heading keeps the rightmost value", func(t *testing.T) {
		t.Parallel()
		_, rows := materialize(model.Grid{
			{"X", "X"},
			{"left", "right"},
		}, 1)
		assert.Equal(t, "right", rows[1].Fields["X"])
	})

	t.Run("header row past the grid", func(t *testing.T) {
		t.Parallel()
		header, rows := materialize(model.Grid{{"a"}}, 3)
		assert.Equal(t, model.Header{""}, header)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Fields)
	})
}

func TestReadHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := NewMemoryHost().AddSheet("S", model.Grid{
		{"title"},
		{" Region ", "", "Total", nil},
		{"North", "x", float64(1), "wide"},
	})
	sheet, err := h.FindSheet(ctx, "S")
	require.NoError(t, err)

	header, err := readHeader(ctx, sheet, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Header{"Region", "", "Total", ""}, header)

	col, ok := header.Column("Total")
	assert.True(t, ok)
	assert.Equal(t, 3, col)
}
