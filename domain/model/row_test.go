package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeader(t *testing.T) {
	t.Parallel()

	h := NewHeader([]Value{" Name ", "", "Age", float64(2024), nil})
	assert.Equal(t, Header{"Name", "", "Age", "2024", ""}, h, "header should be trimmed and keep blank slots")
	assert.Equal(t, []string{"Name", "Age", "2024"}, h.Names(), "names should drop blank headings")
}

func TestHeader_Column(t *testing.T) {
	t.Parallel()

	h := Header{"Name", "", "Age", "Name"}

	t.Run("first match from the left", func(t *testing.T) {
		t.Parallel()
		col, ok := h.Column("Name")
		require.True(t, ok)
		assert.Equal(t, 1, col)
	})

	t.Run("blank slot keeps grid alignment", func(t *testing.T) {
		t.Parallel()
		col, ok := h.Column("Age")
		require.True(t, ok)
		assert.Equal(t, 3, col, "Age sits in the third grid column")
	})

	t.Run("unknown and blank names", func(t *testing.T) {
		t.Parallel()
		_, ok := h.Column("Missing")
		assert.False(t, ok)
		_, ok = h.Column("  ")
		assert.False(t, ok)
	})
}

func TestRow_Values(t *testing.T) {
	t.Parallel()

	h := Header{"Name", "", "Age"}
	r := NewRow(map[string]Value{"Name": "Ann", "Age": "30", "Extra": "x"})
	r.Meta = Meta{Row: 2, Cols: 3}

	assert.Equal(t, []Value{"Ann", nil, "30"}, r.Values(h), "values should follow header positions")
}

func TestRow_ChangedKeys(t *testing.T) {
	t.Parallel()

	before := NewRow(map[string]Value{"Name": "Ann", "Age": "30", "Status": "open"})
	after := before.Clone()
	after.Set("Status", "done")
	after.Set("Note", "new")
	after.Set("Age", "30")

	assert.Equal(t, []string{"Note", "Status"}, after.ChangedKeys(before))
	assert.Equal(t, "open", before.Fields["Status"], "clone must not share the field map")

	removed := before.Clone()
	delete(removed.Fields, "Age")
	assert.Empty(t, removed.ChangedKeys(before), "missing keys are left alone")

	blanked := before.Clone()
	blanked.Set("Age", nil)
	assert.Equal(t, []string{"Age"}, blanked.ChangedKeys(before))
}

func TestRow_Clone(t *testing.T) {
	t.Parallel()

	r := NewRow(map[string]Value{"a": "1"})
	r.Meta = Meta{Row: 4, Cols: 2}
	c := r.Clone()

	assert.Equal(t, r.Meta, c.Meta)
	assert.True(t, r.Equal(c))
	c.Set("a", "2")
	assert.False(t, r.Equal(c))
}

func TestRow_IsEmpty(t *testing.T) {
	t.Parallel()

	var nilRow *Row
	assert.True(t, nilRow.IsEmpty())
	assert.True(t, NewRow(nil).IsEmpty())
	assert.True(t, NewRow(map[string]Value{"a": "", "b": nil}).IsEmpty())
	assert.False(t, NewRow(map[string]Value{"a": false}).IsEmpty())
}

func TestGrid(t *testing.T) {
	t.Parallel()

	g := Grid{{"a", "b"}, {"c"}}
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 0, Grid{}.Width())
	assert.Equal(t, "c", g.Cell(1, 0))
	assert.Nil(t, g.Cell(1, 1))
	assert.Nil(t, g.Cell(5, 0))

	padded := g.Pad(3)
	assert.Equal(t, Grid{{"a", "b", nil}, {"c", nil, nil}}, padded)
}
