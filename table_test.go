package sheetql

import (
	"context"
	"testing"

	"github.com/nao1215/sheetql/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Parallel()

	rows := []*model.Row{
		model.NewRow(map[string]model.Value{"Name": "Ann", "Age": 30.0}),
		model.NewRow(map[string]model.Value{"Name": "Bo"}),
	}
	tbl := newTable("Team Roster", []string{"Name", "Age"}, rows)

	assert.Equal(t, "Team_Roster", tbl.name)
	assert.Equal(t, []model.Value{"Bo", nil}, tbl.record(1))
	assert.Equal(t, model.Grid{
		{"Name", "Age"},
		{"Ann", 30.0},
		{"Bo", nil},
	}, tbl.grid())
	require.Len(t, tbl.columnInfo, 2)
	assert.Equal(t, model.ColumnTypeText, tbl.columnInfo[0].Type)
	assert.Equal(t, model.ColumnTypeInteger, tbl.columnInfo[1].Type)
}

func TestQuery_snapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("every heading without a projection", func(t *testing.T) {
		t.Parallel()
		host := NewMemoryHost().AddSheet("People", peopleGrid())
		tbl, err := New(host).From("People").Where(map[string]any{"Name": "Bo"}).snapshot(ctx, "dump")
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Age"}, tbl.columns)
		assert.Equal(t, model.Grid{{"Name", "Age"}, {"Bo", "40"}}, tbl.grid())
	})

	t.Run("projection", func(t *testing.T) {
		t.Parallel()
		host := NewMemoryHost().AddSheet("People", peopleGrid())
		tbl, err := New(host).From("People").Select("Age").snapshot(ctx, "dump")
		require.NoError(t, err)
		assert.Equal(t, model.Grid{{"Age"}, {"30"}, {"40"}}, tbl.grid())
	})

	t.Run("unknown projected column", func(t *testing.T) {
		t.Parallel()
		host := NewMemoryHost().AddSheet("People", peopleGrid())
		_, err := New(host).From("People").Select("Email").snapshot(ctx, "dump")
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("duplicate projected column", func(t *testing.T) {
		t.Parallel()
		host := NewMemoryHost().AddSheet("People", peopleGrid())
		_, err := New(host).From("People").Select("Name", "Name").snapshot(ctx, "dump")
		assert.ErrorIs(t, err, errDuplicateColumnName)
	})
}
