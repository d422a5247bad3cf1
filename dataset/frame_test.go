package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/chartlib/dataset"
)

func TestFrame_DistinctEncounterOrder(t *testing.T) {
	f := dataset.New("group")
	for _, g := range []string{"b", "a", "b", "c", "a"} {
		f.AddRow(dataset.Row{"group": g})
	}
	assert.Equal(t, []any{"b", "a", "c"}, f.Distinct("group"))
	assert.Nil(t, f.Distinct("missing"))
}

func TestFrame_AddRowGrowsColumns(t *testing.T) {
	f := dataset.New("x")
	f.AddRow(dataset.Row{"x": 1, "b": 2, "a": 3})
	assert.Equal(t, []string{"x", "a", "b"}, f.Columns())
	assert.True(t, f.HasColumn("a"))
	assert.False(t, f.HasColumn("z"))
}

func TestFrame_Column(t *testing.T) {
	f := dataset.New("x", "y")
	f.AddRow(dataset.Row{"x": 1}).AddRow(dataset.Row{"x": 2, "y": 3})
	vals, err := f.Column("y")
	require.NoError(t, err)
	assert.Equal(t, []any{nil, 3}, vals)
	_, err = f.Column("zzz")
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
}

func TestFrame_SortAndFilter(t *testing.T) {
	f := dataset.New("g", "x")
	f.AddRow(dataset.Row{"g": "b", "x": 2.0}).
		AddRow(dataset.Row{"g": "a", "x": 5.0}).
		AddRow(dataset.Row{"g": "a", "x": 1.0})
	f.Sort("g", "x")
	rows := f.Rows()
	assert.Equal(t, "a", rows[0]["g"])
	assert.Equal(t, 1.0, rows[0]["x"])
	assert.Equal(t, "b", rows[2]["g"])

	kept := f.Filter(func(r dataset.Row) bool { return r["g"] == "a" })
	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 3, f.Len())
}

func TestReadCSV_Sniffing(t *testing.T) {
	in := "group,date,Confirmed\nItaly,2020-03-01,100\nItaly,2020-03-02,\nSpain,2020-03-01,40.5\n"
	f, err := dataset.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	rows := f.Rows()
	assert.Equal(t, 100.0, rows[0]["Confirmed"])
	assert.Nil(t, rows[1]["Confirmed"])
	assert.Equal(t, "2020-03-01", rows[0]["date"])
	assert.Equal(t, 40.5, rows[2]["Confirmed"])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, dataset.ErrEmptyCSV)
}
