package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	// Rows are fitted to the header width and blank rows are dropped.
	tbl, err := NewTable("src", []string{` "구분1" `, "구분2", "YouTube"}, [][]string{
		{"성별", "남성"},
		{"", "  ", ""},
		{"성별", " 여성 ", "79.5", "extra"},
	})
	require.NoError(t, err)

	assert.Equal(t, "src", tbl.Source())
	assert.Equal(t, []string{"구분1", "구분2", "YouTube"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"성별", "남성", ""}, tbl.Row(0))
	assert.Equal(t, []string{"성별", "여성", "79.5"}, tbl.Row(1))
}

func TestNewTable_EmptyHeader(t *testing.T) {
	_, err := NewTable("src", nil, [][]string{{"a"}})
	require.Error(t, err)
	assert.Equal(t, "DATA002", MapError(err).Code)
}

func TestTable_Immutable(t *testing.T) {
	tbl := wideTable(t)

	cols := tbl.Columns()
	cols[0] = "changed"
	row := tbl.Row(1)
	row[2] = "changed"

	assert.Equal(t, "연도", tbl.Columns()[0])
	assert.Equal(t, "남성", tbl.Cell(1, 2))
}

func TestTable_Accessors(t *testing.T) {
	tbl := wideTable(t)

	assert.Equal(t, "", tbl.Cell(-1, 0))
	assert.Equal(t, "", tbl.Cell(0, 99))
	assert.Equal(t, "", tbl.Cell(99, 0))

	pos, ok := tbl.ColumnIndex("youtube")
	assert.True(t, ok)
	assert.Equal(t, 4, pos)
	_, ok = tbl.ColumnIndex("Hulu")
	assert.False(t, ok)

	assert.Len(t, tbl.Head(3), 3)
	assert.Len(t, tbl.Head(100), len(wideRows))
}
