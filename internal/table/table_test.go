package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_AppendRowAlignsToHeader(t *testing.T) {
	tbl := New("x.csv", []string{"a", "b", "c"})

	tbl.AppendRow([]string{"1"})
	tbl.AppendRow([]string{"1", "2", "3", "4"})

	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tbl.Rows[1])
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl := New("x.csv", []string{"Date", "Time"})

	assert.Equal(t, 0, tbl.ColumnIndex("Date"))
	assert.Equal(t, 1, tbl.ColumnIndex("Time"))
	assert.Equal(t, -1, tbl.ColumnIndex("Value"))
}

func TestTable_NilSafety(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.IsEmpty())
}
