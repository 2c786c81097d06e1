package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logmerge/internal/table"
)

func finalTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("", []string{"Date", "Time", "datetime", "Value"})
	tbl.AppendRow([]string{"2024-01-02", "10:00:00", "2024-01-02 10:00:00", "1.5"})
	tbl.AppendRow([]string{"2024-01-02", "10:01:00", "2024-01-02 10:01:00", "2.5"})
	return tbl
}

func TestWriteCSV_BOMPrefix(t *testing.T) {
	out, err := WriteCSV(finalTable(t), DefaultOptions())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Time", "datetime", "Value"}, records[0])
	assert.Equal(t, "2024-01-02 10:01:00", records[2][2])
}

func TestWriteCSV_ExcludeTimestampColumn(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeTimestamp = false

	out, err := WriteCSV(finalTable(t), opts)
	require.NoError(t, err)

	text := string(out)
	assert.False(t, strings.Contains(text, "datetime"))

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Time", "Value"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "10:00:00", "1.5"}, records[1])
}

func TestWriteCSV_NoBOM(t *testing.T) {
	opts := DefaultOptions()
	opts.BOMPrefix = false

	out, err := WriteCSV(finalTable(t), opts)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
}
