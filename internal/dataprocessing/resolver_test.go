package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logmerge/internal/errors"
	"logmerge/internal/ingest"
	"logmerge/internal/table"
)

func newTable(t *testing.T, headers []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl := table.New("test.csv", headers)
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	return tbl
}

func TestResolve_HeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "plain english", header: "Date"},
		{name: "padded", header: ingest.CleanHeader(" date ")},
		{name: "day spelling", header: "Day"},
		{name: "full-width spaced japanese", header: ingest.CleanHeader("日　付")},
		{name: "circled numbering glyph", header: ingest.CleanHeader("①日付")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTable(t, []string{tt.header, "Time", "Value"},
				[]string{"2024/01/02", "10:00:00", "1.5"})

			resolved, diags := Resolve(tbl)
			require.Empty(t, diags)
			require.NotNil(t, resolved)
			assert.Equal(t, []string{DateColumn, TimeColumn, "Value"}, resolved.Headers)
		})
	}
}

func TestResolve_SchemaFailures(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
	}{
		{name: "no date column", headers: []string{"Value1", "Value2"}},
		{name: "two date-like columns", headers: []string{"Date", "Day", "Time"}},
		{name: "no time column", headers: []string{"Date", "Value"}},
		{name: "two time columns", headers: []string{"Date", "Time", "時刻"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTable(t, tt.headers)

			resolved, diags := Resolve(tbl)
			assert.Nil(t, resolved)
			require.Len(t, diags, 1)
			assert.Equal(t, errors.KindSchemaFailure, diags[0].Kind)
			assert.Equal(t, "test.csv", diags[0].File)
		})
	}
}

func TestResolve_DropsCorruptRows(t *testing.T) {
	tbl := newTable(t, []string{"日付", "時刻", "Value"},
		[]string{"2024/01/02", "10:00:00", "1"},
		[]string{"日付", "時刻", "Value"},       // embedded second header block
		[]string{"資料No.3", "10:00:05", "2"}, // label row
		[]string{"2024/01/02", "10:00:10", "3"},
	)

	resolved, diags := Resolve(tbl)
	require.Empty(t, diags)
	require.Equal(t, 2, resolved.Len())
	assert.Equal(t, "1", resolved.Rows[0][2])
	assert.Equal(t, "3", resolved.Rows[1][2])
}
