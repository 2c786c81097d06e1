package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logmerge/internal/table"
)

func timedTable(t *testing.T, headers []string, rows [][]string, stamps []time.Time) *table.Table {
	t.Helper()
	require.Equal(t, len(rows), len(stamps))
	tbl := table.New("test.csv", headers)
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	tbl.Timestamps = stamps
	return tbl
}

func at(hh, mm, ss int) time.Time {
	return time.Date(2024, 1, 2, hh, mm, ss, 0, time.UTC)
}

func TestDownsample_ZeroIntervalIsNoOp(t *testing.T) {
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "Value"},
		[][]string{
			{"2024-01-02", "10:00:05", "b"},
			{"2024-01-02", "10:00:01", "a"},
			{"2024-01-02", "10:00:09", "c"},
		},
		[]time.Time{at(10, 0, 5), at(10, 0, 1), at(10, 0, 9)},
	)

	out := Downsample(tbl, 0, at(10, 0, 0), "")

	require.Equal(t, 3, out.Len())
	// Order preserved exactly, no reordering in no-op mode.
	assert.Equal(t, "b", out.Rows[0][2])
	assert.Equal(t, "a", out.Rows[1][2])
	assert.Equal(t, "c", out.Rows[2][2])
}

func TestDownsample_BucketsAgainstSharedBase(t *testing.T) {
	// base 10:00:00, interval 60s: rows at 10:00:05, 10:00:40, 10:01:10
	// fall into buckets {0, 0, 1}; bucket 0 keeps its earliest row.
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "Value"},
		[][]string{
			{"2024-01-02", "10:00:05", "first"},
			{"2024-01-02", "10:00:40", "late"},
			{"2024-01-02", "10:01:10", "next"},
		},
		[]time.Time{at(10, 0, 5), at(10, 0, 40), at(10, 1, 10)},
	)

	out := Downsample(tbl, 60, at(10, 0, 0), "")

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "first", out.Rows[0][2])
	assert.Equal(t, "next", out.Rows[1][2])
	assert.Equal(t, at(10, 0, 5), out.Timestamps[0])
	assert.Equal(t, at(10, 1, 10), out.Timestamps[1])
}

func TestDownsample_EarliestTimestampWinsNotFileOrder(t *testing.T) {
	// The 10:00:03 row appears later in the file but is earlier in
	// time; it must win the bucket.
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "Value"},
		[][]string{
			{"2024-01-02", "10:00:30", "late"},
			{"2024-01-02", "10:00:03", "early"},
		},
		[]time.Time{at(10, 0, 30), at(10, 0, 3)},
	)

	out := Downsample(tbl, 60, at(10, 0, 0), "")

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "early", out.Rows[0][2])
}

func TestDownsample_RowsBeforeBaseGetNegativeBuckets(t *testing.T) {
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "Value"},
		[][]string{
			{"2024-01-02", "09:59:30", "before"},
			{"2024-01-02", "10:00:10", "after"},
		},
		[]time.Time{at(9, 59, 30), at(10, 0, 10)},
	)

	out := Downsample(tbl, 60, at(10, 0, 0), "")

	// Distinct buckets (-1 and 0), both survive.
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "before", out.Rows[0][2])
	assert.Equal(t, "after", out.Rows[1][2])
}

func TestDownsample_CriticalColumnFiltersIncompleteSamples(t *testing.T) {
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "循環水流量"},
		[][]string{
			{"2024-01-02", "10:00:05", "123.4"},
			{"2024-01-02", "10:01:05", ""},
			{"2024-01-02", "10:02:05", "125.0"},
		},
		[]time.Time{at(10, 0, 5), at(10, 1, 5), at(10, 2, 5)},
	)

	out := Downsample(tbl, 60, at(10, 0, 0), "循環水流量")

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "123.4", out.Rows[0][2])
	assert.Equal(t, "125.0", out.Rows[1][2])
}

func TestDownsample_CriticalColumnAbsentIsIgnored(t *testing.T) {
	tbl := timedTable(t,
		[]string{DateColumn, TimeColumn, "Value"},
		[][]string{{"2024-01-02", "10:00:05", ""}},
		[]time.Time{at(10, 0, 5)},
	)

	out := Downsample(tbl, 60, at(10, 0, 0), "循環水流量")
	assert.Equal(t, 1, out.Len())
}
