package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"logmerge/internal/table"
)

// DedupPolicy selects how the merger treats duplicate rows.
type DedupPolicy string

const (
	// DedupByTimestamp keeps at most one row per distinct timestamp
	// across the whole batch; the first-seen row wins. This is the
	// default: the grids these logs come from emit one sample per
	// instant, so a second row at the same instant is a re-export.
	DedupByTimestamp DedupPolicy = "timestamp"
	// DedupByRow drops a row only when every column value matches an
	// earlier row exactly, allowing distinct sensors to share an
	// instant.
	DedupByRow DedupPolicy = "row"
)

// Merge concatenates the non-empty reduced tables in caller order,
// deduplicates per the policy, sorts ascending by timestamp (stable,
// ties keep concatenation order), and positions the derived datetime
// column immediately after the Time column. An all-empty input yields
// an empty table, not an error; the caller decides what that means.
func Merge(tables []*table.Table, policy DedupPolicy) *table.Table {
	headers := unionHeaders(tables)
	out := table.New("", headers)

	seen := make(map[string]struct{})
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		for i, row := range t.Rows {
			aligned := alignRow(row, t, headers)
			key := dedupKey(policy, t.Timestamps[i], aligned)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out.Rows = append(out.Rows, aligned)
			out.Timestamps = append(out.Timestamps, t.Timestamps[i])
		}
	}

	sortByTimestamp(out)
	return withTimestampColumn(out)
}

// unionHeaders merges the column sets of all tables, preserving
// first-seen order so the first file dictates the leading schema.
func unionHeaders(tables []*table.Table) []string {
	var headers []string
	known := make(map[string]struct{})
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		for _, h := range t.Headers {
			if _, ok := known[h]; ok {
				continue
			}
			known[h] = struct{}{}
			headers = append(headers, h)
		}
	}
	return headers
}

// alignRow re-orders a source row onto the union schema, filling
// columns the source file does not have with empty strings.
func alignRow(row []string, src *table.Table, headers []string) []string {
	aligned := make([]string, len(headers))
	for j, h := range headers {
		if idx := src.ColumnIndex(h); idx >= 0 && idx < len(row) {
			aligned[j] = row[idx]
		}
	}
	return aligned
}

func dedupKey(policy DedupPolicy, ts time.Time, row []string) string {
	if policy == DedupByRow {
		return strings.Join(row, "\x1f")
	}
	return ts.Format(TimestampFormat)
}

func sortByTimestamp(t *table.Table) {
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Timestamps[order[a]].Before(t.Timestamps[order[b]])
	})

	rows := make([][]string, len(order))
	stamps := make([]time.Time, len(order))
	for i, idx := range order {
		rows[i] = t.Rows[idx]
		stamps[i] = t.Timestamps[idx]
	}
	t.Rows = rows
	t.Timestamps = stamps
}

// withTimestampColumn materializes the derived timestamps as a real
// column placed immediately after the Time column.
func withTimestampColumn(t *table.Table) *table.Table {
	if len(t.Headers) == 0 {
		return t
	}

	insertAt := len(t.Headers)
	if idx := t.ColumnIndex(TimeColumn); idx >= 0 {
		insertAt = idx + 1
	}

	headers := make([]string, 0, len(t.Headers)+1)
	headers = append(headers, t.Headers[:insertAt]...)
	headers = append(headers, TimestampColumn)
	headers = append(headers, t.Headers[insertAt:]...)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, row[:insertAt]...)
		r = append(r, t.Timestamps[i].Format(TimestampFormat))
		r = append(r, row[insertAt:]...)
		rows[i] = r
	}

	t.Headers = headers
	t.Rows = rows
	return t
}
