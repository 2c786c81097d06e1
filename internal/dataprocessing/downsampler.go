package dataprocessing

import (
	"log/slog"
	"sort"
	"time"

	"logmerge/internal/table"
)

// Downsample buckets rows onto a fixed-width time grid and keeps one
// representative row per bucket. The bucket key is
// floor((timestamp-base)/interval); base must be the same instant for
// every file in the batch so bucket boundaries align across files. An
// interval of zero disables downsampling and returns the input
// unchanged.
//
// Within a bucket the row with the earliest timestamp wins, not the
// first row in file order. When a critical measurement column is
// configured and present, retained rows with an empty value there are
// dropped: an incomplete sample is not representative of its
// interval.
func Downsample(t *table.Table, intervalSeconds int, base time.Time, criticalColumn string) *table.Table {
	if intervalSeconds <= 0 || t.IsEmpty() {
		return t
	}

	// Visit rows by ascending timestamp, original order breaking ties.
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Timestamps[order[a]].Before(t.Timestamps[order[b]])
	})

	interval := int64(intervalSeconds)
	seen := make(map[int64]struct{})
	pick := make([]int, 0, len(t.Rows))
	for _, i := range order {
		key := bucketKey(t.Timestamps[i], base, interval)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pick = append(pick, i)
	}

	criticalIdx := -1
	if criticalColumn != "" {
		criticalIdx = t.ColumnIndex(criticalColumn)
	}

	out := table.New(t.Source, t.Headers)
	out.Timestamps = make([]time.Time, 0, len(pick))
	for _, i := range pick {
		if criticalIdx >= 0 && t.Cell(i, criticalIdx) == "" {
			continue
		}
		out.Rows = append(out.Rows, t.Rows[i])
		out.Timestamps = append(out.Timestamps, t.Timestamps[i])
	}

	slog.Debug("downsampled file",
		slog.String("file", t.Source),
		slog.Int("interval_seconds", intervalSeconds),
		slog.Int("rows_in", t.Len()),
		slog.Int("rows_out", out.Len()))
	return out
}

// bucketKey computes the integer grid index of ts relative to base.
// Timestamps before base belong to negative buckets.
func bucketKey(ts, base time.Time, intervalSeconds int64) int64 {
	delta := ts.Unix() - base.Unix()
	key := delta / intervalSeconds
	if delta%intervalSeconds != 0 && delta < 0 {
		key--
	}
	return key
}
