package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"logmerge/internal/errors"
	"logmerge/internal/table"
)

const (
	dateLayout = "2006/01/02"

	// Output formats written back into the Date/Time columns.
	dateOutFormat = "2006-01-02"
	timeOutFormat = "15:04:05"

	// TimestampFormat renders the derived datetime column.
	TimestampFormat = "2006-01-02 15:04:05"
)

// timeLayouts are tried in order; seconds are optional in the input.
var timeLayouts = []string{"15:04:05", "15:04"}

// Normalize derives a timestamp for every row from its Date and Time
// cells and rewrites both cells into canonical form. Rows that fail to
// parse are dropped with a row-scoped diagnostic; the file is never
// rejected here.
func Normalize(t *table.Table) (*table.Table, errors.List) {
	var diags errors.List

	dateIdx := t.ColumnIndex(DateColumn)
	timeIdx := t.ColumnIndex(TimeColumn)

	kept := t.Rows[:0]
	stamps := make([]time.Time, 0, len(t.Rows))
	for i, row := range t.Rows {
		ts, err := rowTimestamp(cell(row, dateIdx), cell(row, timeIdx))
		if err != nil {
			diags.Add(errors.RowParseFailure(t.Source, i, err.Error()))
			continue
		}
		row[dateIdx] = ts.Format(dateOutFormat)
		row[timeIdx] = ts.Format(timeOutFormat)
		kept = append(kept, row)
		stamps = append(stamps, ts)
	}

	t.Rows = kept
	t.Timestamps = stamps
	return t, diags
}

// rowTimestamp parses one row's Date and Time cells into an instant.
func rowTimestamp(dateCell, timeCell string) (time.Time, error) {
	ds := stripAllSpace(dateCell)
	tts := stripAllSpace(timeCell)
	if ds == "" || tts == "" {
		return time.Time{}, fmt.Errorf("empty date or time")
	}

	ds = promoteShortYear(ds)
	d, err := time.Parse(dateLayout, ds)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateCell, err)
	}

	var clock time.Time
	parsed := false
	for _, layout := range timeLayouts {
		if clock, err = time.Parse(layout, tts); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return time.Time{}, fmt.Errorf("invalid time %q", timeCell)
	}

	return time.Date(d.Year(), d.Month(), d.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), nil
}

// promoteShortYear expands a two-digit leading year in a YY/MM/DD
// style date using the pivot rule: below 70 is 2000s, 70 and above is
// 1900s. Four-digit years pass through unchanged.
func promoteShortYear(date string) string {
	parts := strings.SplitN(date, "/", 3)
	if len(parts) != 3 || len(parts[0]) != 2 {
		return date
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return date
	}
	if year < 70 {
		year += 2000
	} else {
		year += 1900
	}
	return fmt.Sprintf("%d/%s/%s", year, parts[1], parts[2])
}

// stripAllSpace removes every whitespace variant, including tabs,
// newlines, and the ideographic space the loggers pad cells with.
func stripAllSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
