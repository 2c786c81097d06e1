package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"logmerge/internal/errors"
	"logmerge/internal/table"
)

// Canonical column names after role resolution. The derived timestamp
// column uses the name the downstream tooling expects.
const (
	DateColumn      = "Date"
	TimeColumn      = "Time"
	TimestampColumn = "datetime"
)

// Role tokens matched against normalized, case-folded headers. 日付 and
// 時刻 are the header spellings of the Japanese plant loggers these
// files come from; 資料 is the label marker they write into data rows.
var (
	dateTokens = []string{"date", "day", "日付"}
	timeTokens = []string{"time", "時刻"}

	labelToken = "資料"
)

// Resolve maps the table's headers onto the canonical Date/Time roles
// and strips corrupt in-body rows (embedded second header blocks and
// label rows). Exactly one Date-role and one Time-role column must
// exist, otherwise the whole file is rejected with a SchemaFailure.
func Resolve(t *table.Table) (*table.Table, errors.List) {
	var diags errors.List

	dateIdx, timeIdx := -1, -1
	dateCount, timeCount := 0, 0
	for i, h := range t.Headers {
		switch {
		case isDateHeader(h):
			dateIdx = i
			dateCount++
		case isTimeHeader(h):
			timeIdx = i
			timeCount++
		}
	}

	if dateCount != 1 || timeCount != 1 {
		diags.Add(errors.SchemaFailure(t.Source, fmt.Sprintf(
			"need exactly one Date and one Time column, found %d and %d", dateCount, timeCount)))
		return nil, diags
	}

	t.Headers[dateIdx] = DateColumn
	t.Headers[timeIdx] = TimeColumn

	kept := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		if isCorruptRow(cell(row, dateIdx), cell(row, timeIdx)) {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept

	if dropped > 0 {
		slog.Debug("dropped embedded header and label rows",
			slog.String("file", t.Source),
			slog.Int("rows", dropped))
	}
	return t, diags
}

// isCorruptRow detects the two corruption patterns the loggers
// produce: a repeated header block embedded mid-file, and sentinel
// rows carrying the label marker in the Date field.
func isCorruptRow(dateCell, timeCell string) bool {
	d := strings.ToLower(dateCell)
	for _, tok := range dateTokens {
		if strings.Contains(d, tok) {
			return true
		}
	}
	tc := strings.ToLower(timeCell)
	for _, tok := range timeTokens {
		if strings.Contains(tc, tok) {
			return true
		}
	}
	return strings.Contains(dateCell, labelToken)
}

func isDateHeader(h string) bool {
	return matchesRole(h, dateTokens)
}

func isTimeHeader(h string) bool {
	return matchesRole(h, timeTokens)
}

func matchesRole(header string, tokens []string) bool {
	h := strings.ToLower(header)
	for _, tok := range tokens {
		if strings.Contains(h, tok) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
