package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"logmerge/internal/errors"
	"logmerge/internal/table"
)

// Read decodes raw bytes into a string-valued table. Encodings are
// tried in a fixed priority order; the first one that yields
// well-formed delimited text wins. A nil table with a DecodeFailure
// diagnostic means the file is skipped; the batch continues.
func Read(data []byte, filename string, maxRows int) (*table.Table, errors.List) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSX(data, filename, maxRows)
	}

	var lastErr error
	for _, c := range candidates(data) {
		text, err := decodeText(data, c)
		if err != nil {
			lastErr = err
			continue
		}
		records, err := parseCSV(text)
		if err != nil {
			lastErr = fmt.Errorf("parse as %s: %w", c.name, err)
			continue
		}
		slog.Debug("decoded input file",
			slog.String("file", filename),
			slog.String("encoding", c.name),
			slog.Int("records", len(records)))
		return buildTable(records, filename, maxRows)
	}

	var diags errors.List
	diags.Add(errors.DecodeFailure(filename, fmt.Sprintf("no encoding produced valid delimited text: %v", lastErr)))
	return nil, diags
}

// parseCSV parses decoded text as comma-delimited records. Ragged rows
// are tolerated (handled when the table is built); malformed quoting
// is not.
func parseCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("no records")
	}
	return records, nil
}

// buildTable assembles a table from the header record plus data rows,
// cleaning headers and enforcing the per-file row cap.
func buildTable(records [][]string, filename string, maxRows int) (*table.Table, errors.List) {
	var diags errors.List

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = CleanHeader(h)
	}

	t := table.New(filename, headers)
	for i, rec := range records[1:] {
		if i >= maxRows {
			diags.Add(errors.RowCapReached(filename, maxRows))
			slog.Warn("row cap reached, truncating file",
				slog.String("file", filename),
				slog.Int("max_rows", maxRows))
			break
		}
		t.AppendRow(rec)
	}
	return t, diags
}

// CleanHeader normalizes a raw header cell: Unicode compatibility
// normalization (full-width letters, circled numbering glyphs), then
// removal of every whitespace variant including ideographic space.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = norm.NFKC.String(h)

	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
