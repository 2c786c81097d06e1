package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"

	"logmerge/internal/table"
)

// utf8BOM helps Excel and other spreadsheet tools recognize UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures CSV serialization behavior
type Options struct {
	// BOMPrefix prepends a UTF-8 byte-order marker.
	BOMPrefix bool
	// IncludeTimestamp keeps the derived timestamp column in the
	// output; when false the column is dropped before writing.
	IncludeTimestamp bool
	// TimestampColumn names the derived column subject to
	// IncludeTimestamp.
	TimestampColumn string
}

// DefaultOptions matches what the download surface serves: BOM
// prefixed, derived timestamp included.
func DefaultOptions() Options {
	return Options{
		BOMPrefix:        true,
		IncludeTimestamp: true,
		TimestampColumn:  "datetime",
	}
}

// WriteCSV serializes the table into a standalone byte buffer.
func WriteCSV(t *table.Table, opts Options) ([]byte, error) {
	drop := -1
	if !opts.IncludeTimestamp && opts.TimestampColumn != "" {
		drop = t.ColumnIndex(opts.TimestampColumn)
	}

	var buf bytes.Buffer
	if opts.BOMPrefix {
		buf.Write(utf8BOM)
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(withoutColumn(t.Headers, drop)); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(withoutColumn(row, drop)); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	slog.Debug("serialized merged table",
		slog.Int("rows", t.Len()),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func withoutColumn(record []string, drop int) []string {
	if drop < 0 || drop >= len(record) {
		return record
	}
	out := make([]string, 0, len(record)-1)
	out = append(out, record[:drop]...)
	return append(out, record[drop+1:]...)
}
