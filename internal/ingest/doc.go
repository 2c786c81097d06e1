// Package ingest decodes raw uploaded bytes into string-valued
// tables.
//
// Log exports arrive in whatever encoding the source system felt
// like: UTF-8, Shift-JIS from the Japanese plant loggers, UTF-16 from
// re-saved spreadsheets, and the occasional Latin-1 file. Encodings
// are tried in that priority order and the first one that yields
// well-formed delimited text wins; a file no candidate can decode is
// skipped with a diagnostic, never aborting the batch. Excel
// workbooks are accepted alongside CSV and produce the same table
// shape.
package ingest
