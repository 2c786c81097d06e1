package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline diagnostic.
type Kind string

const (
	// KindDecodeFailure: no encoding in the priority list produced
	// well-formed delimited text. File skipped, batch continues.
	KindDecodeFailure Kind = "DECODE_FAILURE"
	// KindSchemaFailure: the Date/Time roles could not be uniquely
	// resolved from the headers. File skipped, batch continues.
	KindSchemaFailure Kind = "SCHEMA_FAILURE"
	// KindRowParseFailure: one row's Date/Time did not parse into a
	// timestamp. Row dropped, file continues.
	KindRowParseFailure Kind = "ROW_PARSE_FAILURE"
	// KindRowCapReached: a file was truncated at the configured row cap.
	KindRowCapReached Kind = "ROW_CAP_REACHED"
	// KindEmptyBatch: zero rows survived across the whole batch; no
	// output artifact is produced.
	KindEmptyBatch Kind = "EMPTY_BATCH"
)

// ErrEmptyBatch is returned by the pipeline when no rows survive
// anywhere in the batch.
var ErrEmptyBatch = errors.New("no valid rows in batch")

// Diagnostic is a recoverable, accumulated pipeline message. File is
// empty for batch-level diagnostics; Row is -1 unless row-scoped.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file,omitempty"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	switch {
	case d.File == "":
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	case d.Row >= 0:
		return fmt.Sprintf("%s: %s row %d: %s", d.Kind, d.File, d.Row, d.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.File, d.Message)
	}
}

// DecodeFailure creates a file-scoped decode diagnostic.
func DecodeFailure(file, message string) Diagnostic {
	return Diagnostic{Kind: KindDecodeFailure, File: file, Row: -1, Message: message}
}

// SchemaFailure creates a file-scoped schema diagnostic.
func SchemaFailure(file, message string) Diagnostic {
	return Diagnostic{Kind: KindSchemaFailure, File: file, Row: -1, Message: message}
}

// RowParseFailure creates a row-scoped parse diagnostic. Row is the
// zero-based data row index within the source file.
func RowParseFailure(file string, row int, message string) Diagnostic {
	return Diagnostic{Kind: KindRowParseFailure, File: file, Row: row, Message: message}
}

// RowCapReached creates a file-scoped truncation diagnostic.
func RowCapReached(file string, cap int) Diagnostic {
	return Diagnostic{
		Kind:    KindRowCapReached,
		File:    file,
		Row:     -1,
		Message: fmt.Sprintf("file truncated at %d rows", cap),
	}
}

// EmptyBatch creates the batch-level empty-result diagnostic.
func EmptyBatch() Diagnostic {
	return Diagnostic{Kind: KindEmptyBatch, Row: -1, Message: "no valid rows in any input file"}
}

// List accumulates diagnostics in occurrence order.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(diags ...Diagnostic) {
	*l = append(*l, diags...)
}

// CountKind returns how many diagnostics carry the given kind.
func (l List) CountKind(kind Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
