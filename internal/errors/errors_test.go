package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostic_Error(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "file scoped",
			diag: DecodeFailure("a.csv", "no encoding matched"),
			want: "DECODE_FAILURE: a.csv: no encoding matched",
		},
		{
			name: "row scoped",
			diag: RowParseFailure("a.csv", 7, "invalid date"),
			want: "ROW_PARSE_FAILURE: a.csv row 7: invalid date",
		},
		{
			name: "batch scoped",
			diag: EmptyBatch(),
			want: "EMPTY_BATCH: no valid rows in any input file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.Error())
		})
	}
}

func TestList_AddAndCount(t *testing.T) {
	var l List
	l.Add(DecodeFailure("a.csv", "x"))
	l.Add(RowParseFailure("b.csv", 0, "y"), RowParseFailure("b.csv", 1, "z"))

	assert.Len(t, l, 3)
	assert.Equal(t, 1, l.CountKind(KindDecodeFailure))
	assert.Equal(t, 2, l.CountKind(KindRowParseFailure))
	assert.Equal(t, 0, l.CountKind(KindSchemaFailure))

	// Order of accumulation is preserved.
	assert.Equal(t, "a.csv", l[0].File)
	assert.Equal(t, 1, l[2].Row)
}
