package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"logmerge/internal/errors"
)

func encodeShiftJIS(t *testing.T, text string) []byte {
	t.Helper()
	data, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	return data
}

func encodeUTF16(t *testing.T, text string) []byte {
	t.Helper()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte(text))
	require.NoError(t, err)
	return data
}

func TestRead_UTF8(t *testing.T) {
	data := []byte("日付,時刻,Value\n2024/01/02,10:00:00,1.5\n")

	tbl, diags := Read(data, "a.csv", 1000)

	require.Empty(t, diags)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"日付", "時刻", "Value"}, tbl.Headers)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "2024/01/02", tbl.Rows[0][0])
}

func TestRead_ShiftJISFallback(t *testing.T) {
	data := encodeShiftJIS(t, "日付,時刻,循環水流量\n24/01/02,10:00:00,123.4\n")

	tbl, diags := Read(data, "sjis.csv", 1000)

	require.Empty(t, diags)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"日付", "時刻", "循環水流量"}, tbl.Headers)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "123.4", tbl.Rows[0][2])
}

func TestRead_UTF16WithBOM(t *testing.T) {
	data := encodeUTF16(t, "Date,Time,Value\n2024/01/02,10:00,1\n")

	tbl, diags := Read(data, "utf16.csv", 1000)

	require.Empty(t, diags)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"Date", "Time", "Value"}, tbl.Headers)
	assert.Equal(t, 1, tbl.Len())
}

func TestRead_Latin1Fallback(t *testing.T) {
	// 0xE9 followed by a comma is invalid UTF-8 and an invalid
	// Shift-JIS pair, so only Latin-1 decodes this.
	data := []byte("Temp\xE9,Time,Date\n1.5,10:00:00,2024/01/02\n")

	tbl, diags := Read(data, "latin1.csv", 1000)

	require.Empty(t, diags)
	require.NotNil(t, tbl)
	assert.Equal(t, "Tempé", tbl.Headers[0])
}

func TestRead_DecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "unbalanced quote", data: []byte("\"a\nb")},
		{name: "empty input", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, diags := Read(tt.data, "bad.csv", 1000)

			assert.Nil(t, tbl)
			require.Len(t, diags, 1)
			assert.Equal(t, errors.KindDecodeFailure, diags[0].Kind)
			assert.Equal(t, "bad.csv", diags[0].File)
		})
	}
}

func TestRead_RowCap(t *testing.T) {
	data := []byte("Date,Time\n1,1\n2,2\n3,3\n")

	tbl, diags := Read(data, "big.csv", 2)

	require.NotNil(t, tbl)
	assert.Equal(t, 2, tbl.Len())
	require.Len(t, diags, 1)
	assert.Equal(t, errors.KindRowCapReached, diags[0].Kind)
}

func TestRead_RaggedRowsPadded(t *testing.T) {
	data := []byte("Date,Time,Value\n2024/01/02,10:00:00\n")

	tbl, diags := Read(data, "ragged.csv", 1000)

	require.Empty(t, diags)
	require.Equal(t, 1, tbl.Len())
	require.Len(t, tbl.Rows[0], 3)
	assert.Equal(t, "", tbl.Rows[0][2])
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: " Date ", want: "Date"},
		{in: "日　付", want: "日付"},
		{in: "Ti\tme", want: "Time"},
		{in: "\uFEFFDate", want: "Date"},
		{in: "①Flow", want: "1Flow"},
		{in: "Ｖａｌｕｅ", want: "Value"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHeader(tt.in))
		})
	}
}
