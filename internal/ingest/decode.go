package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// candidate is one entry in the encoding priority list.
type candidate struct {
	name string
	enc  encoding.Encoding
}

// candidates returns the encodings to try, in priority order. UTF-16 is
// only attempted when the data carries a UTF-16 BOM or embedded NUL
// bytes; without that hint almost any byte stream decodes as UTF-16
// mojibake and would mask the Latin-1 fallback.
func candidates(data []byte) []candidate {
	list := []candidate{
		{"utf-8", unicode.UTF8},
		{"shift-jis", japanese.ShiftJIS},
	}
	if looksUTF16(data) {
		list = append(list, candidate{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)})
	}
	return append(list, candidate{"latin-1", charmap.ISO8859_1})
}

func looksUTF16(data []byte) bool {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		return true
	}
	return bytes.IndexByte(data, 0x00) >= 0
}

// decodeText decodes data with the candidate encoding, rejecting
// decodes that lose information. The x/text decoders substitute
// U+FFFD for undecodable sequences, so a replacement rune in the
// output means the encoding did not fit.
func decodeText(data []byte, c candidate) (string, error) {
	if c.enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8")
		}
		return checkText(string(data), c)
	}

	decoded, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", c.name, err)
	}
	return checkText(string(decoded), c)
}

// checkText rejects decodes that only superficially succeeded. A
// replacement rune means the decoder hit an undecodable sequence. An
// embedded NUL in a single-byte decode means the input was really
// UTF-16: the NUL-interleaved bytes of BOM-less UTF-16 text are valid
// UTF-8 and valid Shift-JIS, so without this check the wrong candidate
// wins.
func checkText(text string, c candidate) (string, error) {
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", fmt.Errorf("decode as %s: undecodable byte sequence", c.name)
	}
	if c.name != "utf-16" && strings.ContainsRune(text, 0x00) {
		return "", fmt.Errorf("decode as %s: embedded NUL", c.name)
	}
	return strings.TrimPrefix(text, "\uFEFF"), nil
}
