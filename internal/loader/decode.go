package loader

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// decodeText converts raw file bytes to a UTF-8 string with "\n" line
// endings. A UTF-16 byte order mark switches to UTF-16 decoding; a UTF-8 BOM
// is dropped. Content that is not valid UTF-8, or that contains NUL bytes,
// is rejected.
func decodeText(path string, raw []byte) (string, error) {
	if hasUTF16BOM(raw) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", &EncodingError{Path: path, Offset: -1, Reason: "malformed UTF-16", Err: err}
		}
		raw = decoded
	} else {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}

	if off := invalidUTF8Offset(raw); off >= 0 {
		return "", &EncodingError{Path: path, Offset: off, Reason: "invalid UTF-8"}
	}
	if off := bytes.IndexByte(raw, 0); off >= 0 {
		return "", &EncodingError{Path: path, Offset: off, Reason: "NUL byte in binary content"}
	}

	return normalizeNewlines(string(raw)), nil
}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xff, 0xfe}) || bytes.HasPrefix(raw, []byte{0xfe, 0xff})
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
