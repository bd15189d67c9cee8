package srt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw subtitle bytes to a string. UTF-8 input (with or
// without a BOM) passes through; anything else is tried as EUC-KR/CP949 and,
// failing that, read byte-for-byte as Latin-1 so no file is ever rejected
// outright.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	if decoded, err := korean.EUCKR.NewDecoder().Bytes(data); err == nil {
		s := string(decoded)
		if !strings.ContainsRune(s, utf8.RuneError) {
			return s
		}
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// encodeText converts a string to the named on-disk encoding. CP949 and
// EUC-KR share one encoder; text with characters outside the codepage is an
// error rather than silent mojibake.
func encodeText(content, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return []byte(content), nil
	case "cp949", "euc-kr", "euckr":
		data, err := korean.EUCKR.NewEncoder().Bytes([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("failed to encode text as %s: %w", encoding, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
