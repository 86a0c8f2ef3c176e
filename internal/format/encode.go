// Package format implements the ASCII-safe name/path encoding used
// throughout a directory signature: every byte that would make a line
// ambiguous (whitespace, control characters, high-bit bytes, or the
// escape character itself) is replaced by a four-byte \xHH escape.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// shouldEscape reports whether b must be escaped in an emitted name or path.
func shouldEscape(b byte) bool {
	return b <= 0x20 || b >= 0x7F || b == '\\'
}

// Encode returns the ASCII-only escaped form of raw. Bytes that don't need
// escaping pass through unchanged; all others become \xHH (lowercase hex).
// The result never contains a byte <= 0x20, >= 0x7F, or a bare backslash.
func Encode(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if shouldEscape(c) {
			fmt.Fprintf(&b, `\x%02x`, c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EncodeString is a convenience wrapper around Encode for string inputs.
func EncodeString(raw string) string {
	return Encode([]byte(raw))
}

// Decode reverses Encode, expanding \xHH escapes back to their raw byte.
// It returns an error if an escape sequence is truncated or malformed.
func Decode(encoded string) ([]byte, error) {
	out := make([]byte, 0, len(encoded))
	i := 0
	for i < len(encoded) {
		c := encoded[i]
		if c == '\\' {
			if i+4 > len(encoded) || encoded[i+1] != 'x' {
				return nil, fmt.Errorf("format: truncated escape at offset %d in %q", i, encoded)
			}
			hex := encoded[i+2 : i+4]
			v, err := strconv.ParseUint(hex, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("format: invalid escape %q at offset %d: %w", hex, i, err)
			}
			out = append(out, byte(v))
			i += 4
			continue
		}
		out = append(out, c)
		i++
	}
	return out, nil
}

// DecodeString is a convenience wrapper around Decode returning a string.
func DecodeString(encoded string) (string, error) {
	raw, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
