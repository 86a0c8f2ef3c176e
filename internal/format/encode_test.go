package format

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"plain ascii", []byte("hello.txt"), "hello.txt"},
		{"space", []byte("a b"), `a\x20b`},
		{"tab", []byte("a\tb"), `a\x09b`},
		{"backslash", []byte(`a\b`), `a\x5cb`},
		{"newline", []byte("a\nb"), `a\x0ab`},
		{"high bit", []byte{0x61, 0xff, 0x62}, `a\xffb`},
		{"del", []byte{0x7f}, `\x7f`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeNoEscapableBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		encoded := Encode([]byte{byte(b)})
		for i := 0; i < len(encoded); i++ {
			c := encoded[i]
			if c == '\\' && i+3 < len(encoded) && encoded[i+1] == 'x' {
				// The backslash opening a \xHH escape is the only one allowed.
				i += 3
				continue
			}
			if c <= 0x20 || c >= 0x7F || c == '\\' {
				t.Fatalf("Encode(%#x) = %q still contains an escapable byte %#x", b, encoded, c)
			}
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		raw := []byte{byte(b), 'x', byte(b)}
		encoded := Encode(raw)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Encode(%v)) error: %v", raw, err)
		}
		if !bytes.Equal(decoded, raw) {
			t.Fatalf("Decode(Encode(%v)) = %v, want %v", raw, decoded, raw)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []string{
		`\x`,
		`\x1`,
		`\xzz`,
		`a\`,
	}
	for _, in := range tests {
		if _, err := Decode(in); err == nil {
			t.Errorf("Decode(%q) expected error, got nil", in)
		}
	}
}
