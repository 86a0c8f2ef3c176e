package digest

import (
	"encoding/hex"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"sha512_256", "sha512/256", SHA512_256, false},
		{"blake2b", "blake2b/256", BLAKE2b256, false},
		{"blake3", "blake3/256", BLAKE3_256, false},
		{"unknown", "md5", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewEachAlgorithmProducesCorrectWidth(t *testing.T) {
	for _, alg := range []Algorithm{SHA512_256, BLAKE2b256, BLAKE3_256} {
		h, err := New(alg)
		if err != nil {
			t.Fatalf("New(%q) error: %v", alg, err)
		}
		if _, err := h.Write([]byte("hello world")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		sum := h.Sum()
		if len(sum) != Size*2 {
			t.Errorf("New(%q).Sum() length = %d, want %d", alg, len(sum), Size*2)
		}
		if _, err := hex.DecodeString(sum); err != nil {
			t.Errorf("New(%q).Sum() = %q not valid lowercase hex: %v", alg, sum, err)
		}
		for _, c := range sum {
			if c >= 'A' && c <= 'Z' {
				t.Errorf("New(%q).Sum() = %q contains uppercase hex", alg, sum)
			}
		}
	}
}

func TestNewDeterministic(t *testing.T) {
	for _, alg := range []Algorithm{SHA512_256, BLAKE2b256, BLAKE3_256} {
		a, _ := SumBytes(alg, []byte("determinism"))
		b, _ := SumBytes(alg, []byte("determinism"))
		if a != b {
			t.Errorf("%q: SumBytes not deterministic: %q != %q", alg, a, b)
		}
	}
}

func TestNewUnknownAlgorithm(t *testing.T) {
	if _, err := New("md5"); err == nil {
		t.Error("New(\"md5\") expected error, got nil")
	}
}
