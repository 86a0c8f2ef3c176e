package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lucho00cuba/dirsig/internal/digest"
)

func TestHeaderFormatAndParseRoundTrip(t *testing.T) {
	h := Header{
		Version:   Version,
		Algorithm: digest.SHA512_256,
		BlockSize: 32768,
		Extra:     []ExtraPair{{Key: "foo", Value: "bar"}},
	}
	line := h.FormatLine()
	want := "DIRSIGNATURE.v1 sha512/256 block_size=32768 foo=bar"
	if line != want {
		t.Fatalf("FormatLine() = %q, want %q", line, want)
	}

	parsed, err := ParseHeaderLine(line)
	if err != nil {
		t.Fatalf("ParseHeaderLine error: %v", err)
	}
	if diff := cmp.Diff(h, parsed); diff != "" {
		t.Errorf("ParseHeaderLine() round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeaderLineRejectsBadInput(t *testing.T) {
	tests := []string{
		"",
		"not a header at all",
		"DIRSIGNATURE.v2 sha512/256 block_size=32768",
		"DIRSIGNATURE.v1 md5 block_size=32768",
		"DIRSIGNATURE.v1 sha512/256 foo=bar",
		"DIRSIGNATURE.v1 sha512/256 block_size=0",
		"DIRSIGNATURE.v1 sha512/256 block_size=notanumber",
	}
	for _, in := range tests {
		if _, err := ParseHeaderLine(in); err == nil {
			t.Errorf("ParseHeaderLine(%q) expected error, got nil", in)
		}
	}
}

func TestParseHeaderLineUnknownExtraStillParses(t *testing.T) {
	// Unknown header keys must be tolerated (and carried into the footer
	// hash by the writer/reader, not by this function).
	h, err := ParseHeaderLine("DIRSIGNATURE.v1 blake3/256 block_size=4096 future_flag=1")
	if err != nil {
		t.Fatalf("ParseHeaderLine error: %v", err)
	}
	if len(h.Extra) != 1 || h.Extra[0].Key != "future_flag" {
		t.Errorf("h.Extra = %+v, want [{future_flag 1}]", h.Extra)
	}
}
