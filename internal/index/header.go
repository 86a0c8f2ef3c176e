// Package index implements the writer (formatter), reader (parser), and
// navigator for a directory signature's text format.
package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucho00cuba/dirsig/internal/digest"
)

// Version is the only header version this package emits and understands.
// Future versions can be added as additional cases in ParseHeaderLine
// without rewriting the reader.
const Version = "v1"

// magic is the fixed token every header line begins with.
const magic = "DIRSIGNATURE."

// ExtraPair is one header key=value pair beyond block_size, carried through
// verbatim (and fed into the footer hash) even if the reader doesn't
// recognize the key, so future keys stay forward-compatible.
type ExtraPair struct {
	Key   string
	Value string
}

// Header is the parsed first line of an index.
type Header struct {
	Version   string
	Algorithm digest.Algorithm
	BlockSize uint32
	Extra     []ExtraPair
}

// FormatLine renders h back to its exact textual form:
//
//	DIRSIGNATURE.v1 <algo>/256 block_size=<N>[ <k>=<v>]*
func (h Header) FormatLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s block_size=%d", magic, h.Version, h.Algorithm, h.BlockSize)
	for _, kv := range h.Extra {
		fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value)
	}
	return b.String()
}

// ParseHeaderLine parses a raw header line (without its trailing newline).
func ParseHeaderLine(line string) (Header, error) {
	if !strings.HasPrefix(line, magic) {
		return Header{}, fmt.Errorf("index: header line does not start with %q: %q", magic, line)
	}

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Header{}, fmt.Errorf("index: malformed header line (too few fields): %q", line)
	}

	version := strings.TrimPrefix(fields[0], magic)
	if version != Version {
		return Header{}, fmt.Errorf("index: unsupported header version %q", version)
	}

	alg, err := digest.ParseAlgorithm(fields[1])
	if err != nil {
		return Header{}, fmt.Errorf("index: %w", err)
	}

	blockSizeField := fields[2]
	const blockSizePrefix = "block_size="
	if !strings.HasPrefix(blockSizeField, blockSizePrefix) {
		return Header{}, fmt.Errorf("index: expected block_size as first header key, got %q", blockSizeField)
	}
	blockSize, err := strconv.ParseUint(strings.TrimPrefix(blockSizeField, blockSizePrefix), 10, 32)
	if err != nil {
		return Header{}, fmt.Errorf("index: invalid block_size %q: %w", blockSizeField, err)
	}
	if blockSize == 0 {
		return Header{}, fmt.Errorf("index: block_size must be a positive integer, got 0")
	}

	h := Header{Version: version, Algorithm: alg, BlockSize: uint32(blockSize)}

	for _, field := range fields[3:] {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return Header{}, fmt.Errorf("index: malformed header extra field %q", field)
		}
		h.Extra = append(h.Extra, ExtraPair{Key: k, Value: v})
	}

	return h, nil
}
