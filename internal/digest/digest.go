// Package digest provides the streaming hash abstraction shared by the
// block hasher, writer, and reader: a small init/update/finalize interface
// over one of three selectable 256-bit algorithms.
package digest

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm identifies one of the supported 256-bit hash functions.
type Algorithm string

const (
	SHA512_256 Algorithm = "sha512/256"
	BLAKE2b256 Algorithm = "blake2b/256"
	BLAKE3_256 Algorithm = "blake3/256"

	// Size is the digest width in bytes for every supported algorithm.
	Size = 32
)

// ParseAlgorithm validates and normalizes the algorithm token as it appears
// in a header line or a --hash CLI flag.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case SHA512_256, BLAKE2b256, BLAKE3_256:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("digest: unrecognized algorithm %q", name)
	}
}

// Hasher is a streaming hash: write bytes incrementally, then finalize once
// to a lowercase hex string. It mirrors hash.Hash but narrows the surface to
// exactly what the writer/reader/block-hasher need.
type Hasher interface {
	Write(p []byte) (int, error)
	// Sum returns the lowercase hex digest of everything written so far.
	// It does not reset or mutate the underlying state.
	Sum() string
}

type hasherWrapper struct {
	h interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

func (w hasherWrapper) Write(p []byte) (int, error) { return w.h.Write(p) }

func (w hasherWrapper) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}

// New constructs a fresh Hasher for the given algorithm. The returned
// Hasher has no prior state; callers needing to hash a new block or file
// must call New again rather than attempt to reset an existing Hasher.
func New(alg Algorithm) (Hasher, error) {
	switch alg {
	case SHA512_256:
		return hasherWrapper{h: sha512.New512_256()}, nil
	case BLAKE2b256:
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("digest: failed to construct blake2b/256: %w", err)
		}
		return hasherWrapper{h: h}, nil
	case BLAKE3_256:
		return hasherWrapper{h: blake3.New()}, nil
	default:
		return nil, fmt.Errorf("digest: unrecognized algorithm %q", alg)
	}
}

// SumBytes hashes buf in one shot under alg and returns the lowercase hex
// digest. The block hashers use it for every block once that block is in
// memory, without constructing a Hasher by hand.
func SumBytes(alg Algorithm, buf []byte) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(buf); err != nil {
		return "", fmt.Errorf("digest: failed to hash %d bytes: %w", len(buf), err)
	}
	return h.Sum(), nil
}
