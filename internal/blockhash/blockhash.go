// Package blockhash splits a file into fixed-size blocks and produces one
// digest per block, in file order. It exposes both a sequential path and an
// optional bounded-parallel path (Pool) whose output is reordered back into
// the same sequential order the caller would have gotten serially.
package blockhash

import (
	"fmt"
	"io"
	"os"

	"github.com/lucho00cuba/dirsig/internal/digest"
)

// DefaultBufferSize is a read-buffer size in bytes. HashFile does not use it:
// it reads each block into a buffer of exactly blockSize bytes.
const DefaultBufferSize = 256 * 1024

// BlockCount returns the number of blocks a file of the given size is split
// into: ceil(size/blockSize), or 0 when size is 0.
func BlockCount(size int64, blockSize uint32) int {
	if size == 0 {
		return 0
	}
	bs := int64(blockSize)
	return int(size/bs) + boolToInt(size%bs != 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// HashFile computes one digest per block of f under alg, sequentially, in
// file order. f must be positioned at offset 0. The final block is hashed
// over exactly its remaining byte count; it is never padded.
func HashFile(f *os.File, size int64, blockSize uint32, alg digest.Algorithm) ([]string, error) {
	n := BlockCount(size, blockSize)
	if n == 0 {
		return nil, nil
	}

	hashes := make([]string, 0, n)
	buf := make([]byte, blockSize)

	for i := 0; i < n; i++ {
		want := int(blockSize)
		if remaining := size - int64(i)*int64(blockSize); remaining < int64(blockSize) {
			want = int(remaining)
		}

		if _, err := io.ReadFull(f, buf[:want]); err != nil {
			return nil, fmt.Errorf("blockhash: short read at block %d of %q: %w", i, f.Name(), err)
		}

		sum, err := digest.SumBytes(alg, buf[:want])
		if err != nil {
			return nil, fmt.Errorf("blockhash: failed to hash block %d of %q: %w", i, f.Name(), err)
		}
		hashes = append(hashes, sum)
	}

	return hashes, nil
}
