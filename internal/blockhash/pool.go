package blockhash

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lucho00cuba/dirsig/internal/digest"
)

// DefaultWorkers returns the worker count used when a Pool is built with
// zero, scaling to the host's hardware thread count rather than a fixed
// constant.
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// workUnit is one block submitted to the pool: the sequence number fixes
// its position in the canonical output order regardless of completion order.
type workUnit struct {
	seq    uint64
	offset int64
	length int
}

type blockResult struct {
	seq uint64
	sum string
}

// Pool is a bounded worker pool that hashes blocks of a single file
// concurrently. Workers complete out of order; HashFile reassembles results
// into submission order before returning, so its output is byte-for-byte
// identical to the sequential HashFile in this package.
type Pool struct {
	workers int
	sem     *semaphore.Weighted
}

// NewPool constructs a Pool bounded to workers concurrent block hashers. A
// non-positive workers defaults to DefaultWorkers().
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	return &Pool{
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// HashFile computes one digest per block of f under alg using up to p.workers
// concurrent goroutines, returning digests in canonical file order.
//
// On any worker error, the group is canceled, in-flight work is drained, and
// the first error is returned; no partial result slice is returned in that
// case.
func (p *Pool) HashFile(ctx context.Context, f *os.File, size int64, blockSize uint32, alg digest.Algorithm) ([]string, error) {
	n := BlockCount(size, blockSize)
	if n == 0 {
		return nil, nil
	}

	units := make([]workUnit, n)
	for i := 0; i < n; i++ {
		offset := int64(i) * int64(blockSize)
		length := int(blockSize)
		if remaining := size - offset; remaining < int64(blockSize) {
			length = int(remaining)
		}
		units[i] = workUnit{seq: uint64(i), offset: offset, length: length}
	}

	results := make([]blockResult, n)

	g, gctx := errgroup.WithContext(ctx)
	for _, u := range units {
		u := u
		if err := p.sem.Acquire(gctx, 1); err != nil {
			// A failed worker cancels gctx: drain the rest and report its error.
			if werr := g.Wait(); werr != nil {
				return nil, werr
			}
			return nil, fmt.Errorf("blockhash: pool canceled before submitting block %d: %w", u.seq, err)
		}
		g.Go(func() error {
			defer p.sem.Release(1)

			buf := make([]byte, u.length)
			if _, err := f.ReadAt(buf, u.offset); err != nil {
				return fmt.Errorf("blockhash: short read at block %d of %q: %w", u.seq, f.Name(), err)
			}
			sum, err := digest.SumBytes(alg, buf)
			if err != nil {
				return fmt.Errorf("blockhash: failed to hash block %d of %q: %w", u.seq, f.Name(), err)
			}
			results[u.seq] = blockResult{seq: u.seq, sum: sum}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// results is indexed by seq, so draining it in order reassembles the
	// canonical sequence regardless of which worker finished first.
	hashes := make([]string, n)
	for i, r := range results {
		hashes[i] = r.sum
	}
	return hashes, nil
}
