package dirsig

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lucho00cuba/dirsig/internal/blockhash"
	"github.com/lucho00cuba/dirsig/internal/ignore"
	"github.com/lucho00cuba/dirsig/internal/index"
	"github.com/lucho00cuba/dirsig/internal/logger"
	"github.com/lucho00cuba/dirsig/internal/scan"
)

// Scan walks root, classifies every directory, file, executable, and
// symlink, hashes file contents block-by-block, and writes a complete
// directory signature to sink. It returns the footer's hex digest, which
// equals the value written as the index's final line.
func Scan(ctx context.Context, root string, sink io.Writer, cfg Config) (string, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return "", err
	}

	matcher, err := ignore.NewMatcher(cfg.Exclude, root, cfg.LoadDefaultIgnores, cfg.IgnoreFile)
	if err != nil {
		return "", fmt.Errorf("dirsig: failed to build ignore matcher: %w", err)
	}

	log := logger.With("root", root, "algorithm", string(cfg.Algorithm), "block_size", cfg.BlockSize)
	log.Info("Starting directory signature scan")

	dirs, err := scan.Plan(root, matcher)
	if err != nil {
		log.Error("Traversal failed", "error", err)
		return "", err
	}

	header := index.Header{Version: index.Version, Algorithm: cfg.Algorithm, BlockSize: cfg.BlockSize}
	w, err := index.NewWriter(sink, header)
	if err != nil {
		return "", fmt.Errorf("dirsig: failed to start writer: %w", err)
	}

	var pool *blockhash.Pool
	if cfg.Threads > 1 {
		pool = blockhash.NewPool(cfg.Threads)
	}

	for _, d := range dirs {
		if err := w.WriteDirectory(d.Path); err != nil {
			return "", err
		}
		for _, e := range d.Entries {
			switch e.Kind {
			case scan.KindSymlink:
				if err := w.WriteSymlink(e.Name, e.Target); err != nil {
					return "", err
				}
			case scan.KindFile:
				hashes, err := hashEntryFile(ctx, e, cfg, pool)
				if err != nil {
					log.Error("Failed to hash file", "path", e.AbsPath, "error", err)
					return "", err
				}
				if err := w.WriteFile(e.Name, e.Executable, uint64(e.Size), hashes); err != nil {
					return "", err
				}
			}
		}
	}

	digestHex, err := w.Finalize()
	if err != nil {
		return "", fmt.Errorf("dirsig: failed to finalize index: %w", err)
	}

	log.Info("Scan completed", "digest", digestHex, "directories", len(dirs))
	return digestHex, nil
}

// hashEntryFile opens e's backing file and produces its per-block digests,
// using the parallel pool when cfg.Threads allows it.
func hashEntryFile(ctx context.Context, e scan.Entry, cfg Config, pool *blockhash.Pool) ([]string, error) {
	f, err := os.Open(e.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("dirsig: failed to open %q: %w", e.AbsPath, err)
	}
	defer f.Close()

	if pool != nil {
		return pool.HashFile(ctx, f, e.Size, cfg.BlockSize, cfg.Algorithm)
	}
	return blockhash.HashFile(f, e.Size, cfg.BlockSize, cfg.Algorithm)
}
