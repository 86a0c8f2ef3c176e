// Package dirsig computes and parses directory signatures: deterministic,
// streamable text indices of a filesystem subtree annotated with per-block
// content hashes and terminated by a self-authenticating footer digest.
package dirsig

import (
	"runtime"

	"github.com/lucho00cuba/dirsig/internal/digest"
	"github.com/lucho00cuba/dirsig/internal/direrrors"
)

// DefaultBlockSize is used whenever Config.BlockSize is left at zero.
const DefaultBlockSize = 32768

// Config configures a Scan. The zero value is not directly usable for
// Algorithm/BlockSize/Threads — Scan fills in defaults for any field left
// at its zero value, matching DefaultConfig.
type Config struct {
	// Algorithm selects the hash function. Default: digest.SHA512_256.
	Algorithm digest.Algorithm
	// BlockSize is the file block size in bytes. Default: DefaultBlockSize.
	BlockSize uint32
	// Threads bounds the block-hashing worker pool. Default: runtime.NumCPU().
	// A value of 1 disables the parallel executor entirely.
	Threads int
	// FollowSymlinks must always be false; symlinks are never followed
	// (spec fixed behavior). It exists only for interface symmetry with
	// the configuration shape described in the format's design notes.
	FollowSymlinks bool

	// Exclude lists gitignore-style patterns applied during traversal, in
	// addition to any ignore files loaded below.
	Exclude []string
	// IgnoreFile is an optional path to a custom ignore file; its patterns
	// are combined with Exclude and with those loaded by LoadDefaultIgnores,
	// with no priority among them.
	IgnoreFile string
	// LoadDefaultIgnores, if true, loads .dirsigignore and .gitignore from
	// the working directory up to the filesystem root.
	LoadDefaultIgnores bool
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Algorithm: digest.SHA512_256,
		BlockSize: DefaultBlockSize,
		Threads:   runtime.NumCPU(),
	}
}

// withDefaults fills in zero-valued fields and returns the effective config.
func (c Config) withDefaults() Config {
	if c.Algorithm == "" {
		c.Algorithm = digest.SHA512_256
	}
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Threads == 0 {
		c.Threads = runtime.NumCPU()
	}
	return c
}

// validate checks cfg for configuration errors detectable before scanning
// begins, so callers fail fast instead of partway through a long walk.
func (c Config) validate() error {
	if _, err := digest.ParseAlgorithm(string(c.Algorithm)); err != nil {
		return direrrors.NewConfigError("algorithm", err.Error())
	}
	if c.BlockSize == 0 {
		return direrrors.NewConfigError("block_size", "must be a positive integer")
	}
	if c.FollowSymlinks {
		return direrrors.NewConfigError("follow_symlinks", "dirsig never follows symlinks; this must be false")
	}
	return nil
}
