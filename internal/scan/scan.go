// Package scan implements the traversal planner: it walks a directory tree
// rooted at a given path and produces the canonical, globally-sorted
// sequence of (directory, entries) pairs the writer needs. Unlike a plain
// recursive walk, directories are not grouped under their parent in the
// emitted order — they are flattened and sorted by path across the whole
// tree, which is what lets the reader binary-search directory offsets later.
package scan

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lucho00cuba/dirsig/internal/ignore"
	"github.com/lucho00cuba/dirsig/internal/logger"
)

// Kind discriminates the non-directory entry variants.
type Kind int

const (
	// KindFile is a regular file, executable or not.
	KindFile Kind = iota
	// KindSymlink is a symbolic link, recorded but never followed.
	KindSymlink
)

// Entry is one file or symlink inside a Directory. Directories themselves
// never appear as entries — they appear only in the top-level Directory list.
type Entry struct {
	Name       string
	Kind       Kind
	Executable bool
	Size       int64
	Target     string // populated only for KindSymlink
	AbsPath    string // filesystem path, used by the block hasher; not emitted
}

// Directory is one entry in the globally-sorted directory list: its path
// relative to the scan root (root itself is "/"), and its direct children,
// already sorted by name.
type Directory struct {
	Path    string
	Entries []Entry
}

// Plan walks root and returns the canonical (directory, entries) sequence.
// matcher may be nil, meaning no exclusions. Errors from an unreadable
// directory or a vanished entry are fatal and carry the offending path.
//
// The directory tree itself is discovered with one sequential pass, since
// pruning excluded subtrees depends on each parent's result before its
// children can be visited. Once that full, globally-sorted directory list is
// known, the per-directory entry lists have no such dependency on each
// other, so they're populated with a small, bounded fan-out of goroutines.
func Plan(root string, matcher ignore.Matcher) ([]Directory, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to resolve root %q: %w", root, err)
	}

	info, err := os.Lstat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to stat root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: root %q is not a directory", root)
	}

	var relDirs []string
	if err := discoverDirs(absRoot, "/", matcher, &relDirs); err != nil {
		return nil, err
	}
	sort.Strings(relDirs)

	dirs := make([]Directory, len(relDirs))
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(context.Background())

	for i, relDir := range relDirs {
		i, relDir := i, relDir
		if err := sem.Acquire(gctx, 1); err != nil {
			// A failed listing cancels gctx: drain the rest and report its error.
			if werr := g.Wait(); werr != nil {
				return nil, werr
			}
			return nil, fmt.Errorf("scan: canceled before listing %q: %w", relDir, err)
		}
		g.Go(func() error {
			defer sem.Release(1)
			absDir := filepath.Join(absRoot, filepath.FromSlash(strings.TrimPrefix(relDir, "/")))
			entries, err := listEntries(absDir, relDir, matcher)
			if err != nil {
				return err
			}
			dirs[i] = Directory{Path: relDir, Entries: entries}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dirs, nil
}

// discoverDirs recurses into absDir (real filesystem path), appending relDir
// ("/"-separated, relative to the scan root) and every non-excluded
// subdirectory beneath it to *out.
func discoverDirs(absDir, relDir string, matcher ignore.Matcher, out *[]string) error {
	*out = append(*out, relDir)

	children, err := os.ReadDir(absDir)
	if err != nil {
		return fmt.Errorf("scan: failed to read directory %q: %w", absDir, err)
	}

	var subdirs []string
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		name := child.Name()
		childAbs := filepath.Join(absDir, name)
		childRel := path.Join(relDir, name)

		if matcher != nil && matcher.Match(childRel, true) {
			logger.Debug("Excluding directory from signature", "path", childAbs)
			continue
		}
		subdirs = append(subdirs, name)
	}

	sort.Strings(subdirs)
	for _, name := range subdirs {
		if err := discoverDirs(filepath.Join(absDir, name), path.Join(relDir, name), matcher, out); err != nil {
			return err
		}
	}
	return nil
}

// listEntries reads the non-directory children of absDir (relDir being its
// scan-root-relative path), applying matcher and returning them sorted by
// name. Subdirectories are skipped here; they were already enumerated by
// discoverDirs and appear as their own Directory entries.
func listEntries(absDir, relDir string, matcher ignore.Matcher) ([]Entry, error) {
	children, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to read directory %q: %w", absDir, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		if child.IsDir() {
			continue
		}

		name := child.Name()
		childAbs := filepath.Join(absDir, name)
		childRel := path.Join(relDir, name)

		if matcher != nil && matcher.Match(childRel, false) {
			logger.Debug("Excluding path from signature", "path", childAbs)
			continue
		}

		typ := child.Type()
		switch {
		case typ&os.ModeSymlink != 0:
			target, err := os.Readlink(childAbs)
			if err != nil {
				return nil, fmt.Errorf("scan: failed to read symlink %q: %w", childAbs, err)
			}
			entries = append(entries, Entry{Name: name, Kind: KindSymlink, Target: target, AbsPath: childAbs})
		case typ.IsRegular():
			fi, err := child.Info()
			if err != nil {
				return nil, fmt.Errorf("scan: failed to stat %q: %w", childAbs, err)
			}
			entries = append(entries, Entry{
				Name:       name,
				Kind:       KindFile,
				Executable: fi.Mode()&0o100 != 0,
				Size:       fi.Size(),
				AbsPath:    childAbs,
			})
		default:
			logger.Debug("Skipping unsupported entry type", "path", childAbs, "mode", typ.String())
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
