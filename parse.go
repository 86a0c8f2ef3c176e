package dirsig

import (
	"io"
	"iter"

	"github.com/lucho00cuba/dirsig/internal/index"
)

// Header re-exports the parsed index header for callers of Parse and
// OpenNavigator that don't otherwise need the internal/index package.
type Header = index.Header

// Directory re-exports one parsed directory record: its path and entries.
type Directory = index.Directory

// Entry re-exports one parsed file or symlink entry.
type Entry = index.Entry

const (
	KindFile    = index.KindFile
	KindSymlink = index.KindSymlink
)

// Navigator re-exports the random-access index reader.
type Navigator = index.Navigator

// Parse parses the header of src and returns it alongside an iterator over
// the body's directory records, in the order they appear in the index
// (i.e. sorted by directory path). Iterating to completion verifies the
// footer; a *direrrors.CorruptionError surfaces through the iterator if it
// doesn't match.
func Parse(src io.Reader) (Header, iter.Seq2[Directory, error], error) {
	r, err := index.NewReader(src)
	if err != nil {
		return Header{}, nil, err
	}

	seq := func(yield func(Directory, error) bool) {
		for {
			d, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Directory{}, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}

	return r.Header(), seq, nil
}

// OpenNavigator builds a random-access index over src (size bytes long),
// exposing Header, Lookup, and IterDir without loading the body into
// memory up front.
func OpenNavigator(src io.ReaderAt, size int64) (*Navigator, error) {
	return index.OpenNavigator(src, size)
}
