package index

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucho00cuba/dirsig/internal/digest"
	"github.com/lucho00cuba/dirsig/internal/format"
)

// Writer emits a directory signature to a caller-provided sink while
// simultaneously feeding every emitted byte (header line through the last
// entry line — everything except the footer itself) into an overall hasher.
type Writer struct {
	out       io.Writer
	tee       io.Writer
	hasher    digest.Hasher
	finalized bool
}

// NewWriter constructs a Writer and immediately emits the header line.
func NewWriter(out io.Writer, header Header) (*Writer, error) {
	h, err := digest.New(header.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("index: failed to construct hasher for header: %w", err)
	}

	w := &Writer{out: out, hasher: h}
	w.tee = io.MultiWriter(out, h)

	if err := w.writeLine(header.FormatLine()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeLine(line string) error {
	if w.finalized {
		return fmt.Errorf("index: write after Finalize")
	}
	if _, err := io.WriteString(w.tee, line); err != nil {
		return fmt.Errorf("index: failed to write line: %w", err)
	}
	if _, err := io.WriteString(w.tee, "\n"); err != nil {
		return fmt.Errorf("index: failed to write line terminator: %w", err)
	}
	return nil
}

// WriteDirectory emits a directory_line for path ("/" for the root).
// Empty directories still emit this line with no following entries.
func (w *Writer) WriteDirectory(path string) error {
	return w.writeLine(format.EncodeString(path))
}

// WriteFile emits an entry_line for a regular file or executable. size
// must equal the sum of bytes covered by blockHashes; blockHashes is nil
// or empty iff size is 0.
func (w *Writer) WriteFile(name string, executable bool, size uint64, blockHashes []string) error {
	tag := "f"
	if executable {
		tag = "x"
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(format.EncodeString(name))
	b.WriteByte(' ')
	b.WriteString(tag)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(size, 10))
	for _, h := range blockHashes {
		b.WriteByte(' ')
		b.WriteString(h)
	}
	return w.writeLine(b.String())
}

// WriteSymlink emits an entry_line for a symbolic link.
func (w *Writer) WriteSymlink(name, target string) error {
	line := "  " + format.EncodeString(name) + " s " + format.EncodeString(target)
	return w.writeLine(line)
}

// Finalize appends the hex-encoded overall digest followed by a newline
// and returns that digest. The footer line and its terminator are written
// directly to the sink and are not fed into the hasher. Finalize must be
// called exactly once, after every directory/entry has been written.
func (w *Writer) Finalize() (string, error) {
	if w.finalized {
		return "", fmt.Errorf("index: Finalize called more than once")
	}
	w.finalized = true

	sum := w.hasher.Sum()
	if _, err := io.WriteString(w.out, sum); err != nil {
		return "", fmt.Errorf("index: failed to write footer: %w", err)
	}
	if _, err := io.WriteString(w.out, "\n"); err != nil {
		return "", fmt.Errorf("index: failed to write footer terminator: %w", err)
	}
	return sum, nil
}
