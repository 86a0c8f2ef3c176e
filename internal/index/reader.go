package index

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lucho00cuba/dirsig/internal/digest"
	"github.com/lucho00cuba/dirsig/internal/direrrors"
	"github.com/lucho00cuba/dirsig/internal/format"
)

// Directory is one parsed directory record: its path and its fully parsed
// entries, in the order the reader encountered them.
type Directory struct {
	Path    string
	Entries []Entry
}

type lineKind int

const (
	lineDirectory lineKind = iota
	lineEntry
	lineFooter
)

// Reader incrementally parses a directory signature from a streaming
// source without buffering the whole body in memory; it tees every body
// byte (header through the last entry line) into a hasher mirroring the
// writer, so at EOF it can check the declared footer for corruption.
type Reader struct {
	s      *bufio.Scanner
	header Header
	hasher digest.Hasher
	lineNo int

	nextLine string
	nextKind lineKind
	footer   string

	prevDirPath string
	done        bool
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')
}

// NewReader parses the header line and prepares to stream the body.
func NewReader(src io.Reader) (*Reader, error) {
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 64*1024), 64<<20)

	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("index: failed to read header: %w", err)
		}
		return nil, direrrors.NewFormatError(1, "header", "empty input")
	}
	headerLine := s.Text()
	header, err := ParseHeaderLine(headerLine)
	if err != nil {
		return nil, direrrors.NewFormatError(1, "header", err.Error())
	}

	h, err := digest.New(header.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("index: failed to construct hasher: %w", err)
	}
	io.WriteString(h, headerLine)
	io.WriteString(h, "\n")

	r := &Reader{s: s, header: header, hasher: h, lineNo: 1}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the parsed header.
func (r *Reader) Header() Header { return r.header }

// advance reads the next body line, classifies it, and (for directory and
// entry lines) feeds it into the hasher. Footer lines are recognized but
// excluded from the hash, since the footer authenticates everything before it.
func (r *Reader) advance() error {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return fmt.Errorf("index: read error: %w", err)
		}
		return direrrors.NewFormatError(r.lineNo+1, "eof", "input ended before a footer line")
	}
	r.lineNo++
	line := r.s.Text()

	if len(line) == 0 {
		return direrrors.NewFormatError(r.lineNo, "line", "empty line")
	}

	switch {
	case line[0] == '/':
		io.WriteString(r.hasher, line)
		io.WriteString(r.hasher, "\n")
		r.nextLine = line
		r.nextKind = lineDirectory
	case line[0] == ' ':
		io.WriteString(r.hasher, line)
		io.WriteString(r.hasher, "\n")
		r.nextLine = line
		r.nextKind = lineEntry
	default:
		if !isHexDigit(line[0]) {
			return direrrors.NewFormatError(r.lineNo, "line",
				fmt.Sprintf("line must start with '/', ' ', or a hex digit, got %q", line[0]))
		}
		r.footer = line
		r.nextKind = lineFooter
	}
	return nil
}

// Next returns the next parsed directory record, or io.EOF once the footer
// has been reached and verified. A footer mismatch is reported as a
// *direrrors.CorruptionError instead of io.EOF.
func (r *Reader) Next() (Directory, error) {
	if r.done {
		return Directory{}, io.EOF
	}

	if r.nextKind == lineFooter {
		r.done = true
		computed := r.hasher.Sum()
		if computed != r.footer {
			return Directory{}, direrrors.NewCorruptionError(computed, r.footer)
		}
		return Directory{}, io.EOF
	}

	if r.nextKind != lineDirectory {
		return Directory{}, direrrors.NewFormatError(r.lineNo, "order", "expected a directory line")
	}

	dirPath, err := format.DecodeString(r.nextLine)
	if err != nil {
		return Directory{}, direrrors.NewFormatError(r.lineNo, "directory", "malformed escaped path: "+err.Error())
	}
	if r.prevDirPath != "" && dirPath <= r.prevDirPath {
		return Directory{}, direrrors.NewFormatError(r.lineNo, "order",
			fmt.Sprintf("directory %q does not sort after previous directory %q", dirPath, r.prevDirPath))
	}
	r.prevDirPath = dirPath

	if err := r.advance(); err != nil {
		return Directory{}, err
	}

	var entries []Entry
	prevName := ""
	for r.nextKind == lineEntry {
		e, err := parseEntryLine(r.nextLine, r.header.BlockSize, r.lineNo)
		if err != nil {
			return Directory{}, err
		}
		if prevName != "" && e.Name <= prevName {
			return Directory{}, direrrors.NewFormatError(r.lineNo, "order",
				fmt.Sprintf("entry %q does not sort after previous entry %q", e.Name, prevName))
		}
		prevName = e.Name
		entries = append(entries, e)
		if err := r.advance(); err != nil {
			return Directory{}, err
		}
	}

	return Directory{Path: dirPath, Entries: entries}, nil
}
