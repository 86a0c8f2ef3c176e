package index

import (
	"strconv"
	"strings"

	"github.com/lucho00cuba/dirsig/internal/blockhash"
	"github.com/lucho00cuba/dirsig/internal/direrrors"
	"github.com/lucho00cuba/dirsig/internal/format"
)

// EntryKind discriminates the non-directory entry variants.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindSymlink
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Entry is one parsed file or symlink inside a directory.
type Entry struct {
	Name        string
	Kind        EntryKind
	Executable  bool
	Size        uint64
	BlockHashes []string
	Target      string
}

// parseEntryLine parses one already-trimmed (no trailing \n) entry_line.
// lineNo is used only for FormatError reporting; pass 0 when unavailable
// (e.g. the navigator's random-access path, which never tracks line numbers).
func parseEntryLine(line string, blockSize uint32, lineNo int) (Entry, error) {
	if len(line) < 2 || line[0] != ' ' || line[1] != ' ' {
		return Entry{}, direrrors.NewFormatError(lineNo, "entry", "entry line must start with exactly two spaces")
	}
	body := line[2:]

	idx := strings.IndexByte(body, ' ')
	if idx < 0 {
		return Entry{}, direrrors.NewFormatError(lineNo, "entry", "missing type field after name")
	}
	encName, rest := body[:idx], body[idx+1:]
	name, err := format.DecodeString(encName)
	if err != nil {
		return Entry{}, direrrors.NewFormatError(lineNo, "entry", "malformed escaped name: "+err.Error())
	}

	if len(rest) < 2 || rest[1] != ' ' {
		return Entry{}, direrrors.NewFormatError(lineNo, "entry", "missing payload after type tag")
	}
	tag, payload := rest[0], rest[2:]

	switch tag {
	case 'f', 'x':
		fields := strings.Split(payload, " ")
		if len(fields) == 0 || fields[0] == "" {
			return Entry{}, direrrors.NewFormatError(lineNo, "entry", "missing size field")
		}
		size, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return Entry{}, direrrors.NewFormatError(lineNo, "entry", "invalid size: "+err.Error())
		}
		var hashes []string
		if len(fields) > 1 {
			hashes = fields[1:]
		}
		want := blockhash.BlockCount(int64(size), blockSize)
		if want != len(hashes) {
			return Entry{}, direrrors.NewFormatError(lineNo, "entry",
				"block count mismatch: size implies "+strconv.Itoa(want)+" hashes, found "+strconv.Itoa(len(hashes)))
		}
		return Entry{Name: name, Kind: KindFile, Executable: tag == 'x', Size: size, BlockHashes: hashes}, nil

	case 's':
		target, err := format.DecodeString(payload)
		if err != nil {
			return Entry{}, direrrors.NewFormatError(lineNo, "entry", "malformed escaped target: "+err.Error())
		}
		return Entry{Name: name, Kind: KindSymlink, Target: target}, nil

	default:
		return Entry{}, direrrors.NewFormatError(lineNo, "entry", "unrecognized type tag '"+string(tag)+"'")
	}
}
