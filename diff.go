package dirsig

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// DiffKind classifies one difference between two parsed indices.
type DiffKind int

const (
	DiffAdded DiffKind = iota
	DiffRemoved
	DiffChanged
)

func (k DiffKind) String() string {
	switch k {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// DiffRecord is one difference between two indices at a given full path.
type DiffRecord struct {
	Path   string
	Kind   DiffKind
	Detail string
}

func (r DiffRecord) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Kind, r.Path, r.Detail)
}

// DiffIndices compares every entry of two parsed indices (read fully from a
// and b) and reports entries present in only one side, or present in both
// but with different content, down to the individual path.
func DiffIndices(a, b io.Reader) ([]DiffRecord, error) {
	entriesA, err := collectEntries(a)
	if err != nil {
		return nil, fmt.Errorf("dirsig: failed to parse first index: %w", err)
	}
	entriesB, err := collectEntries(b)
	if err != nil {
		return nil, fmt.Errorf("dirsig: failed to parse second index: %w", err)
	}

	var records []DiffRecord
	for p, eA := range entriesA {
		eB, ok := entriesB[p]
		if !ok {
			records = append(records, DiffRecord{Path: p, Kind: DiffRemoved, Detail: describeEntry(eA)})
			continue
		}
		if detail, changed := compareEntries(eA, eB); changed {
			records = append(records, DiffRecord{Path: p, Kind: DiffChanged, Detail: detail})
		}
	}
	for p, eB := range entriesB {
		if _, ok := entriesA[p]; !ok {
			records = append(records, DiffRecord{Path: p, Kind: DiffAdded, Detail: describeEntry(eB)})
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// collectEntries fully parses src and returns a map of full path ("/" plus
// directory segments plus name) to its Entry.
func collectEntries(src io.Reader) (map[string]Entry, error) {
	_, seq, err := Parse(src)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Entry)
	for dir, err := range seq {
		if err != nil {
			return nil, err
		}
		for _, e := range dir.Entries {
			out[path.Join(dir.Path, e.Name)] = e
		}
	}
	return out, nil
}

func describeEntry(e Entry) string {
	if e.Kind == KindSymlink {
		return "symlink -> " + e.Target
	}
	tag := "file"
	if e.Executable {
		tag = "executable"
	}
	return fmt.Sprintf("%s, size %d", tag, e.Size)
}

func compareEntries(a, b Entry) (string, bool) {
	if a.Kind != b.Kind {
		return fmt.Sprintf("type changed from %s to %s", describeEntry(a), describeEntry(b)), true
	}
	if a.Kind == KindSymlink {
		if a.Target != b.Target {
			return fmt.Sprintf("symlink target changed from %q to %q", a.Target, b.Target), true
		}
		return "", false
	}
	if a.Executable != b.Executable {
		return fmt.Sprintf("executable bit changed from %v to %v", a.Executable, b.Executable), true
	}
	if a.Size != b.Size {
		return fmt.Sprintf("size changed from %d to %d", a.Size, b.Size), true
	}
	if strings.Join(a.BlockHashes, ",") != strings.Join(b.BlockHashes, ",") {
		return "content changed (block hashes differ)", true
	}
	return "", false
}
