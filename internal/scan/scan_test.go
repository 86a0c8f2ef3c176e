package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlanGlobalDirectorySortNotDFS(t *testing.T) {
	root := t.TempDir()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	// A DFS would emit /a/b before /a-c; byte order puts '-' (0x2d) before '/' (0x2f).
	must(os.MkdirAll(filepath.Join(root, "a"), 0o755))
	must(os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	must(os.MkdirAll(filepath.Join(root, "a-c"), 0o755))

	dirs, err := Plan(root, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	var paths []string
	for _, d := range dirs {
		paths = append(paths, d.Path)
	}
	want := []string{"/", "/a", "/a-c", "/a/b"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestPlanClassifiesEntries(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "plain.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	exe := filepath.Join(root, "run.sh")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("plain.txt", filepath.Join(root, "alias")); err != nil {
		t.Fatal(err)
	}

	dirs, err := Plan(root, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("len(dirs) = %d, want 1", len(dirs))
	}
	entries := dirs[0].Entries
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3: %+v", len(entries), entries)
	}
	// entries must be sorted by name: alias, plain.txt, run.sh
	if entries[0].Name != "alias" || entries[1].Name != "plain.txt" || entries[2].Name != "run.sh" {
		t.Fatalf("entries out of order: %+v", entries)
	}
	if entries[0].Kind != KindSymlink || entries[0].Target != "plain.txt" {
		t.Errorf("alias entry = %+v", entries[0])
	}
	if entries[1].Kind != KindFile || entries[1].Executable {
		t.Errorf("plain.txt entry = %+v", entries[1])
	}
	if entries[2].Kind != KindFile || !entries[2].Executable {
		t.Errorf("run.sh entry = %+v", entries[2])
	}
}

func TestPlanEmptyDirectoryStillEmitted(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := Plan(root, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	var found bool
	for _, d := range dirs {
		if d.Path == "/empty" {
			found = true
			if len(d.Entries) != 0 {
				t.Errorf("empty dir has entries: %+v", d.Entries)
			}
		}
	}
	if !found {
		t.Error("empty directory was not emitted")
	}
}

type fakeMatcher struct{ excludeName string }

func (m fakeMatcher) Match(path string, isDir bool) bool {
	return filepath.Base(path) == m.excludeName
}

func TestPlanRespectsMatcher(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "node_modules", "x.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := Plan(root, fakeMatcher{excludeName: "node_modules"})
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	for _, d := range dirs {
		if d.Path == "/node_modules" {
			t.Errorf("excluded directory %q was still emitted", d.Path)
		}
	}
}
