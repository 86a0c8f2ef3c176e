package diff

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucho00cuba/dirsig/cmd"
	_ "github.com/lucho00cuba/dirsig/cmd/scan"
	"github.com/lucho00cuba/dirsig/internal/logger"
)

func init() {
	logger.Init("error", "text", io.Discard)
}

func scanToIndex(t *testing.T, srcDir, indexPath string) {
	t.Helper()
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"scan", srcDir, "-o", indexPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("failed to build index fixture: %v", err)
	}
}

func TestDiffCmd_Identical(t *testing.T) {
	tmpDir := t.TempDir()
	dir1 := filepath.Join(tmpDir, "dir1")
	dir2 := filepath.Join(tmpDir, "dir2")
	if err := os.Mkdir(dir1, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(dir2, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "file.txt"), []byte("same content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "file.txt"), []byte("same content"), 0644); err != nil {
		t.Fatal(err)
	}

	index1 := filepath.Join(tmpDir, "dir1.dirsig")
	index2 := filepath.Join(tmpDir, "dir2.dirsig")
	scanToIndex(t, dir1, index1)
	scanToIndex(t, dir2, index2)

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"diff", index1, index2})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr = %q", err, errBuf.String())
	}
	if buf.String() != "" {
		t.Errorf("expected no output for identical indexes, got %q", buf.String())
	}
}

func TestDiffCmd_Different(t *testing.T) {
	tmpDir := t.TempDir()
	dir1 := filepath.Join(tmpDir, "dir1")
	dir2 := filepath.Join(tmpDir, "dir2")
	if err := os.Mkdir(dir1, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(dir2, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "file.txt"), []byte("content1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "file.txt"), []byte("content2longer"), 0644); err != nil {
		t.Fatal(err)
	}

	index1 := filepath.Join(tmpDir, "dir1.dirsig")
	index2 := filepath.Join(tmpDir, "dir2.dirsig")
	scanToIndex(t, dir1, index1)
	scanToIndex(t, dir2, index2)

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"diff", index1, index2})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr = %q", err, errBuf.String())
	}
	if !strings.Contains(buf.String(), "changed") {
		t.Errorf("output = %q, want it to report a change", buf.String())
	}
	if !strings.Contains(buf.String(), "/file.txt") {
		t.Errorf("output = %q, want it to name /file.txt", buf.String())
	}
}

func TestDiffCmd_AddedAndRemoved(t *testing.T) {
	tmpDir := t.TempDir()
	dir1 := filepath.Join(tmpDir, "dir1")
	dir2 := filepath.Join(tmpDir, "dir2")
	if err := os.Mkdir(dir1, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(dir2, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "only1.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "only2.txt"), []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	index1 := filepath.Join(tmpDir, "dir1.dirsig")
	index2 := filepath.Join(tmpDir, "dir2.dirsig")
	scanToIndex(t, dir1, index1)
	scanToIndex(t, dir2, index2)

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"diff", index1, index2})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr = %q", err, errBuf.String())
	}
	if !strings.Contains(buf.String(), "removed /only1.txt") {
		t.Errorf("output = %q, want it to report only1.txt removed", buf.String())
	}
	if !strings.Contains(buf.String(), "added /only2.txt") {
		t.Errorf("output = %q, want it to report only2.txt added", buf.String())
	}
}

func TestDiffCmd_Nonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	nonexistent := filepath.Join(tmpDir, "nonexistent.dirsig")

	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"diff", nonexistent, nonexistent})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for nonexistent index file")
	}
}

func TestDiffCmd_InvalidArgs(t *testing.T) {
	if diffCmd.Args == nil {
		t.Fatal("diffCmd should have Args validator set")
	}
	if err := diffCmd.Args(diffCmd, []string{}); err == nil {
		t.Error("diffCmd.Args() expected error for no args")
	}
	if err := diffCmd.Args(diffCmd, []string{"arg1"}); err == nil {
		t.Error("diffCmd.Args() expected error for one arg")
	}
	if err := diffCmd.Args(diffCmd, []string{"arg1", "arg2", "arg3"}); err == nil {
		t.Error("diffCmd.Args() expected error for too many args")
	}
	if err := diffCmd.Args(diffCmd, []string{"path1", "path2"}); err != nil {
		t.Errorf("diffCmd.Args() unexpected error for valid args: %v", err)
	}
}
