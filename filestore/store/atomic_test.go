package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// failingFS wraps another provider and fails selected primitives.
// It is the fault-injection seam used to exercise commit error paths.
type failingFS struct {
	FS

	failWriteAll bool
	failReplace  bool
}

var errInjected = errors.New("injected storage failure")

func (f failingFS) WriteAll(path string, data []byte) error {
	if f.failWriteAll {
		return errInjected
	}

	return f.FS.WriteAll(path, data)
}

func (f failingFS) Replace(oldPath, newPath string) error {
	if f.failReplace {
		return errInjected
	}

	return f.FS.Replace(oldPath, newPath)
}

func TestTempPath(t *testing.T) {
	t.Parallel()

	target := "/data/state.json"
	got := TempPath(target)

	if got != target+tempSuffix {
		t.Fatalf("TempPath() = %s, want %s", got, target+tempSuffix)
	}
	if filepath.Dir(got) != filepath.Dir(target) {
		t.Fatal("TempPath() must stay in the target's directory")
	}
}

func TestCommit_ReplacesContent(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "state.bin")
	fs := DirectFS()

	if err := Commit(fs, target, []byte("first")); err != nil {
		t.Fatalf("Commit() returned an error: %v", err)
	}
	if err := Commit(fs, target, []byte("second")); err != nil {
		t.Fatalf("Commit() returned an error: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(content) != "second" {
		t.Fatalf("target content = %q, want %q", content, "second")
	}

	if _, err := os.Stat(TempPath(target)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staging file should not exist after a successful commit, stat err: %v", err)
	}
}

func TestCommit_FailedWriteLeavesTargetUntouched(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "state.bin")

	if err := Commit(DirectFS(), target, []byte("committed")); err != nil {
		t.Fatalf("Commit() returned an error: %v", err)
	}

	err := Commit(failingFS{FS: DirectFS(), failWriteAll: true}, target, []byte("doomed"))
	if !errors.Is(err, ErrTempFileFailed) {
		t.Fatalf("Commit() with a failing write should return ErrTempFileFailed, got %v", err)
	}
	if !errors.Is(err, errInjected) {
		t.Fatalf("Commit() should wrap the originating error, got %v", err)
	}

	content, readErr := os.ReadFile(target)
	if readErr != nil {
		t.Fatalf("failed to read target: %v", readErr)
	}
	if string(content) != "committed" {
		t.Fatalf("failed commit must leave the target untouched, got %q", content)
	}
}

func TestCommit_FailedReplaceCleansStagingFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "state.bin")

	err := Commit(failingFS{FS: DirectFS(), failReplace: true}, target, []byte("doomed"))
	if !errors.Is(err, ErrReplaceFailed) {
		t.Fatalf("Commit() with a failing rename should return ErrReplaceFailed, got %v", err)
	}

	if _, statErr := os.Stat(TempPath(target)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("staging file should be removed after a failed rename, stat err: %v", statErr)
	}
	if _, statErr := os.Stat(target); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("target must not appear after a failed rename, stat err: %v", statErr)
	}
}
