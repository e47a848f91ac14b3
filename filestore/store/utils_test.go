package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveFilePath_EmptyUsesDefault(t *testing.T) {
	t.Parallel()

	got, err := ResolveFilePath("   ")
	if err != nil {
		t.Fatalf("ResolveFilePath() returned an error: %v", err)
	}

	want, err := filepath.Abs(DefaultFilePath)
	if err != nil {
		t.Fatalf("failed to compute expected path: %v", err)
	}
	if got != want {
		t.Fatalf("ResolveFilePath(\"\") = %s, want %s", got, want)
	}
}

func TestResolveFilePath_CleansRedundantSegments(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "state.json")
	messy := filepath.Join(base, "..", filepath.Base(base))

	got, err := ResolveFilePath(messy)
	if err != nil {
		t.Fatalf("ResolveFilePath() returned an error: %v", err)
	}
	if got != base {
		t.Fatalf("ResolveFilePath(%s) = %s, want %s", messy, got, base)
	}
}

func TestResolveFilePath_NonExistentIsFine(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "not-yet-saved.json")

	got, err := ResolveFilePath(target)
	if err != nil {
		t.Fatalf("ResolveFilePath() on a non-existent file returned an error: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveFilePath() = %s, want %s", got, target)
	}
}

func TestResolveFilePath_RejectsDirectories(t *testing.T) {
	t.Parallel()

	_, err := ResolveFilePath(t.TempDir())
	if !errors.Is(err, ErrPathIsDirectory) {
		t.Fatalf("ResolveFilePath() on a directory should return ErrPathIsDirectory, got %v", err)
	}
}
