package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilePath is used when the caller does not supply a target path.
const DefaultFilePath = "filestore.json"

// ResolveFilePath normalizes a user-provided target path and applies
// fast-fail defaults. Empty strings revert to the default file path.
// Existing directories are rejected immediately instead of failing later
// inside a commit.
func ResolveFilePath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		defaultPath, err := filepath.Abs(DefaultFilePath)
		if err != nil {
			return "", fmt.Errorf("%w: default path %q: %w", ErrPathResolveFailed, DefaultFilePath, err)
		}

		return defaultPath, nil
	}

	cleanedPath := filepath.Clean(trimmedPath)

	absPath, err := filepath.Abs(cleanedPath)
	if err != nil {
		return "", fmt.Errorf("%w: path %q: %w", ErrPathResolveFailed, cleanedPath, err)
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		if info.IsDir() {
			return absPath, fmt.Errorf("%w: %q", ErrPathIsDirectory, absPath)
		}

		return absPath, nil
	case errors.Is(err, os.ErrNotExist):
		return absPath, nil
	default:
		return absPath, fmt.Errorf("%w: %q: %w", ErrPathResolveFailed, absPath, err)
	}
}
