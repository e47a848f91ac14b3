package store

import "fmt"

// tempSuffix is appended to the target path to form the staging file name.
// The staging file must live in the target's directory so the final rename
// never crosses a volume boundary.
const tempSuffix = ".tmp"

// TempPath returns the staging path used while committing to target.
// A file at this path is an implementation detail: it may survive a crash
// between write and rename, in which case it is orphaned but harmless and
// overwritten by the next save.
func TempPath(target string) string {
	return target + tempSuffix
}

// Commit durably replaces the content of target with payload.
//
// The payload is first written and fsynced to the staging sibling, then
// renamed over target. The rename is the single linearization point: a
// concurrent or post-crash reader observes either the pre-commit or the
// post-commit content in full, and never a transient absence of a target
// that previously existed.
//
// A failed commit leaves target exactly as it was. The staging file is
// removed best-effort on failure; a leftover never masks the original error.
func Commit(fs FS, target string, payload []byte) error {
	tempFile := TempPath(target)

	if err := fs.WriteAll(tempFile, payload); err != nil {
		_ = fs.Remove(tempFile)
		return fmt.Errorf("%w: %w", ErrTempFileFailed, err)
	}

	if err := fs.Replace(tempFile, target); err != nil {
		_ = fs.Remove(tempFile)
		return fmt.Errorf("%w: %w", ErrReplaceFailed, err)
	}

	return nil
}
