package store

import (
	"errors"
	"fmt"
	"os"
)

// readAll returns the full content of target in one pass.
// A missing file maps to ErrNotFound; every other failure is an I/O error.
// Content is never interpreted here; decoding is the Serializer's job.
func readAll(fs FS, target string) ([]byte, error) {
	data, err := fs.ReadAll(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
		}

		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	return data, nil
}
