package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Store persists a single value at one target path through a bound
// Serializer. The handle is immutable after construction; the only state it
// manages is the target file itself, so a Store is safe for concurrent use.
//
// Concurrency contract: each commit and each read is individually atomic.
// There is no ordering guarantee between two concurrent saves to the same
// path; the last rename wins. Callers needing deterministic multi-writer
// ordering must serialize saves externally.
type Store struct {
	// path is the resolved absolute target path.
	path string

	// serializer encodes/decodes the stored value.
	serializer Serializer

	// fs is the filesystem provider for the blocking variants.
	fs FS

	// maxValueSize caps the serialized payload, 0 means unlimited.
	maxValueSize uint64
}

// Info describes the currently committed target file.
type Info struct {
	// Size is the payload size in bytes.
	Size int64

	// ModTime is the time of the last successful commit (or external write).
	ModTime time.Time
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithMaxValueSize caps the serialized payload size accepted by Save.
// Oversized values are rejected with ErrValueTooLarge before any disk write.
// A limit of 0 disables the cap.
func WithMaxValueSize(limit uint64) Option {
	return func(s *Store) {
		s.maxValueSize = limit
	}
}

// WithFS overrides the filesystem provider. Primarily a seam for tests that
// inject storage failures.
func WithFS(fs FS) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// New binds a target path to a serializer. The path is resolved to an
// absolute location and rejected if it points at a directory. The parent
// directory is expected to exist; creating it is the caller's policy, not
// the engine's (a missing parent surfaces as an I/O error from Save).
func New(path string, serializer Serializer, opts ...Option) (*Store, error) {
	if serializer == nil {
		return nil, fmt.Errorf("%w: serializer is nil", ErrStoreOptionsInvalid)
	}

	resolvedPath, err := ResolveFilePath(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:       resolvedPath,
		serializer: serializer,
		fs:         DirectFS(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Path returns the resolved target path.
func (s *Store) Path() string {
	return s.path
}

// Save encodes value and atomically replaces the target file's content with
// the payload. It blocks the calling goroutine until the payload is durable
// or the attempt has failed; a failed save leaves the previous state intact.
func (s *Store) Save(value any) error {
	return s.save(s.fs, value)
}

// SaveContext is Save through the suspension-aware provider. If ctx is
// cancelled after the staging file is written but before the rename, the
// target is left unchanged; the staging file may remain orphaned and is
// overwritten by the next save.
func (s *Store) SaveContext(ctx context.Context, value any) error {
	return s.save(ContextFS(ctx, s.fs), value)
}

// Get reads the target file in full and decodes it with the bound
// serializer. Absence of the target reports ErrNotFound.
func (s *Store) Get() (any, error) {
	return s.get(s.fs)
}

// GetContext is Get through the suspension-aware provider.
func (s *Store) GetContext(ctx context.Context) (any, error) {
	return s.get(ContextFS(ctx, s.fs))
}

// Exists reports whether a committed value is present at the target path.
func (s *Store) Exists() bool {
	_, err := s.fs.Stat(s.path)
	return err == nil
}

// Stat returns metadata about the committed target file.
// Absence reports ErrNotFound, matching Get.
func (s *Store) Stat() (Info, error) {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}

		return Info{}, fmt.Errorf("%w: %w", ErrStatFailed, err)
	}

	return Info{
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Remove deletes the committed value. Removing a never-saved path is a
// no-op. A stale staging file from an interrupted save is cleaned up along
// the way, best effort.
func (s *Store) Remove() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrRemoveFailed, err)
	}

	_ = s.fs.Remove(TempPath(s.path))

	return nil
}

// save is the single save algorithm, shared by both execution variants.
func (s *Store) save(fs FS, value any) error {
	payload, err := s.serializer.Serialize(value)
	if err != nil {
		return err
	}

	if s.maxValueSize > 0 && uint64(len(payload)) > s.maxValueSize {
		return fmt.Errorf(
			"%w: payload is %d bytes, limit is %d bytes",
			ErrValueTooLarge, len(payload), s.maxValueSize,
		)
	}

	return Commit(fs, s.path, payload)
}

// get is the single read algorithm, shared by both execution variants.
func (s *Store) get(fs FS) (any, error) {
	data, err := readAll(fs, s.path)
	if err != nil {
		return nil, err
	}

	return s.serializer.Deserialize(data)
}
