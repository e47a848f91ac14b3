package store

import (
	"context"
	"os"
)

// FS is the filesystem capability the engine runs on. The commit and read
// algorithms are written once against this interface; the execution-model
// variants differ only in which provider they pass in.
//
// Error semantics:
//
//   - Methods return the underlying os error untouched so callers can keep
//     using errors.Is (e.g. os.ErrNotExist); wrapping into the store's
//     taxonomy happens in the algorithm layer.
type FS interface {
	// WriteAll creates or truncates the file at path, writes data in full,
	// and flushes it to durable storage before closing the handle.
	// A buffered-but-unflushed write must never be reported as success.
	WriteAll(path string, data []byte) error

	// Replace atomically renames oldPath over newPath.
	Replace(oldPath, newPath string) error

	// ReadAll returns the entire content of the file at path.
	ReadAll(path string) ([]byte, error)

	// Remove deletes the file at path.
	Remove(path string) error

	// Stat returns file metadata for path.
	Stat(path string) (os.FileInfo, error)
}

// directFS executes every primitive inline on the calling goroutine.
type directFS struct{}

// DirectFS returns the provider used by the blocking Save/Get variants.
func DirectFS() FS {
	return directFS{}
}

// WriteAll implements FS. The handle is closed on every exit path.
func (directFS) WriteAll(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}

	// Force the payload to stable storage before the caller proceeds to the
	// rename step; without this a crash could promote an empty or partial file.
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// Replace implements FS via os.Rename, which is atomic with respect to
// concurrent opens on POSIX-like filesystems.
func (directFS) Replace(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// ReadAll implements FS.
func (directFS) ReadAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Remove implements FS.
func (directFS) Remove(path string) error {
	return os.Remove(path)
}

// Stat implements FS.
func (directFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// contextFS wraps another provider and runs each primitive on a worker
// goroutine, abandoning the wait when the context is cancelled. The
// underlying operation may still complete after cancellation; for a save
// this means the staging file can be left behind while the target stays
// untouched, which the next successful save overwrites.
type contextFS struct {
	ctx context.Context
	fs  FS
}

// ContextFS returns the suspension-aware provider used by the
// SaveContext/GetContext variants.
func ContextFS(ctx context.Context, fs FS) FS {
	return contextFS{ctx: ctx, fs: fs}
}

// await runs op on a worker goroutine and returns its result, or the context
// error if cancellation wins the race. The result channel is buffered so an
// abandoned worker can still deliver and exit.
func await[T any](ctx context.Context, op func() (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)

	go func() {
		value, err := op()
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// awaitErr is await for primitives that only report an error.
func awaitErr(ctx context.Context, op func() error) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	})

	return err
}

// WriteAll implements FS.
func (c contextFS) WriteAll(path string, data []byte) error {
	return awaitErr(c.ctx, func() error {
		return c.fs.WriteAll(path, data)
	})
}

// Replace implements FS.
func (c contextFS) Replace(oldPath, newPath string) error {
	return awaitErr(c.ctx, func() error {
		return c.fs.Replace(oldPath, newPath)
	})
}

// ReadAll implements FS.
func (c contextFS) ReadAll(path string) ([]byte, error) {
	return await(c.ctx, func() ([]byte, error) {
		return c.fs.ReadAll(path)
	})
}

// Remove implements FS.
func (c contextFS) Remove(path string) error {
	return awaitErr(c.ctx, func() error {
		return c.fs.Remove(path)
	})
}

// Stat implements FS.
func (c contextFS) Stat(path string) (os.FileInfo, error) {
	return await(c.ctx, func() (os.FileInfo, error) {
		return c.fs.Stat(path)
	})
}
