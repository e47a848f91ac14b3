package filestore

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grafana/sobek"
	"go.k6.io/k6/js/modules"

	"github.com/oshokin/xk6-filestore/filestore/store"
)

// FileStore is the JavaScript-facing wrapper around a shared single-value
// store. Each exported method:
//
//   - Binds to the VU (virtual user) runtime via Sobek.
//   - Validates that an underlying store is available (not nil).
//   - Executes the store operation in a separate goroutine, bound to the VU
//     context so an aborted run cancels in-flight I/O.
//   - Resolves/rejects a Sobek Promise back on the VU event loop.
//
// Threading model:
//
//   - All store work occurs in a goroutine (off the VU event loop); the VU's
//     logical task suspends on the returned promise and resumes with the result.
//   - For converting Go results to JavaScript values, we use k.vu.Runtime().ToValue(...)
//     in the same goroutine; resolve/reject are always scheduled back onto the
//     event loop via VU.RegisterCallback().
//
// Because the engine's commit is atomic per call, no extra coordination is
// introduced here: concurrent save() promises race exactly like concurrent
// blocking saves, and the last rename wins.
type FileStore struct {
	// store is the shared backing store for the target path.
	store *store.Store

	// vu is the owning k6 VU that provides the Sobek runtime and event loop.
	vu modules.VU
}

// NewFileStore constructs a new FileStore bound to the given VU and backing store.
func NewFileStore(vu modules.VU, s *store.Store) *FileStore {
	return &FileStore{
		vu:    vu,
		store: s,
	}
}

// Save returns a Promise that resolves to the *same* JavaScript value that
// was provided once the payload is durably committed.
//
// Behavior:
//   - creates the target file on the first save,
//   - atomically replaces its full content on later saves.
//
// Rejection cases:
//   - the store is not open,
//   - the value cannot be serialized or exceeds maxValueSize,
//   - the storage layer fails (the target then keeps its previous content).
func (k *FileStore) Save(value sobek.Value) *sobek.Promise {
	// Convert the Sobek value to Go 'any' for the store while we are still
	// on the VU thread.
	exportedValue := value.Export()

	return k.runAsyncWithStore(
		func(ctx context.Context, s *store.Store) (any, error) {
			return value, s.SaveContext(ctx, exportedValue)
		},

		// Resolve with the exact same JS value the user passed in (identity/symmetry).
		func(_ *sobek.Runtime, _ any) sobek.Value {
			return value
		},
	)
}

// Get returns a Promise that resolves to the currently saved value.
//
// Rejection cases:
//   - the store is not open,
//   - nothing was ever saved (NotFoundError),
//   - the stored payload cannot be decoded (DeserializationError).
func (k *FileStore) Get() *sobek.Promise {
	return k.runAsyncWithStore(
		func(ctx context.Context, s *store.Store) (any, error) {
			return s.GetContext(ctx)
		},

		// Convert the Go value to a JavaScript value for the VU runtime.
		func(rt *sobek.Runtime, result any) sobek.Value {
			return rt.ToValue(result)
		},
	)
}

// Exists returns a Promise that resolves to true if a value has been saved
// to the target path, false otherwise.
func (k *FileStore) Exists() *sobek.Promise {
	return k.runAsyncWithStore(
		func(_ context.Context, s *store.Store) (any, error) {
			return s.Exists(), nil
		},
		func(rt *sobek.Runtime, result any) sobek.Value {
			return rt.ToValue(result)
		},
	)
}

// Remove returns a Promise that resolves to true after deleting the saved
// value. Removing a never-saved path still resolves to true to keep the API
// simple; use exists() first if the distinction matters.
func (k *FileStore) Remove() *sobek.Promise {
	return k.runAsyncWithStore(
		func(_ context.Context, s *store.Store) (any, error) {
			return true, s.Remove()
		},
		func(rt *sobek.Runtime, result any) sobek.Value {
			return rt.ToValue(result)
		},
	)
}

// Stat returns a Promise that resolves to metadata about the saved value:
// { size, sizeText, modifiedAt }. Rejects with NotFoundError before the
// first save.
func (k *FileStore) Stat() *sobek.Promise {
	return k.runAsyncWithStore(
		func(_ context.Context, s *store.Store) (any, error) {
			info, err := s.Stat()
			if err != nil {
				return nil, err
			}

			// If we return a struct, the fields will be converted to snake_case.
			// Return a map[string]any instead to keep camelCase for JS.
			return map[string]any{
				"size":       info.Size,
				"sizeText":   humanize.IBytes(uint64(info.Size)),
				"modifiedAt": info.ModTime.UTC().Format(time.RFC3339),
			}, nil
		},
		func(rt *sobek.Runtime, result any) sobek.Value {
			return rt.ToValue(result)
		},
	)
}

// Path returns the resolved target path. It is synchronous because it only
// reads the immutable binding.
func (k *FileStore) Path() string {
	if k.store == nil {
		return ""
	}

	return k.store.Path()
}

// Close detaches this handle from the shared store. It is synchronous
// because the caller usually needs to know the outcome immediately (e.g.,
// test tear-down). The engine holds no open file handles between calls, so
// there is nothing else to release.
func (k *FileStore) Close() error {
	if k.store == nil {
		return k.storeNotOpenError()
	}

	k.store = nil

	return nil
}

// storeNotOpenError produces a consistent error when the backing store is nil.
func (k *FileStore) storeNotOpenError() error {
	return NewError(StoreNotOpenError, "store is not open")
}

// runAsyncWithStore executes a store operation on a worker goroutine and
// bridges its result back to JavaScript by resolving a Sobek promise on the
// VU's event loop. This indirection is required because:
//   - Sobek promises (rt.NewPromise) are not goroutine-safe; resolve/reject must
//     always run on the event loop thread.
//   - k6 extensions are responsible for scheduling their callbacks via
//     VU.RegisterCallback(), otherwise multiple goroutines will race inside the
//     VM and panic.
//   - We still want the I/O off the event loop so VUs stay responsive while a
//     save flushes to disk.
func (k *FileStore) runAsyncWithStore(
	operation func(ctx context.Context, s *store.Store) (any, error),
	toJS func(rt *sobek.Runtime, result any) sobek.Value,
) *sobek.Promise {
	// Capture the VU runtime and create a promise whose resolve/reject
	// must run on the event loop thread (Sobek promises are not goroutine-safe).
	rt := k.vu.Runtime()
	promise, resolve, reject := rt.NewPromise()

	// Grab the VU's RegisterCallback hook so we can enqueue work back onto
	// the event loop after the store operation completes.
	callback := k.vu.RegisterCallback()

	runOnEventLoop := func(fn func() error) {
		callback(fn)
	}

	// The VU context makes the store's suspension-aware variants cancel when
	// the iteration or the whole run is aborted.
	ctx := k.vu.Context()

	go func() {
		if k.store == nil {
			runOnEventLoop(func() error {
				return reject(k.storeNotOpenError())
			})

			return
		}

		goResult, err := operation(ctx, k.store)
		if err != nil {
			runOnEventLoop(func() error {
				return reject(classifyError(err))
			})

			return
		}

		// Marshal the result back to JS by enqueueing a callback that converts
		// the Go value and resolves the promise on the event loop thread.
		runOnEventLoop(func() error {
			jsValue := toJS(rt, goResult)
			return resolve(jsValue)
		})
	}()

	return promise
}
