package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grafana/sobek"
	"go.k6.io/k6/js/common"
	"go.k6.io/k6/js/modules"

	"github.com/oshokin/xk6-filestore/filestore/store"
)

type (
	// RootModule is a module singleton created once per test process.
	// It owns the shared stores used by all VUs, one per resolved target path.
	RootModule struct {
		// stores maps a resolved target path to its shared store and the
		// options it was opened with.
		stores map[string]*sharedStore

		// mu protects store creation and configuration.
		mu sync.Mutex
	}

	// sharedStore pairs a store with the options that created it so later
	// openFileStore() calls for the same path can be checked for conflicts.
	sharedStore struct {
		store *store.Store
		opts  Options
	}

	// ModuleInstance is created per VU.
	// It holds the per-VU JS bindings and a pointer
	// to the RootModule to access the shared stores.
	ModuleInstance struct {
		vu modules.VU
		rm *RootModule

		// fs is the file store handle returned by the last openFileStore() call.
		fs *FileStore
	}
)

// testOpenStoreBarrier is a test hook invoked the moment a goroutine enters
// the store-initialization path. It lets tests synchronize concurrent calls
// to OpenFileStore without impacting production behavior (nil in non-test builds).
//
//nolint:gochecknoglobals // this is a test hook.
var (
	testOpenStoreBarrier   func()
	testOpenStoreBarrierMu sync.RWMutex
)

const (
	// SerializationJSON encodes/decodes values using indented JSON.
	SerializationJSON = "json"
	// SerializationString stores string values as their raw bytes.
	SerializationString = "string"

	// DefaultSerialization is used when the user does not specify a serialization format.
	DefaultSerialization = SerializationJSON
)

// Compile-time interface assertions (defensive).
var (
	_ modules.Instance = new(ModuleInstance)
	_ modules.Module   = new(RootModule)
)

// New returns a pointer to a new RootModule instance.
func New() *RootModule {
	return &RootModule{
		stores: make(map[string]*sharedStore),
	}
}

// NewModuleInstance implements modules.Module.
// It creates a per-VU instance wired to the RootModule (which owns the shared stores).
func (rm *RootModule) NewModuleInstance(vu modules.VU) modules.Instance {
	return &ModuleInstance{
		vu: vu,
		rm: rm,
	}
}

// getOrCreateStore returns the shared store for the options' path, creating
// it on first use. Reopening an established path with different options is
// rejected to prevent two VUs silently writing incompatible formats to the
// same file.
func (rm *RootModule) getOrCreateStore(options Options) (*store.Store, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if shared, ok := rm.stores[options.Path]; ok {
		if shared.opts.Equal(options) {
			return shared.store, nil
		}

		return nil, fmt.Errorf(
			"%w: path=%q serialization=%q maxValueSize=%d",
			store.ErrStoreOptionsConflict,
			shared.opts.Path, shared.opts.Serialization, shared.opts.maxValueSizeBytes,
		)
	}

	// Test hook: allows test code to synchronize concurrent OpenFileStore calls.
	// Production code sees nil and skips this entirely.
	testOpenStoreBarrierMu.RLock()

	barrier := testOpenStoreBarrier

	testOpenStoreBarrierMu.RUnlock()

	if barrier != nil {
		barrier()
	}

	// Directory policy lives here, not in the engine: the module layer makes
	// sure the parent chain exists so a store opened on a fresh path works.
	if err := os.MkdirAll(filepath.Dir(options.Path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrParentDirectoryCreateFailed, err)
	}

	serializer, err := createSerializer(options.Serialization)
	if err != nil {
		return nil, err
	}

	backingStore, err := store.New(
		options.Path,
		serializer,
		store.WithMaxValueSize(options.maxValueSizeBytes),
	)
	if err != nil {
		return nil, err
	}

	rm.stores[options.Path] = &sharedStore{
		store: backingStore,
		opts:  options,
	}

	return backingStore, nil
}

// createSerializer creates a new serializer based on the format name.
func createSerializer(serialization string) (store.Serializer, error) {
	switch serialization {
	case SerializationJSON:
		return store.NewJSONSerializer(), nil
	case SerializationString:
		return store.NewStringSerializer(), nil
	default:
		// Unreachable: serialization is validated in NewOptionsFrom before this is called.
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidSerialization, serialization)
	}
}

// Exports implements modules.Instance and exposes
// the JavaScript API surface for this module.
// Currently, only openFileStore() is exported.
func (mi *ModuleInstance) Exports() modules.Exports {
	return modules.Exports{
		Named: map[string]any{
			"openFileStore": mi.OpenFileStore,
		},
	}
}

// OpenFileStore parses user options, initializes the shared store for the
// target path (once), and returns the per-VU FileStore object bound to it.
//
// Concurrency & visibility guarantees:
//   - The first successful call for a path "wins" and decides its
//     serialization and limits.
//   - Later calls for the same path must use equivalent options and reuse
//     the established store.
func (mi *ModuleInstance) OpenFileStore(opts sobek.Value) *sobek.Object {
	options, err := NewOptionsFrom(mi.vu, opts)
	if err != nil {
		common.Throw(mi.vu.Runtime(), classifyError(err))
		return nil
	}

	backingStore, err := mi.rm.getOrCreateStore(options)
	if err != nil {
		common.Throw(mi.vu.Runtime(), classifyError(err))
		return nil
	}

	fs := NewFileStore(mi.vu, backingStore)
	mi.fs = fs

	return mi.vu.Runtime().ToValue(mi.fs).ToObject(mi.vu.Runtime())
}

// Options controls how the shared store for a path is created on the first
// call to openFileStore().
type Options struct {
	// Path points to the target file holding the saved value.
	// When empty the default path is used. Relative paths are resolved
	// against the working directory.
	Path string `js:"path"`

	// Serialization selects how the value is encoded/decoded when stored.
	// Valid values: "json" (structured, default), "string" (raw string to bytes).
	Serialization string `js:"serialization"`

	// MaxValueSize caps the serialized payload. Accepts a number of bytes or
	// a human-readable string like "64kb". Zero or absent means unlimited.
	MaxValueSize any `js:"maxValueSize"`

	// maxValueSizeBytes is MaxValueSize parsed to bytes.
	maxValueSizeBytes uint64
}

// NewOptionsFrom converts a Sobek (JS) value into an Options instance, applying defaults
// and validating user input. It's intentionally strict to fail fast on invalid configs.
func NewOptionsFrom(vu modules.VU, options sobek.Value) (Options, error) {
	// Defaults keep sensible behavior out of the box.
	opts := Options{
		Serialization: DefaultSerialization,
	}

	if !common.IsNullish(options) {
		if err := vu.Runtime().ExportTo(options, &opts); err != nil {
			return opts, fmt.Errorf("%w: %w", store.ErrStoreOptionsInvalid, err)
		}
	}

	// Canonicalize the path so two spellings of the same file share one store.
	canonicalPath, err := store.ResolveFilePath(opts.Path)
	if err != nil {
		return opts, err
	}

	opts.Path = canonicalPath

	// Validate serialization.
	if opts.Serialization != SerializationJSON && opts.Serialization != SerializationString {
		return opts, fmt.Errorf(
			"%w: %q; valid values are: %q, %q",
			store.ErrInvalidSerialization, opts.Serialization, SerializationJSON, SerializationString,
		)
	}

	// Validate and normalize the size cap.
	maxValueSizeBytes, err := parseSizeValue(opts.MaxValueSize)
	if err != nil {
		return opts, fmt.Errorf("%w: maxValueSize: %w", store.ErrStoreOptionsInvalid, err)
	}

	opts.maxValueSizeBytes = maxValueSizeBytes

	return opts, nil
}

// Equal checks if two Options are equal.
func (o Options) Equal(other Options) bool {
	return o.Path == other.Path &&
		o.Serialization == other.Serialization &&
		o.maxValueSizeBytes == other.maxValueSizeBytes
}
