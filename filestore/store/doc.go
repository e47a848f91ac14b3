// Package store implements a crash-consistent, single-value file store.
//
// A Store binds one target path to one Serializer. Save serializes the value
// and commits the payload atomically: it is staged in a temporary sibling
// file, flushed to durable storage, and renamed over the target. A reader
// therefore observes either the previous complete content or the new
// complete content, never a mixture, even if the process dies mid-save.
//
// The commit and read algorithms are written once against a small filesystem
// capability (FS). Two providers exist: DirectFS executes primitives inline
// (the blocking Save/Get), and ContextFS runs each primitive on a worker
// goroutine so a cancelled context abandons the wait (the SaveContext /
// GetContext variants). Both run the byte-identical algorithm.
//
// Atomic replacement relies on the filesystem's rename guarantees. On
// volumes without atomic rename (some network filesystems), crash
// consistency degrades to best effort.
package store
