// Package filestore exposes a crash-consistent, single-value file store to
// k6 scripts.
//
// High-level behavior:
//   - openFileStore() binds a target file to a serialization format and
//     returns a per-VU handle; all VUs opening the same resolved path share
//     one underlying store.
//   - save() replaces the file's content atomically (staged write, fsync,
//     rename), so an interrupted test run never leaves a half-written file.
//   - The stored value persists across runs; save/get/exists/remove/stat are
//     promise-based and run off the VU event loop.
package filestore
