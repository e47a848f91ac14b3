package store

import "errors"

var (
	// ErrDeserializeFailed indicates the committed payload could not be decoded
	// (corruption, truncation by an external writer, or a format mismatch).
	ErrDeserializeFailed = errors.New("deserialize value failed")
	// ErrInvalidSerialization is returned when an unknown serialization format is requested.
	ErrInvalidSerialization = errors.New("invalid serialization format")
	// ErrNotFound is returned by Get when no value has ever been saved to the target path.
	// It is distinct from I/O failures so callers can treat "never saved" as ordinary.
	ErrNotFound = errors.New("no value saved at path")
	// ErrParentDirectoryCreateFailed indicates creating the target's parent directory failed.
	ErrParentDirectoryCreateFailed = errors.New("parent directory create failed")
	// ErrPathIsDirectory is returned when the target path points at a directory.
	ErrPathIsDirectory = errors.New("target path is a directory")
	// ErrPathResolveFailed indicates target path resolution failed.
	ErrPathResolveFailed = errors.New("target path resolve failed")
	// ErrReadFailed indicates reading the target file failed for a reason other than absence.
	ErrReadFailed = errors.New("target file read failed")
	// ErrRemoveFailed indicates removing the target file failed.
	ErrRemoveFailed = errors.New("target file remove failed")
	// ErrReplaceFailed indicates the atomic rename of the staging file over the target failed.
	// The target keeps its previous content when this is returned.
	ErrReplaceFailed = errors.New("target file replace failed")
	// ErrSerializeFailed indicates the value could not be encoded.
	// It is surfaced before any disk write is attempted.
	ErrSerializeFailed = errors.New("serialize value failed")
	// ErrStatFailed indicates statting the target file failed.
	ErrStatFailed = errors.New("target file stat failed")
	// ErrStoreOptionsConflict is returned when a store is reopened with different options.
	ErrStoreOptionsConflict = errors.New("store is already open with different options")
	// ErrStoreOptionsInvalid is returned when the provided options cannot be parsed.
	ErrStoreOptionsInvalid = errors.New("invalid store options")
	// ErrTempFileFailed indicates writing or flushing the staging file failed.
	// The target keeps its previous content when this is returned.
	ErrTempFileFailed = errors.New("staging file write failed")
	// ErrUnsupportedValueType is returned when a serializer rejects a value type.
	ErrUnsupportedValueType = errors.New("unsupported value type (want []byte or string)")
	// ErrValueTooLarge is returned when the serialized payload exceeds the configured size cap.
	ErrValueTooLarge = errors.New("serialized value exceeds size limit")
)
