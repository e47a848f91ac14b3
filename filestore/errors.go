package filestore

import (
	"context"
	"errors"

	"github.com/oshokin/xk6-filestore/filestore/store"
)

var _ error = (*Error)(nil)

// ErrorName represents the name of an error surfaced to JavaScript.
type ErrorName string

const (
	// DeserializationError is emitted when the stored payload cannot be decoded
	// (corruption, truncation, or a serialization format mismatch).
	DeserializationError ErrorName = "DeserializationError"

	// IOError is emitted when an underlying storage operation
	// (write, flush, rename, read, remove, stat) fails.
	IOError ErrorName = "IOError"

	// NotFoundError is emitted when get() or stat() runs before any value
	// has been saved to the target path.
	NotFoundError ErrorName = "NotFoundError"

	// OperationCancelledError is emitted when the VU context is cancelled
	// while an operation is in flight (e.g. the test run is aborted).
	OperationCancelledError ErrorName = "OperationCancelledError"

	// OptionsConflictError is emitted when openFileStore() is called for a path
	// that is already open with different options.
	OptionsConflictError ErrorName = "OptionsConflictError"

	// OptionsError is emitted when openFileStore() options cannot be parsed or
	// validated (unknown serialization, unusable path, bad size value).
	OptionsError ErrorName = "OptionsError"

	// SerializationError is emitted when the value cannot be encoded;
	// nothing is written to disk in that case.
	SerializationError ErrorName = "SerializationError"

	// StoreNotOpenError is emitted when the store is used before
	// openFileStore() or after close().
	StoreNotOpenError ErrorName = "StoreNotOpenError"

	// UnsupportedValueError is emitted when the serializer rejects the value's type.
	UnsupportedValueError ErrorName = "UnsupportedValueError"

	// ValueTooLargeError is emitted when the serialized payload exceeds the
	// configured maxValueSize.
	ValueTooLargeError ErrorName = "ValueTooLargeError"
)

// Error represents a custom error emitted by the filestore module.
type Error struct {
	// Name contains one of the strings associated with an error name.
	Name ErrorName `json:"name"`

	// Message represents message or description associated with the given error name.
	Message string `json:"message"`
}

// NewError returns a new Error instance.
func NewError(name ErrorName, message string) *Error {
	return &Error{
		Name:    name,
		Message: message,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Name) + ": " + e.Message
}

// classifyError downgrades internal Go errors to structured filestore errors for JS.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var moduleErr *Error
	if errors.As(err, &moduleErr) {
		return moduleErr
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return NewError(NotFoundError, err.Error())
	case errors.Is(err, store.ErrSerializeFailed):
		return NewError(SerializationError, err.Error())
	case errors.Is(err, store.ErrDeserializeFailed):
		return NewError(DeserializationError, err.Error())
	case errors.Is(err, store.ErrUnsupportedValueType):
		return NewError(UnsupportedValueError, err.Error())
	case errors.Is(err, store.ErrValueTooLarge):
		return NewError(ValueTooLargeError, err.Error())
	case errors.Is(err, store.ErrStoreOptionsConflict):
		return NewError(OptionsConflictError, err.Error())
	case errors.Is(err, store.ErrStoreOptionsInvalid),
		errors.Is(err, store.ErrInvalidSerialization),
		errors.Is(err, store.ErrPathResolveFailed),
		errors.Is(err, store.ErrPathIsDirectory):
		return NewError(OptionsError, err.Error())
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return NewError(OperationCancelledError, err.Error())
	case errors.Is(err, store.ErrTempFileFailed),
		errors.Is(err, store.ErrReplaceFailed),
		errors.Is(err, store.ErrReadFailed),
		errors.Is(err, store.ErrRemoveFailed),
		errors.Is(err, store.ErrStatFailed),
		errors.Is(err, store.ErrParentDirectoryCreateFailed):
		return NewError(IOError, err.Error())
	}

	return err
}
