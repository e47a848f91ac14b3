package store

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Serializer encodes values to bytes for persistence and decodes them back.
// The engine treats the produced payload as opaque end to end; only the
// serializer ever interprets its contents.
type Serializer interface {
	// Serialize encodes the value into a byte payload.
	Serialize(value any) ([]byte, error)

	// Deserialize decodes a byte payload back into a value.
	Deserialize(data []byte) (any, error)
}

// JSONSerializer encodes values as indented JSON. It is the default format:
// the target file stays human-readable and diffable, which matters for the
// small tokens and cached objects this store is meant for.
type JSONSerializer struct{}

// NewJSONSerializer returns a serializer that encodes values as JSON.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize encodes the value as indented JSON.
func (s *JSONSerializer) Serialize(value any) ([]byte, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}

	return data, nil
}

// Deserialize decodes a JSON payload into the generic JSON value shapes
// (map[string]any, []any, string, float64, bool, nil).
func (s *JSONSerializer) Deserialize(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}

	return value, nil
}

// StringSerializer stores string values as their raw bytes.
// Useful when the saved value is already a serialized document
// (a JWT, a PEM block) and double encoding is unwanted.
type StringSerializer struct{}

// NewStringSerializer returns a serializer that passes string bytes through unchanged.
func NewStringSerializer() *StringSerializer {
	return &StringSerializer{}
}

// Serialize accepts string or []byte values and rejects everything else.
func (s *StringSerializer) Serialize(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		// Copy to avoid aliasing the caller's buffer after Save returns.
		return slices.Clone(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValueType, value)
	}
}

// Deserialize returns the payload as a string.
func (s *StringSerializer) Deserialize(data []byte) (any, error) {
	return string(data), nil
}
