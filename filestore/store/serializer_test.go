package store

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestJSONSerializer_RoundTrip(t *testing.T) {
	t.Parallel()

	serializer := NewJSONSerializer()

	value := map[string]any{
		"name":   "John",
		"id":     float64(1000),
		"tags":   []any{"alpha", "beta"},
		"active": true,
	}

	data, err := serializer.Serialize(value)
	if err != nil {
		t.Fatalf("Serialize() returned an error: %v", err)
	}

	// Indented output keeps the target file human-readable.
	if !strings.Contains(string(data), "\n  ") {
		t.Fatalf("Serialize() should produce indented JSON, got %q", data)
	}

	got, err := serializer.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize() returned an error: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Fatalf("round trip mismatch, got %#v, want %#v", got, value)
	}
}

func TestJSONSerializer_SerializeRejectsUnrepresentableValues(t *testing.T) {
	t.Parallel()

	serializer := NewJSONSerializer()

	// NaN has no JSON representation.
	_, err := serializer.Serialize(math.NaN())
	if !errors.Is(err, ErrSerializeFailed) {
		t.Fatalf("Serialize(NaN) should return ErrSerializeFailed, got %v", err)
	}
}

func TestJSONSerializer_DeserializeRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	serializer := NewJSONSerializer()

	for _, payload := range [][]byte{
		[]byte(""),
		[]byte("{truncated"),
		[]byte("\x00\x01\x02"),
	} {
		if _, err := serializer.Deserialize(payload); !errors.Is(err, ErrDeserializeFailed) {
			t.Fatalf("Deserialize(%q) should return ErrDeserializeFailed, got %v", payload, err)
		}
	}
}

func TestStringSerializer(t *testing.T) {
	t.Parallel()

	serializer := NewStringSerializer()

	data, err := serializer.Serialize("raw token")
	if err != nil {
		t.Fatalf("Serialize() returned an error: %v", err)
	}
	if string(data) != "raw token" {
		t.Fatalf("Serialize() = %q, want %q", data, "raw token")
	}

	data, err = serializer.Serialize([]byte{0xde, 0xad})
	if err != nil {
		t.Fatalf("Serialize() with a byte slice returned an error: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("Serialize() returned %d bytes, want 2", len(data))
	}

	got, err := serializer.Deserialize([]byte("raw token"))
	if err != nil {
		t.Fatalf("Deserialize() returned an error: %v", err)
	}
	if got != "raw token" {
		t.Fatalf("Deserialize() = %v, want %q", got, "raw token")
	}
}

func TestStringSerializer_RejectsStructuredValues(t *testing.T) {
	t.Parallel()

	serializer := NewStringSerializer()

	_, err := serializer.Serialize(map[string]any{"name": "John"})
	if !errors.Is(err, ErrUnsupportedValueType) {
		t.Fatalf("Serialize() with a map should return ErrUnsupportedValueType, got %v", err)
	}
}
