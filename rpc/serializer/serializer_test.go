package serializer

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IObjectSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
	"YAML": NewYAMLSerializer,
}

type testUser struct {
	Name   string            `json:"name"`
	Age    int               `json:"age"`
	Tags   []string          `json:"tags"`
	Labels map[string]string `json:"labels"`
}

// point implements encoding.BinaryMarshaler for the binary serializer
type point struct {
	X, Y int32
}

func (p point) MarshalBinary() ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[:4], uint32(p.X))
	binary.BigEndian.PutUint32(b[4:], uint32(p.Y))
	return b, nil
}

func (p *point) UnmarshalBinary(b []byte) error {
	if len(b) != 8 {
		return fmt.Errorf("point: expected 8 bytes, got %d", len(b))
	}
	p.X = int32(binary.BigEndian.Uint32(b[:4]))
	p.Y = int32(binary.BigEndian.Uint32(b[4:]))
	return nil
}

// testValues creates a set of test values with different fields filled
func testValues() []testUser {
	return []testUser{
		// zero value
		{},

		// only scalars
		{Name: "alice", Age: 42},

		// everything filled
		{
			Name:   "bob",
			Age:    -1,
			Tags:   []string{"a", "b", ""},
			Labels: map[string]string{"team": "infra", "": "empty-key"},
		},

		// unicode
		{Name: "ünïcødé ✓", Tags: []string{"日本"}},
	}
}

// TestSerializerRoundTrip tests that values can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	values := testValues()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, v := range values {
				// Serialize
				data, err := serializer.Serialize(v)
				if err != nil {
					t.Errorf("Failed to serialize value %d: %v", i, err)
					continue
				}

				// Deserialize
				var result testUser
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize value %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(v, result) {
					t.Errorf("Value %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v", i, v, result)
				}
			}
		})
	}
}

// TestSerializerNames checks that each serializer reports its scheme
func TestSerializerNames(t *testing.T) {
	expected := map[string]string{
		"JSON": "json",
		"GOB":  "gob",
		"YAML": "yaml",
	}
	for name, factory := range testSerializers {
		if got := factory().Name(); got != expected[name] {
			t.Errorf("%s: Name() = %q, want %q", name, got, expected[name])
		}
	}
	if got := NewBinarySerializer().Name(); got != "binary" {
		t.Errorf("binary: Name() = %q, want %q", got, "binary")
	}
}

// TestBinarySerializer tests the BinaryMarshaler based serializer
func TestBinarySerializer(t *testing.T) {
	serializer := NewBinarySerializer()

	p := point{X: -7, Y: 1 << 20}
	data, err := serializer.Serialize(p)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(data))
	}

	var result point
	if err := serializer.Deserialize(data, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if result != p {
		t.Errorf("round trip mismatch: expected %+v, got %+v", p, result)
	}
}

// TestBinarySerializerUnsupported tests how the binary serializer handles unsupported types
func TestBinarySerializerUnsupported(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name string
		fn   func() error
	}{
		{
			name: "Serialize plain struct",
			fn: func() error {
				_, err := serializer.Serialize(testUser{Name: "x"})
				return err
			},
		},
		{
			name: "Deserialize into non-pointer",
			fn: func() error {
				return serializer.Deserialize([]byte{0, 0, 0, 0, 0, 0, 0, 0}, point{})
			},
		},
		{
			name: "Deserialize short data",
			fn: func() error {
				var p point
				return serializer.Deserialize([]byte{1, 2, 3}, &p)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}
