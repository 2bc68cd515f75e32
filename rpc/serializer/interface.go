package serializer

// IObjectSerializer is the interface for all native object serializers.
// The value codec treats the produced bytes as opaque and stores them as-is.
type IObjectSerializer interface {
	// Serialize serializes a value into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(v any) ([]byte, error)
	// Deserialize deserializes a byte array into a value
	// It takes a byte array and a pointer to the target value as parameters
	// It returns an error if any
	Deserialize(b []byte, v any) error
	// Name returns the name of the serialization scheme (e.g. "json")
	Name() string
}
