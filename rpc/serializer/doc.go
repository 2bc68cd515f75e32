// Package serializer provides the pluggable serialization schemes used for the
// "native object" value shape. A value stored as an object is turned into an
// opaque byte sequence by one of the serializers of this package and written to
// the store like any other value. The codec (see package codec) never looks into
// these bytes.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different trade-offs
//
// Key Components:
//
//   - IObjectSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Delegates to encoding.BinaryMarshaler and
//     encoding.BinaryUnmarshaler. The fastest and most compact option for types
//     that define their own binary layout.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding. Works with
//     any exported struct, but the output can only be read by Go programs.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, readable by other
//     clients of the same store and by humans (e.g. with redis-cli).
//
//   - yamlSerializerImpl: Implementation using YAML (via ghodss/yaml). Uses json
//     struct tags. Mostly useful for configuration-like documents.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and handed to the codec:
//
//	  c := codec.NewCodec(serializer.NewJSONSerializer())
//	  raw, err := c.ToBytes(codec.Object(user))
package serializer
