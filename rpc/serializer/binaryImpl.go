package serializer

import (
	"encoding"
	"fmt"
)

// NewBinarySerializer creates a new serializer that delegates to the value's own
// binary format. Values must implement encoding.BinaryMarshaler and targets
// encoding.BinaryUnmarshaler, so no reflection is involved.
func NewBinarySerializer() IObjectSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IObjectSerializer using encoding.BinaryMarshaler
type binarySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IObjectSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("type %T does not implement encoding.BinaryMarshaler", v)
	}
	return m.MarshalBinary()
}

func (b binarySerializerImpl) Deserialize(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("type %T does not implement encoding.BinaryUnmarshaler", v)
	}
	return u.UnmarshalBinary(data)
}

func (b binarySerializerImpl) Name() string {
	return "binary"
}
