package codec

import (
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"strconv"
)

// Codec maps values to the byte sequences carried on the wire and back.
// The object shape is delegated to the configured serializer.
//
// Thread-safety: A Codec is immutable and safe for concurrent use.
type Codec struct {
	serializer serializer.IObjectSerializer
}

// NewCodec creates a codec. s may be nil, in which case object values are rejected.
func NewCodec(s serializer.IObjectSerializer) *Codec {
	return &Codec{serializer: s}
}

// Serializer returns the serializer used for object values (may be nil)
func (c *Codec) Serializer() serializer.IObjectSerializer {
	return c.serializer
}

// ToBytes standardizes a value to its wire representation.
// Bytes are passed through, text is UTF-8, numbers are decimal text.
func (c *Codec) ToBytes(v Value) ([]byte, error) {
	switch v.shape {
	case ShapeBytes:
		if v.raw == nil {
			return []byte{}, nil
		}
		return v.raw, nil
	case ShapeText:
		return []byte(v.text), nil
	case ShapeNumber:
		return strconv.AppendInt(nil, v.num, 10), nil
	case ShapeObject:
		if c.serializer == nil {
			return nil, common.NewError(common.ErrCFormat, "no serializer configured for object values")
		}
		b, err := c.serializer.Serialize(v.obj)
		if err != nil {
			return nil, &common.Error{Code: common.ErrCFormat, Msg: fmt.Sprintf("%s serialize %T", c.serializer.Name(), v.obj), Err: err}
		}
		return b, nil
	default:
		return nil, common.Errorf(common.ErrCFormat, "unknown value shape %d", v.shape)
	}
}

// ToBytesAll encodes all values in order
func (c *Codec) ToBytesAll(values []Value) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, v := range values {
		b, err := c.ToBytes(v)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// FromBytes converts a wire representation into a value of the given shape.
// ShapeObject needs a target and is handled by DecodeObject.
func (c *Codec) FromBytes(b []byte, shape Shape) (Value, error) {
	switch shape {
	case ShapeBytes:
		if b == nil {
			b = []byte{}
		}
		return Bytes(b), nil
	case ShapeText:
		return Text(string(b)), nil
	case ShapeNumber:
		n, err := ParseNumber(b)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case ShapeObject:
		return Value{}, common.NewError(common.ErrCFormat, "object values need a target, use DecodeObject")
	default:
		return Value{}, common.Errorf(common.ErrCFormat, "unknown value shape %d", shape)
	}
}

// DecodeObject deserializes b into target (a pointer) and returns it as an object value
func (c *Codec) DecodeObject(b []byte, target any) (Value, error) {
	if c.serializer == nil {
		return Value{}, common.NewError(common.ErrCFormat, "no serializer configured for object values")
	}
	if err := c.serializer.Deserialize(b, target); err != nil {
		return Value{}, &common.Error{Code: common.ErrCFormat, Msg: fmt.Sprintf("%s deserialize into %T", c.serializer.Name(), target), Err: err}
	}
	return Object(target), nil
}

// ParseNumber parses the decimal representation of a signed 64-bit integer.
// Anything else (including surrounding whitespace or a leading '+') is a format error.
func ParseNumber(b []byte) (int64, error) {
	if len(b) == 0 || b[0] == '+' {
		return 0, common.Errorf(common.ErrCFormat, "value %q is not an integer", b)
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, &common.Error{Code: common.ErrCFormat, Msg: fmt.Sprintf("value %q is not an integer", b), Err: err}
	}
	return n, nil
}
