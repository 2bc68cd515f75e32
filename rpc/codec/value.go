package codec

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Shapes
// --------------------------------------------------------------------------

// Shape is the application level form of a value.
type Shape uint8

const (
	ShapeBytes  Shape = iota // Raw bytes, stored as-is.
	ShapeText                // UTF-8 text.
	ShapeNumber              // Signed 64-bit integer, stored as decimal text.
	ShapeObject              // Native object, stored in the configured serializer's format.
)

func (s Shape) String() string {
	switch s {
	case ShapeBytes:
		return "bytes"
	case ShapeText:
		return "text"
	case ShapeNumber:
		return "number"
	case ShapeObject:
		return "object"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is a tagged variant over the four shapes. Exactly one payload field is
// meaningful, selected by shape. The zero Value is an empty byte sequence.
type Value struct {
	shape Shape
	raw   []byte
	text  string
	num   int64
	obj   any
}

// Bytes creates a value of ShapeBytes
func Bytes(b []byte) Value {
	return Value{shape: ShapeBytes, raw: b}
}

// Text creates a value of ShapeText
func Text(s string) Value {
	return Value{shape: ShapeText, text: s}
}

// Number creates a value of ShapeNumber
func Number(n int64) Value {
	return Value{shape: ShapeNumber, num: n}
}

// Object creates a value of ShapeObject. v is handed to the serializer unchanged.
func Object(v any) Value {
	return Value{shape: ShapeObject, obj: v}
}

// Shape returns the shape of the value
func (v Value) Shape() Shape {
	return v.shape
}

// AsBytes returns the payload of a ShapeBytes value (nil for other shapes)
func (v Value) AsBytes() []byte {
	return v.raw
}

// AsText returns the payload of a ShapeText value ("" for other shapes)
func (v Value) AsText() string {
	return v.text
}

// AsNumber returns the payload of a ShapeNumber value (0 for other shapes)
func (v Value) AsNumber() int64 {
	return v.num
}

// AsObject returns the payload of a ShapeObject value (nil for other shapes)
func (v Value) AsObject() any {
	return v.obj
}

func (v Value) String() string {
	switch v.shape {
	case ShapeText:
		return strconv.Quote(v.text)
	case ShapeNumber:
		return strconv.FormatInt(v.num, 10)
	case ShapeObject:
		return fmt.Sprintf("object(%+v)", v.obj)
	default:
		return fmt.Sprintf("bytes(%q)", v.raw)
	}
}

// Texts converts strings into text values
func Texts(s ...string) []Value {
	values := make([]Value, len(s))
	for i, str := range s {
		values[i] = Text(str)
	}
	return values
}
