// Package codec maps application level values to the byte sequences carried on
// the wire, and wire values back to application level values.
//
// Four input shapes are accepted, all reducible to bytes:
//
//	Shape        Constructor       Wire form
//	ShapeBytes   codec.Bytes(b)    b unchanged
//	ShapeText    codec.Text(s)     the bytes of s (UTF-8)
//	ShapeNumber  codec.Number(n)   decimal text, e.g. "-42"
//	ShapeObject  codec.Object(v)   opaque output of the configured serializer
//
// The shape is chosen by the caller when building the value, never guessed from
// the Go type at runtime. For every value v the round trip
// FromBytes(ToBytes(v), v.Shape()) (or DecodeObject for objects) yields a value
// equal to v, including the empty byte sequence and the empty text.
//
// Values coming back from the store are wrapped in a Result, which keeps the
// distinction between "absent" (IsNil) and "present but empty" and converts
// lazily into the shape the caller asks for:
//
//	res, _ := store.Get("counter")
//	if !res.IsNil() {
//	  n, err := res.Number()
//	}
//
// Number conversion of bytes that are not a well-formed integer fails with an
// error of code common.ErrCFormat.
package codec
