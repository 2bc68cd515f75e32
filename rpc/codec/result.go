package codec

import (
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/common"
)

// Result is an optional value received from the store. A nil result (IsNil)
// means "no such key or element" and is distinct from an empty value.
type Result struct {
	raw   []byte
	isNil bool
	codec *Codec
}

// NewResult wraps a wire value. raw == nil produces a nil result.
func NewResult(raw []byte, c *Codec) Result {
	return Result{raw: raw, isNil: raw == nil, codec: c}
}

// NilResult returns a nil result
func NilResult(c *Codec) Result {
	return Result{isNil: true, codec: c}
}

// NewResults wraps a list of wire values, keeping nil entries in position
func NewResults(raw [][]byte, c *Codec) []Result {
	results := make([]Result, len(raw))
	for i, r := range raw {
		results[i] = NewResult(r, c)
	}
	return results
}

// IsNil reports whether the store returned no value
func (r Result) IsNil() bool {
	return r.isNil
}

// Bytes returns the raw value (nil for a nil result, never nil otherwise)
func (r Result) Bytes() []byte {
	if r.isNil {
		return nil
	}
	if r.raw == nil {
		return []byte{}
	}
	return r.raw
}

// Text returns the value as text ("" for a nil result)
func (r Result) Text() string {
	return string(r.raw)
}

// Number parses the value as a signed 64-bit integer
func (r Result) Number() (int64, error) {
	if r.isNil {
		return 0, common.Errorf(common.ErrCFormat, "cannot convert nil result to number")
	}
	return ParseNumber(r.raw)
}

// Object deserializes the value into target (a pointer)
func (r Result) Object(target any) error {
	if r.isNil {
		return common.Errorf(common.ErrCFormat, "cannot decode nil result into %T", target)
	}
	_, err := r.codec.DecodeObject(r.raw, target)
	return err
}

// Value converts the result into a value of the given shape.
// For ShapeObject use Object.
func (r Result) Value(shape Shape) (Value, error) {
	if r.isNil {
		return Value{}, common.Errorf(common.ErrCFormat, "cannot convert nil result to %s", shape)
	}
	return r.codec.FromBytes(r.raw, shape)
}

func (r Result) String() string {
	if r.isNil {
		return "(nil)"
	}
	return fmt.Sprintf("%q", r.raw)
}

// Strings converts a list of results into strings. Nil results become "".
func Strings(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text()
	}
	return out
}
