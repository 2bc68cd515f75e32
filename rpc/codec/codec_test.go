package codec

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"math"
	"reflect"
	"testing"
)

type testDoc struct {
	ID    int      `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// TestRoundTripPrimitives tests the round trip law for bytes, text and numbers
func TestRoundTripPrimitives(t *testing.T) {
	c := NewCodec(nil)

	tests := []struct {
		name  string
		value Value
	}{
		{"empty bytes", Bytes([]byte{})},
		{"binary bytes", Bytes([]byte{0x00, 0xff, '\r', '\n', 0x80})},
		{"empty text", Text("")},
		{"ascii text", Text("hello world")},
		{"unicode text", Text("grüße, 世界")},
		{"text with crlf", Text("line1\r\nline2")},
		{"invalid utf8 text", Text("\xff\xfe")},
		{"zero", Number(0)},
		{"negative", Number(-42)},
		{"max int64", Number(math.MaxInt64)},
		{"min int64", Number(math.MinInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := c.ToBytes(tt.value)
			if err != nil {
				t.Fatalf("ToBytes() error = %v", err)
			}
			got, err := c.FromBytes(b, tt.value.Shape())
			if err != nil {
				t.Fatalf("FromBytes() error = %v", err)
			}
			if got.Shape() != tt.value.Shape() {
				t.Fatalf("shape = %s, want %s", got.Shape(), tt.value.Shape())
			}
			switch tt.value.Shape() {
			case ShapeBytes:
				if !bytes.Equal(got.AsBytes(), tt.value.AsBytes()) {
					t.Errorf("bytes = %q, want %q", got.AsBytes(), tt.value.AsBytes())
				}
			case ShapeText:
				if got.AsText() != tt.value.AsText() {
					t.Errorf("text = %q, want %q", got.AsText(), tt.value.AsText())
				}
			case ShapeNumber:
				if got.AsNumber() != tt.value.AsNumber() {
					t.Errorf("number = %d, want %d", got.AsNumber(), tt.value.AsNumber())
				}
			}
		})
	}
}

// TestRoundTripObjects tests the round trip law for objects with every serializer
func TestRoundTripObjects(t *testing.T) {
	serializers := map[string]serializer.IObjectSerializer{
		"json": serializer.NewJSONSerializer(),
		"gob":  serializer.NewGOBSerializer(),
		"yaml": serializer.NewYAMLSerializer(),
	}
	docs := []testDoc{
		{ID: 1, Title: "first", Tags: []string{"a", "b"}},
		{ID: -3, Title: ""},
	}

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			c := NewCodec(s)
			for i, doc := range docs {
				b, err := c.ToBytes(Object(doc))
				if err != nil {
					t.Fatalf("doc %d: ToBytes() error = %v", i, err)
				}
				var decoded testDoc
				v, err := c.DecodeObject(b, &decoded)
				if err != nil {
					t.Fatalf("doc %d: DecodeObject() error = %v", i, err)
				}
				if v.Shape() != ShapeObject {
					t.Errorf("doc %d: shape = %s, want object", i, v.Shape())
				}
				if !reflect.DeepEqual(doc, decoded) {
					t.Errorf("doc %d: got %+v, want %+v", i, decoded, doc)
				}
			}
		})
	}
}

// TestWireForms checks the exact bytes produced per shape
func TestWireForms(t *testing.T) {
	c := NewCodec(serializer.NewJSONSerializer())

	tests := []struct {
		value Value
		want  string
	}{
		{Bytes([]byte("raw")), "raw"},
		{Bytes(nil), ""},
		{Text("text"), "text"},
		{Number(-1234), "-1234"},
		{Object(map[string]int{"a": 1}), `{"a":1}`},
	}

	for _, tt := range tests {
		got, err := c.ToBytes(tt.value)
		if err != nil {
			t.Errorf("ToBytes(%s) error = %v", tt.value, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("ToBytes(%s) = %q, want %q", tt.value, got, tt.want)
		}
		if got == nil {
			t.Errorf("ToBytes(%s) returned nil, want non-nil", tt.value)
		}
	}
}

// TestNumberFormatErrors checks that malformed integers are rejected
func TestNumberFormatErrors(t *testing.T) {
	c := NewCodec(nil)

	for _, input := range []string{"", "abc", "1.5", " 1", "1 ", "+1", "99999999999999999999", "0x10"} {
		_, err := c.FromBytes([]byte(input), ShapeNumber)
		if err == nil {
			t.Errorf("FromBytes(%q, number) expected error", input)
			continue
		}
		if !errors.Is(err, common.ErrFormat) {
			t.Errorf("FromBytes(%q, number) error = %v, want format error", input, err)
		}
	}
}

// TestObjectWithoutSerializer checks the error path for a codec without serializer
func TestObjectWithoutSerializer(t *testing.T) {
	c := NewCodec(nil)

	if _, err := c.ToBytes(Object(testDoc{})); !errors.Is(err, common.ErrFormat) {
		t.Errorf("ToBytes(object) error = %v, want format error", err)
	}
	if _, err := c.FromBytes([]byte("{}"), ShapeObject); !errors.Is(err, common.ErrFormat) {
		t.Errorf("FromBytes(object) error = %v, want format error", err)
	}
	var doc testDoc
	if _, err := c.DecodeObject([]byte("{}"), &doc); !errors.Is(err, common.ErrFormat) {
		t.Errorf("DecodeObject() error = %v, want format error", err)
	}
}

// TestResult checks nil handling and conversions of results
func TestResult(t *testing.T) {
	c := NewCodec(serializer.NewJSONSerializer())

	nilRes := NewResult(nil, c)
	if !nilRes.IsNil() {
		t.Errorf("NewResult(nil) should be nil")
	}
	if nilRes.Bytes() != nil {
		t.Errorf("nil result Bytes() = %v, want nil", nilRes.Bytes())
	}
	nilConversions := map[string]func() error{
		"Number": func() error { _, err := nilRes.Number(); return err },
		"Object": func() error { var doc testDoc; return nilRes.Object(&doc) },
		"Value":  func() error { _, err := nilRes.Value(ShapeText); return err },
	}
	for name, convert := range nilConversions {
		if err := convert(); common.CodeOf(err) != common.ErrCFormat {
			t.Errorf("nil result %s() error = %v, want format error", name, err)
		}
	}

	empty := NewResult([]byte{}, c)
	if empty.IsNil() {
		t.Errorf("empty result should not be nil")
	}
	if b := empty.Bytes(); b == nil || len(b) != 0 {
		t.Errorf("empty result Bytes() = %v, want empty non-nil", b)
	}

	num := NewResult([]byte("17"), c)
	if n, err := num.Number(); err != nil || n != 17 {
		t.Errorf("Number() = %d, %v, want 17, nil", n, err)
	}
	if v, err := num.Value(ShapeText); err != nil || v.AsText() != "17" {
		t.Errorf("Value(text) = %v, %v, want \"17\"", v, err)
	}

	obj := NewResult([]byte(`{"id":7,"title":"x","tags":null}`), c)
	var doc testDoc
	if err := obj.Object(&doc); err != nil {
		t.Fatalf("Object() error = %v", err)
	}
	if doc.ID != 7 || doc.Title != "x" {
		t.Errorf("Object() = %+v", doc)
	}

	results := NewResults([][]byte{[]byte("a"), nil, []byte("")}, c)
	if len(results) != 3 || results[0].IsNil() || !results[1].IsNil() || results[2].IsNil() {
		t.Errorf("NewResults() did not keep nil positions: %v", results)
	}
	if got := Strings(results); !reflect.DeepEqual(got, []string{"a", "", ""}) {
		t.Errorf("Strings() = %q", got)
	}
}

func TestToBytesAll(t *testing.T) {
	c := NewCodec(serializer.NewJSONSerializer())

	got, err := c.ToBytesAll([]Value{Text("a"), Number(-3), Bytes([]byte{}), Object(map[string]int{"n": 1})})
	if err != nil {
		t.Fatalf("ToBytesAll() error = %v", err)
	}
	want := [][]byte{[]byte("a"), []byte("-3"), {}, []byte(`{"n":1}`)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToBytesAll() = %q, want %q", got, want)
	}

	// the first failing value aborts the encoding
	if _, err := NewCodec(nil).ToBytesAll([]Value{Text("a"), Object(1)}); !errors.Is(err, common.ErrFormat) {
		t.Errorf("ToBytesAll() error = %v, want format error", err)
	}
}
