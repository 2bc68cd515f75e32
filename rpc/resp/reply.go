package resp

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Reply Type Definition
// --------------------------------------------------------------------------

// ReplyType identifies which variant of a Reply is populated.
type ReplyType uint8

const (
	ReplyTStatus    ReplyType = iota // +<line>
	ReplyTError                      // -<line>
	ReplyTInteger                    // :<int>
	ReplyTBulk                       // $<len> <bytes> or $-1
	ReplyTMultiBulk                  // *<count> <elements> or *-1
)

func (t ReplyType) String() string {
	switch t {
	case ReplyTStatus:
		return "status"
	case ReplyTError:
		return "error"
	case ReplyTInteger:
		return "integer"
	case ReplyTBulk:
		return "bulk"
	case ReplyTMultiBulk:
		return "multi-bulk"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Prefix returns the type indicator byte of the wire format
func (t ReplyType) Prefix() byte {
	switch t {
	case ReplyTStatus:
		return '+'
	case ReplyTError:
		return '-'
	case ReplyTInteger:
		return ':'
	case ReplyTBulk:
		return '$'
	default:
		return '*'
	}
}

// --------------------------------------------------------------------------
// Reply Structure
// --------------------------------------------------------------------------

// Reply is one decoded reply frame. Which fields are used depends on Type:
//
//	status, error: Str
//	integer:       Int
//	bulk:          Bulk, or Nil for $-1 (an empty bulk has Bulk == []byte{})
//	multi-bulk:    Elems, or Nil for *-1
type Reply struct {
	Type  ReplyType
	Str   string
	Int   int64
	Bulk  []byte
	Elems []*Reply
	Nil   bool
}

// NewStatusReply creates a status reply
func NewStatusReply(s string) *Reply {
	return &Reply{Type: ReplyTStatus, Str: s}
}

// NewErrorReply creates an error reply
func NewErrorReply(s string) *Reply {
	return &Reply{Type: ReplyTError, Str: s}
}

// NewIntegerReply creates an integer reply
func NewIntegerReply(n int64) *Reply {
	return &Reply{Type: ReplyTInteger, Int: n}
}

// NewBulkReply creates a bulk reply. b == nil creates the nil bulk reply.
func NewBulkReply(b []byte) *Reply {
	if b == nil {
		return &Reply{Type: ReplyTBulk, Nil: true}
	}
	return &Reply{Type: ReplyTBulk, Bulk: b}
}

// NewMultiBulkReply creates a multi-bulk reply. elems == nil creates the nil multi-bulk reply.
func NewMultiBulkReply(elems []*Reply) *Reply {
	if elems == nil {
		return &Reply{Type: ReplyTMultiBulk, Nil: true}
	}
	return &Reply{Type: ReplyTMultiBulk, Elems: elems}
}

// NewBulkArrayReply creates a multi-bulk reply whose elements are bulk replies (nil entries stay nil)
func NewBulkArrayReply(items [][]byte) *Reply {
	elems := make([]*Reply, len(items))
	for i, item := range items {
		elems[i] = NewBulkReply(item)
	}
	return NewMultiBulkReply(elems)
}

// IsError reports whether the reply is an error reply
func (r *Reply) IsError() bool {
	return r.Type == ReplyTError
}

// BulkArray flattens a multi-bulk reply of bulk elements. Nil elements stay nil.
// Integer and status elements are converted to their textual form.
func (r *Reply) BulkArray() ([][]byte, error) {
	if r.Type != ReplyTMultiBulk {
		return nil, fmt.Errorf("expected multi-bulk reply, got %s", r.Type)
	}
	if r.Nil {
		return nil, nil
	}
	out := make([][]byte, len(r.Elems))
	for i, e := range r.Elems {
		switch e.Type {
		case ReplyTBulk:
			if !e.Nil {
				out[i] = e.Bulk
			}
		case ReplyTInteger:
			out[i] = strconv.AppendInt(nil, e.Int, 10)
		case ReplyTStatus:
			out[i] = []byte(e.Str)
		default:
			return nil, fmt.Errorf("unexpected %s element at position %d", e.Type, i)
		}
	}
	return out, nil
}

// Encode serializes the reply into its wire format
func (r *Reply) Encode() []byte {
	return r.AppendTo(nil)
}

// AppendTo appends the wire format of the reply to buf
func (r *Reply) AppendTo(buf []byte) []byte {
	buf = append(buf, r.Type.Prefix())
	switch r.Type {
	case ReplyTStatus, ReplyTError:
		buf = append(buf, r.Str...)
		buf = append(buf, CRLF...)
	case ReplyTInteger:
		buf = strconv.AppendInt(buf, r.Int, 10)
		buf = append(buf, CRLF...)
	case ReplyTBulk:
		if r.Nil {
			return append(buf, "-1"+CRLF...)
		}
		buf = strconv.AppendInt(buf, int64(len(r.Bulk)), 10)
		buf = append(buf, CRLF...)
		buf = append(buf, r.Bulk...)
		buf = append(buf, CRLF...)
	case ReplyTMultiBulk:
		if r.Nil {
			return append(buf, "-1"+CRLF...)
		}
		buf = strconv.AppendInt(buf, int64(len(r.Elems)), 10)
		buf = append(buf, CRLF...)
		for _, e := range r.Elems {
			buf = e.AppendTo(buf)
		}
	}
	return buf
}

// String renders the reply the way command line clients usually do
func (r *Reply) String() string {
	var sb strings.Builder
	r.render(&sb, "")
	return sb.String()
}

func (r *Reply) render(sb *strings.Builder, indent string) {
	switch r.Type {
	case ReplyTStatus:
		sb.WriteString(r.Str)
	case ReplyTError:
		sb.WriteString("(error) " + r.Str)
	case ReplyTInteger:
		sb.WriteString("(integer) " + strconv.FormatInt(r.Int, 10))
	case ReplyTBulk:
		if r.Nil {
			sb.WriteString("(nil)")
		} else {
			sb.WriteString(strconv.Quote(string(r.Bulk)))
		}
	case ReplyTMultiBulk:
		if r.Nil {
			sb.WriteString("(nil)")
			return
		}
		if len(r.Elems) == 0 {
			sb.WriteString("(empty list)")
			return
		}
		for i, e := range r.Elems {
			if i > 0 {
				sb.WriteString("\n" + indent)
			}
			prefix := strconv.Itoa(i+1) + ") "
			sb.WriteString(prefix)
			e.render(sb, indent+strings.Repeat(" ", len(prefix)))
		}
	}
}
