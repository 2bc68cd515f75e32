package resp

import (
	"strconv"
	"strings"
)

const (
	CRLF = "\r\n"
)

// Command is an ordered sequence of arguments, the first being the command name.
// A Command is immutable: the constructor copies the argument list and no method modifies it.
type Command struct {
	args [][]byte
}

// NewCommand creates a command from a name and its already encoded arguments
func NewCommand(name string, args ...[]byte) Command {
	parts := make([][]byte, 0, len(args)+1)
	parts = append(parts, []byte(name))
	parts = append(parts, args...)
	return Command{args: parts}
}

// NewStringCommand is a shortcut for commands with only text arguments
func NewStringCommand(name string, args ...string) Command {
	parts := make([][]byte, 0, len(args)+1)
	parts = append(parts, []byte(name))
	for _, a := range args {
		parts = append(parts, []byte(a))
	}
	return Command{args: parts}
}

// Name returns the upper-cased command name
func (c Command) Name() string {
	if len(c.args) == 0 {
		return ""
	}
	return strings.ToUpper(string(c.args[0]))
}

// Len returns the number of parts including the command name
func (c Command) Len() int {
	return len(c.args)
}

// Arg returns the i-th part (0 is the name)
func (c Command) Arg(i int) []byte {
	return c.args[i]
}

// Args returns a copy of the argument list (including the name)
func (c Command) Args() [][]byte {
	out := make([][]byte, len(c.args))
	copy(out, c.args)
	return out
}

// SizeBytes returns the exact number of bytes of the encoded command
func (c Command) SizeBytes() int {
	size := 1 + len(strconv.Itoa(len(c.args))) + 2 // *<argc>\r\n
	for _, a := range c.args {
		size += 1 + len(strconv.Itoa(len(a))) + 2 + len(a) + 2 // $<len>\r\n<bytes>\r\n
	}
	return size
}

// Encode serializes the command into the multi-bulk request format:
// *<argc>\r\n followed by $<len>\r\n<bytes>\r\n per argument
func (c Command) Encode() []byte {
	return c.AppendTo(make([]byte, 0, c.SizeBytes()))
}

// AppendTo appends the encoded command to buf and returns the extended buffer
func (c Command) AppendTo(buf []byte) []byte {
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(c.args)), 10)
	buf = append(buf, CRLF...)
	for _, a := range c.args {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(a)), 10)
		buf = append(buf, CRLF...)
		buf = append(buf, a...)
		buf = append(buf, CRLF...)
	}
	return buf
}

// String renders the command for logs, e.g. SET "key" "value"
func (c Command) String() string {
	var sb strings.Builder
	for i, a := range c.args {
		if i == 0 {
			sb.WriteString(strings.ToUpper(string(a)))
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(string(a)))
	}
	return sb.String()
}
