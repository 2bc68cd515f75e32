package resp

import (
	"bufio"
	"bytes"
	"github.com/ValentinKolb/respkv/rpc/common"
	"io"
	"strconv"
)

const (
	// MaxBulkLength is the largest bulk payload the decoder accepts (512 MiB)
	MaxBulkLength = 512 * 1024 * 1024
	// MaxMultiBulkLength is the largest element count of a multi-bulk reply the decoder accepts
	MaxMultiBulkLength = 1024 * 1024 * 1024
	// MaxNestingDepth bounds recursion for nested multi-bulk replies
	MaxNestingDepth = 32
	// MaxLineLength is the longest status, error, integer or header line the decoder accepts (64 KiB)
	MaxLineLength = 64 * 1024
)

// Decode reads exactly one reply frame from r.
//
// Errors:
//   - common.ErrCFormat if the frame is malformed (unknown type byte, missing CRLF, bad length header)
//   - common.ErrCTransport if the stream ends before the frame is complete
//   - common.ErrCTimeout if a read deadline expires
//
// An error reply ("-...") is not an error of Decode, it is returned as a Reply of type ReplyTError.
func Decode(r *bufio.Reader) (*Reply, error) {
	return decode(r, 0)
}

func decode(r *bufio.Reader, depth int) (*Reply, error) {
	if depth > MaxNestingDepth {
		return nil, common.Errorf(common.ErrCFormat, "multi-bulk nesting deeper than %d", MaxNestingDepth)
	}

	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, common.NewError(common.ErrCFormat, "empty reply line")
	}

	prefix, body := line[0], line[1:]
	switch prefix {
	case '+':
		return NewStatusReply(string(body)), nil

	case '-':
		return NewErrorReply(string(body)), nil

	case ':':
		n, err := strconv.ParseInt(string(body), 10, 64)
		if err != nil {
			return nil, common.Errorf(common.ErrCFormat, "invalid integer reply %q", body)
		}
		return NewIntegerReply(n), nil

	case '$':
		n, err := parseLength(body, MaxBulkLength)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return NewBulkReply(nil), nil
		}
		payload := make([]byte, n+2)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, common.WrapIOError("read bulk payload", err)
		}
		if payload[n] != '\r' || payload[n+1] != '\n' {
			return nil, common.NewError(common.ErrCFormat, "bulk payload not terminated by CRLF")
		}
		return NewBulkReply(payload[:n:n]), nil

	case '*':
		n, err := parseLength(body, MaxMultiBulkLength)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return NewMultiBulkReply(nil), nil
		}
		elems := make([]*Reply, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			e, err := decode(r, depth+1)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return NewMultiBulkReply(elems), nil

	default:
		return nil, common.Errorf(common.ErrCFormat, "unknown reply type byte %q", prefix)
	}
}

// readLine reads up to and including CRLF and returns the line without the terminator.
// Lines longer than MaxLineLength are rejected before the rest of the line is read.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if len(line)+len(chunk) > MaxLineLength+2 {
			return nil, common.Errorf(common.ErrCFormat, "reply line longer than %d bytes", MaxLineLength)
		}
		if err == bufio.ErrBufferFull {
			line = append(line, chunk...)
			continue
		}
		if err != nil {
			return nil, common.WrapIOError("read reply line", err)
		}
		if line == nil {
			line = chunk
		} else {
			line = append(line, chunk...)
		}
		break
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, common.Errorf(common.ErrCFormat, "reply line %q not terminated by CRLF", bytes.TrimRight(line, "\n"))
	}
	return line[:len(line)-2], nil
}

// parseLength parses a bulk or multi-bulk length header. -1 is the nil marker.
func parseLength(b []byte, limit int) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, common.Errorf(common.ErrCFormat, "invalid length header %q", b)
	}
	if n < -1 {
		return 0, common.Errorf(common.ErrCFormat, "negative length %d", n)
	}
	if n > limit {
		return 0, common.Errorf(common.ErrCFormat, "length %d exceeds limit %d", n, limit)
	}
	return n, nil
}
