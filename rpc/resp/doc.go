// Package resp implements the wire format spoken with the store: the multi-bulk request
// encoding and the decoding of the five reply types.
//
// Requests are always sent as a multi-bulk of binary-safe arguments:
//
//	*<argc>\r\n
//	$<len>\r\n<bytes>\r\n   (once per argument, the first argument is the command name)
//
// Replies start with a type byte:
//
//	+<line>\r\n                 status
//	-<line>\r\n                 error
//	:<int>\r\n                  integer (signed 64 bit)
//	$<len>\r\n<bytes>\r\n       bulk, "$-1\r\n" is the nil bulk
//	*<count>\r\n<elements>      multi-bulk, "*-1\r\n" is the nil multi-bulk
//
// Key Components:
//
//   - Command: An immutable, ordered list of arguments. Encode/AppendTo never fail.
//
//   - Reply: A tagged variant over the five reply types. Nil bulk and nil multi-bulk are
//     kept distinct from their empty counterparts.
//
//   - Decode: Reads exactly one frame from a bufio.Reader. Malformed frames are reported with
//     common.ErrCFormat, a stream that ends mid-frame with common.ErrCTransport and an expired
//     read deadline with common.ErrCTimeout. Error replies are returned as a Reply, the
//     classification into typed errors happens in the client.
//
// Thread Safety:
//
//	Command and Reply values are not modified after construction and can be shared.
//	Decode must not be called concurrently on the same reader.
package resp
