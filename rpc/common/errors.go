package common

import (
	"errors"
	"fmt"
	"io"
	"net"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrorCode classifies every error returned by the client.
type ErrorCode uint8

const (
	ErrCUnknown         ErrorCode = iota // 0: Unclassified error.
	ErrCTransport                        // 1: Connect, write or read failure. Invalidates the connection.
	ErrCTimeout                          // 2: Deadline exceeded while dialing, writing or reading. Invalidates the connection.
	ErrCFormat                           // 3: Malformed reply frame or unexpected reply type. Invalidates the connection.
	ErrCTypeMismatch                     // 4: The key holds a value of the wrong kind for the operation.
	ErrCRemote                           // 5: Any other error reply of the remote store.
	ErrCIndexOutOfRange                  // 6: Single-index list mutation outside the list bounds.
	ErrCIllegalState                     // 7: Misuse of a single-use object (e.g. executing a sort query twice).
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCTransport:
		return "TransportError"
	case ErrCTimeout:
		return "TimeoutError"
	case ErrCFormat:
		return "FormatError"
	case ErrCTypeMismatch:
		return "TypeMismatchError"
	case ErrCRemote:
		return "RemoteCommandError"
	case ErrCIndexOutOfRange:
		return "IndexError"
	case ErrCIllegalState:
		return "IllegalStateError"
	default:
		return "UnknownError"
	}
}

// Fatal reports whether an error of this code leaves the connection unusable.
func (c ErrorCode) Fatal() bool {
	return c == ErrCTransport || c == ErrCTimeout || c == ErrCFormat
}

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error wraps an ErrorCode, a message and an optional cause.
// For remote errors Msg holds the verbatim text of the error reply.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

// Sentinels for use with errors.Is. Two *Error values match if their codes are equal.
var (
	ErrTransport       = &Error{Code: ErrCTransport}
	ErrTimeout         = &Error{Code: ErrCTimeout}
	ErrFormat          = &Error{Code: ErrCFormat}
	ErrTypeMismatch    = &Error{Code: ErrCTypeMismatch}
	ErrRemote          = &Error{Code: ErrCRemote}
	ErrIndexOutOfRange = &Error{Code: ErrCIndexOutOfRange}
	ErrIllegalState    = &Error{Code: ErrCIllegalState}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Fatal reports whether the connection that produced this error was invalidated.
func (e *Error) Fatal() bool {
	return e.Code.Fatal()
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of err, or ErrCUnknown if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCUnknown
}

// --------------------------------------------------------------------------
// I/O Error Classification
// --------------------------------------------------------------------------

// WrapIOError converts an error from the network stack into a transport or timeout Error.
// Errors that already are *Error are returned unchanged.
func WrapIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Code: ErrCTimeout, Msg: op, Err: err}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Code: ErrCTransport, Msg: op + ": stream closed", Err: err}
	}
	return &Error{Code: ErrCTransport, Msg: op, Err: err}
}
