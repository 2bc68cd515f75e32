// Package common provides core data structures and utilities shared across
// the respkv client. It defines the configuration, the error taxonomy and the
// logging setup used by all other packages.
//
// The package focuses on:
//   - Configuration structures for connections, pools and error classification
//   - A closed set of error codes that callers can match with errors.Is
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - ClientConfig: Endpoint, timeout, handshake parameters (password, database),
//     socket options, pool sizes and the regular expressions used to classify
//     error replies of the remote store.
//
//   - Error / ErrorCode: Every error produced by the client is an *Error with one
//     of the codes ErrCTransport, ErrCTimeout, ErrCFormat, ErrCTypeMismatch,
//     ErrCRemote, ErrCIndexOutOfRange or ErrCIllegalState. Transport, timeout and
//     format errors are fatal to the connection (see Error.Fatal), the others
//     are not. Sentinels such as ErrTypeMismatch match any error of the same code:
//
//     if errors.Is(err, common.ErrTypeMismatch) {
//     // the key holds a list, not a set
//     }
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
