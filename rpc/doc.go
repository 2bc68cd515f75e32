// Package rpc provides the client side of the RESP protocol: everything between a typed
// store operation and the bytes on the socket.
//
// The package is organized into several subpackages:
//
//   - resp: The wire codec. Encodes commands as multi-bulk requests and decodes the five
//     reply kinds (status, error, integer, bulk, multi-bulk) including their nil forms.
//
//   - transport: The single-connection abstraction with pluggable connectors (TCP, Unix
//     sockets). The shared connection logic lives in transport/base.
//
//   - codec: Conversion between application values (bytes, text, numbers, objects) and
//     the binary-safe payloads carried in bulk strings.
//
//   - serializer: Object serialization with multiple format options (JSON, YAML, GOB, Binary)
//     used by the codec for the object value shape.
//
//   - client: The command dispatcher. Implements the store and lock manager interfaces on
//     top of a connection and maps replies to results or classified errors.
//
//   - pool: A connection pool of store clients for concurrent callers.
//
//   - common: Configuration, the error taxonomy and logging shared by all subpackages.
//
//   - testserver: An in-memory RESP server used by the tests of the other packages.
package rpc
