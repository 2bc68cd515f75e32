// Package tcp implements the TCP connector for the store connection. It dials host:port
// endpoints and applies the socket options of common.ClientTransportConfig.
//
// This package builds on the base package, which implements the connection itself
// (command serialization, deadlines, invalidation on failure, handshake). See the base
// package documentation for details.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of transport.IClientConnector
//
//   - Dial: Shortcut for base.Dial with the TCP connector
//
// Socket Options:
//
//   - TCPNoDelay disables Nagle's algorithm. Since every command waits for its reply,
//     leaving it enabled adds latency to small requests.
//   - TCPKeepAliveSec > 0 enables keep-alive probes with the given period.
//   - TCPLingerSec >= 0 sets SO_LINGER, -1 keeps the os default.
//   - WriteBufferSize/ReadBufferSize > 0 set the socket buffers.
package tcp
