// Package base implements the store connection independent of the network protocol
// (TCP, Unix sockets, etc.). Protocol specific dialing and socket tuning is injected
// through a transport.IClientConnector.
//
// The package focuses on:
//   - One in-flight command per connection, guarded by a mutex that spans write and read
//   - Deadlines per command derived from ClientConfig.TimeoutSecond
//   - Invalidation: a connection that hit a transport, timeout or format error is closed and
//     never used again, because a half-read frame leaves the stream out of sync
//   - The connect handshake (AUTH, SELECT)
//
// Key Components:
//
//   - Dial: Connects with the given connector, upgrades the socket and runs the handshake.
//
//   - clientConnection: Implementation of transport.IConnection. Writes go through a
//     bufio.Writer that is flushed once per command, replies are decoded from a
//     bufio.Reader with resp.Decode.
//
// Metrics (VictoriaMetrics, labelled by transport name):
//
//   - respkv_transport_bytes_written_total
//   - respkv_transport_commands_total
//   - respkv_transport_broken_connections_total
//
// Thread Safety:
//
//	All methods are safe for concurrent use. Concurrent Do calls are executed one after
//	another. Close can be called while a command is in flight, the command then fails with
//	a transport error.
package base
