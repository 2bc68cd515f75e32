// Package transport defines the connection abstraction used to talk to the store.
//
// The package focuses on:
//   - A single-connection unit that serializes one command at a time (IConnection)
//   - Pluggable dialers for the different stream transports (IClientConnector)
//
// Key Components:
//
//   - IConnection: Sends an encoded command and reads exactly one reply frame. A failure on
//     the transport level breaks the connection, the caller (or a pool) has to replace it.
//
//   - IClientConnector: Dials a net.Conn for an endpoint and applies transport specific
//     socket options. Implementations live in the tcp and unix packages, the shared
//     connection logic in the base package.
//
// Pooling and reconnecting are not part of this package, see rpc/pool.
package transport
