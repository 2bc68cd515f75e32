// Package unix implements the Unix domain socket connector for the store connection.
// It is the faster choice when the store runs on the same machine and exposes a socket file.
//
// Key Components:
//
//   - clientConnector: Dials the socket path given as endpoint and applies the
//     SocketConf buffer sizes
//
//   - Dial: Shortcut for base.Dial with the Unix connector
package unix
