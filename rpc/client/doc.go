// Package client implements the typed store client. It provides the implementation of
// the store.IStore interface on top of a single transport.IConnection.
//
// The package focuses on:
//   - Turning typed method calls into commands and replies into typed results
//   - Classifying error replies into the common error taxonomy
//   - The single-use sort query builder
//
// Key Components:
//
//   - NewRPCStore: Factory function that dials a connection with the given connector and
//     returns a store.IStore. NewRPCStoreFromConn wraps an existing connection (used by
//     rpc/pool).
//
//   - NewRPCLockMgr: Factory function for a lockmgr.ILockManager backed by its own connection.
//
// Reply Mapping:
//
//   - Status commands (SET, RENAME, LSET, FLUSHDB, ...) succeed on a status reply.
//   - Boolean commands (SETNX, EXISTS, SISMEMBER, SMOVE, ...) map the integer 1 to true
//     and 0 to false.
//   - Value commands (GET, LPOP, LINDEX, ...) return a codec.Result, the nil bulk is a nil
//     result and not an error.
//   - Collection commands (LRANGE, SMEMBERS, MGET, ...) return []codec.Result with nil
//     elements kept in position.
//   - A reply of another type than the command produces is a format error. The connection
//     is closed, because the stream is out of sync.
//
// Error Classification:
//
//	Error replies are matched against the configured regular expressions
//	(common.ClientConfig.Errors). Matches of the type mismatch patterns (default ^WRONGTYPE,
//	"wrong kind of value", "not an integer") become common.ErrCTypeMismatch, matches of the
//	index patterns (default "index out of range") common.ErrCIndexOutOfRange, all other error
//	replies common.ErrCRemote. The message of the error is the verbatim reply text. Error
//	replies never invalidate the connection.
//
// Usage Example:
//
//	config := common.DefaultClientConfig()
//	config.Transport.Endpoint = "localhost:6379"
//
//	s, err := client.NewRPCStore(config, tcp.NewTCPConnector(), serializer.NewJSONSerializer())
//	if err != nil {
//	    // Handle error
//	}
//	defer s.Close()
//
//	_ = s.Set("greeting", codec.Text("hello"))
//	value, _ := s.Get("greeting")
//	if !value.IsNil() {
//	    fmt.Println(value.Text())
//	}
//
//	sorted, _ := s.Sort("scores").Desc().Limit(0, 10).Exec()
//
// Metrics (VictoriaMetrics):
//
//   - respkv_client_commands_total{command}
//   - respkv_client_command_duration_seconds{command}
//   - respkv_client_errors_total{kind}
//
// Thread Safety:
//
//	A store client can be used from multiple goroutines, commands are serialized on the
//	connection. For parallel commands use multiple clients, e.g. through rpc/pool.
//	A sort query must not be shared between goroutines.
package client
