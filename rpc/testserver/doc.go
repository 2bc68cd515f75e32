// Package testserver provides an in-process store that speaks the wire protocol, so that
// the client packages can be tested end to end without an external server.
//
// The server is built on github.com/tidwall/resp for reading requests and writing replies
// and keeps its data in xsync maps (one per database). Command execution is serialized, so
// every command is atomic as on the real store.
//
// Supported commands:
//
//	strings/keys  SET GET SETNX GETSET MGET INCR DECR INCRBY DECRBY DEL EXISTS RENAME RENAMENX
//	              EXPIRE TTL TYPE MOVE
//	lists         LPUSH RPUSH LPOP RPOP LRANGE LINDEX LSET LREM LTRIM LLEN
//	sets          SADD SREM SMEMBERS SISMEMBER SCARD SMOVE SINTER SINTERSTORE SUNION SUNIONSTORE
//	              SDIFF SDIFFSTORE
//	other         SORT PING ECHO AUTH SELECT FLUSHDB FLUSHALL SAVE BGSAVE LASTSAVE DBSIZE
//	              RANDOMKEY KEYS INFO QUIT DEBUG SLEEP
//
// Differences to the real store:
//
//   - TTL returns -1 for missing keys (as older store versions did), not -2.
//   - SMEMBERS and the set operations return members in lexicographic order.
//   - Expiry follows a virtual clock that tests can move forward with Advance.
//
// Test hooks:
//
//   - Advance: moves the clock forward to expire keys without sleeping.
//   - SetRawReply: answers a command with arbitrary bytes (e.g. a malformed frame).
//   - DropConnections: closes all client sockets, simulating a connection reset.
//   - DEBUG SLEEP: delays the reply, used to provoke read timeouts.
//
// Usage Example:
//
//	srv := testserver.Run(t, testserver.Options{})
//	cfg := common.DefaultClientConfig()
//	cfg.Transport.Endpoint = srv.Addr()
//	conn, err := tcp.Dial(cfg)
package testserver
