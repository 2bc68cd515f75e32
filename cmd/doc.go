// Package cmd implements the command-line interface of respkv. It provides a
// hierarchical command structure to talk to a RESP key-value store.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key and string operations (get, set, incr, expire, etc.)
//   - list: Commands for list operations (lpush, lrange, lset, etc.)
//   - set: Commands for set operations (sadd, smembers, sinter, etc.)
//   - server: Commands for administration (ping, info, flushdb, save, etc.)
//   - sort: The sort command with all of its modifiers
//   - lock: Commands for locking operations (acquire, release)
//   - perf: A load generator that measures command latencies over pooled connections
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set with environment variables prefixed with RESPKV_
// (e.g. RESPKV_ENDPOINT), and from .env or .env.local files.
//
// See respkv -help for a list of all commands.
package cmd
