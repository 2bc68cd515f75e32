// Package store defines the typed interface for interacting with a key-value store
// that speaks the wire protocol implemented in rpc/resp.
//
// The package focuses on:
//   - A unified interface (IStore) for string, list, set and administrative operations
//   - Values of different shapes (bytes, text, numbers, objects) through rpc/codec
//   - A fluent, single-use sort query (ISortQuery)
//
// Key Components:
//
//   - IStore Interface: The core abstraction, composed of IKeyStore, IStringStore, IListStore,
//     ISetStore and IAdminStore. Applications that only need a part of the surface should
//     depend on the smaller interface (e.g. the lock manager only needs IStringStore and
//     IKeyStore).
//
//   - Results: Operations that return values return codec.Result. A nil result means the key
//     or element does not exist and is distinct from an empty value. Collection operations
//     keep nil results at their position (MGet).
//
//   - Errors: All methods return *common.Error values. errors.Is(err, common.ErrTypeMismatch)
//     detects operations on keys holding the wrong kind of value, common.ErrIndexOutOfRange a
//     list index outside the list and common.ErrRemote any other error reply. Transport,
//     timeout and format errors mean the underlying connection is unusable.
//
//   - KeyType: The kind of value stored at a key, as returned by Type.
//
// Implementations:
//
//	The implementation over a single connection lives in rpc/client (NewRPCStore).
//	rpc/pool hands out such stores backed by pooled connections.
package store
