package pool

import (
	"context"
	"github.com/ValentinKolb/respkv/lib/store"
)

// IStorePool hands out store clients that each own one connection.
// A borrowed store must be given back with Return or Invalidate, never closed.
type IStorePool interface {
	// Borrow returns an idle store or dials a new one. Blocks while all
	// MaxConnections stores are borrowed, until ctx is done.
	Borrow(ctx context.Context) (store.IStore, error)
	// Return gives a borrowed store back. Stores with an invalidated connection are destroyed.
	Return(ctx context.Context, s store.IStore) error
	// Invalidate destroys a borrowed store and closes its connection.
	Invalidate(ctx context.Context, s store.IStore) error
	// WithStore borrows a store, runs fn and gives the store back. If fn failed with an
	// error that invalidated the connection, the store is destroyed instead.
	WithStore(ctx context.Context, fn func(s store.IStore) error) error
	// Stats returns the number of borrowed and idle stores.
	Stats() (active, idle int)
	// Close destroys all idle stores. Borrowed stores are destroyed when they are returned.
	Close(ctx context.Context)
}
