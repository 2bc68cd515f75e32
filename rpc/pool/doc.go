// Package pool provides a pool of store clients on top of go-commons-pool.
//
// A store client owns exactly one connection and serializes its commands. To run commands
// in parallel, a process borrows one client per goroutine from the pool:
//
//	p := pool.NewStorePool(ctx, config, tcp.NewTCPConnector(), serializer.NewJSONSerializer())
//	defer p.Close(ctx)
//
//	err := p.WithStore(ctx, func(s store.IStore) error {
//	    _, err := s.Incr("visits")
//	    return err
//	})
//
// Connection Health:
//
//	Every store is validated when it is borrowed and when it is returned. A store whose
//	connection was invalidated by a transport, timeout or format error is destroyed and
//	replaced by a new connection on the next Borrow. Error replies of the store (type
//	mismatch, remote errors) and errors raised on the client side keep the connection in
//	the pool.
//
//	A borrower may Select another database. The configured database is selected again
//	when the store is returned, so the next borrower starts on ClientConfig.DB.
//
// Sizing (common.PoolConfig):
//
//   - MaxConnections: upper bound of open connections, Borrow blocks when it is reached
//   - MaxIdle: idle connections kept open
//   - MinIdle: connections opened when the pool is created
//
// Metrics (VictoriaMetrics):
//
//   - respkv_pool_borrow_duration_seconds{endpoint}
//   - respkv_pool_connections_created_total{endpoint}
//   - respkv_pool_connections_destroyed_total{endpoint}
package pool
