package pool

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/client"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"github.com/ValentinKolb/respkv/rpc/transport/base"
	"github.com/VictoriaMetrics/metrics"
	commonspool "github.com/jolestar/go-commons-pool/v2"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var (
	Logger = logger.GetLogger("pool")
)

// pooledStore is the object kept in the pool. The connection is kept next to the
// store to check its validity.
type pooledStore struct {
	store.IStore
	conn transport.IConnection

	// dbChanged is set when a borrower selected another database
	dbChanged bool
}

// Select records the change, the database of the pool config is selected again on return
func (ps *pooledStore) Select(db int) error {
	if err := ps.IStore.Select(db); err != nil {
		return err
	}
	ps.dbChanged = true
	return nil
}

// --------------------------------------------------------------------------
// Object Factory (docu see commonspool.PooledObjectFactory)
// --------------------------------------------------------------------------

type storeFactory struct {
	config     common.ClientConfig
	connector  transport.IClientConnector
	serializer serializer.IObjectSerializer
}

func (f *storeFactory) MakeObject(_ context.Context) (*commonspool.PooledObject, error) {
	conn, err := base.Dial(f.connector, f.config)
	if err != nil {
		Logger.Warningf("Failed to open pooled connection to %s: %v", f.config.Transport.Endpoint, err)
		return nil, err
	}

	s, err := client.NewRPCStoreFromConn(conn, f.config, f.serializer)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_pool_connections_created_total{endpoint=%q}`, f.config.Transport.Endpoint)).Inc()
	Logger.Debugf("Opened pooled connection to %s", f.config.Transport.Endpoint)
	return commonspool.NewPooledObject(&pooledStore{IStore: s, conn: conn}), nil
}

func (f *storeFactory) DestroyObject(_ context.Context, object *commonspool.PooledObject) error {
	ps, ok := object.Object.(*pooledStore)
	if !ok {
		return fmt.Errorf("unexpected pooled object %T", object.Object)
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_pool_connections_destroyed_total{endpoint=%q}`, f.config.Transport.Endpoint)).Inc()
	Logger.Debugf("Closing pooled connection to %s", f.config.Transport.Endpoint)
	return ps.IStore.Close()
}

func (f *storeFactory) ValidateObject(_ context.Context, object *commonspool.PooledObject) bool {
	ps, ok := object.Object.(*pooledStore)
	return ok && ps.conn.Valid()
}

func (f *storeFactory) ActivateObject(context.Context, *commonspool.PooledObject) error {
	return nil
}

// PassivateObject restores the configured database. An error makes the pool destroy the object.
func (f *storeFactory) PassivateObject(_ context.Context, object *commonspool.PooledObject) error {
	ps, ok := object.Object.(*pooledStore)
	if !ok || !ps.dbChanged {
		return nil
	}
	if err := ps.IStore.Select(f.config.DB); err != nil {
		Logger.Warningf("Failed to restore db %d on pooled connection to %s: %v", f.config.DB, f.config.Transport.Endpoint, err)
		return err
	}
	ps.dbChanged = false
	return nil
}

// --------------------------------------------------------------------------
// Pool
// --------------------------------------------------------------------------

type storePool struct {
	pool     *commonspool.ObjectPool
	endpoint string
}

// NewStorePool creates a pool of store clients for config.Transport.Endpoint.
// The pool size is taken from config.Pool. No connection is opened before the first
// Borrow unless config.Pool.MinIdle is set.
func NewStorePool(
	ctx context.Context,
	config common.ClientConfig,
	connector transport.IClientConnector,
	serializer serializer.IObjectSerializer,
) IStorePool {

	poolConfig := commonspool.NewDefaultPoolConfig()
	if config.Pool.MaxConnections > 0 {
		poolConfig.MaxTotal = config.Pool.MaxConnections
	}
	if config.Pool.MaxIdle > 0 {
		poolConfig.MaxIdle = config.Pool.MaxIdle
	}
	poolConfig.MinIdle = config.Pool.MinIdle
	poolConfig.TestOnBorrow = true
	poolConfig.TestOnReturn = true

	p := &storePool{
		pool: commonspool.NewObjectPool(ctx, &storeFactory{
			config:     config,
			connector:  connector,
			serializer: serializer,
		}, poolConfig),
		endpoint: config.Transport.Endpoint,
	}

	for i := 0; i < config.Pool.MinIdle; i++ {
		if err := p.pool.AddObject(ctx); err != nil {
			Logger.Warningf("Failed to prefill pool for %s: %v", p.endpoint, err)
			break
		}
	}

	return p
}

// --------------------------------------------------------------------------
// Interface Methods (docu see pool.IStorePool)
// --------------------------------------------------------------------------

func (p *storePool) Borrow(ctx context.Context) (store.IStore, error) {
	start := time.Now()
	obj, err := p.pool.BorrowObject(ctx)
	metrics.GetOrCreateHistogram(fmt.Sprintf(`respkv_pool_borrow_duration_seconds{endpoint=%q}`, p.endpoint)).UpdateDuration(start)
	if err != nil {
		if common.CodeOf(err) == common.ErrCUnknown && ctx.Err() != nil {
			return nil, &common.Error{Code: common.ErrCTimeout, Msg: "borrow store from pool", Err: err}
		}
		return nil, err
	}
	return obj.(*pooledStore), nil
}

func (p *storePool) Return(ctx context.Context, s store.IStore) error {
	ps, err := p.unwrap(s)
	if err != nil {
		return err
	}
	if !ps.conn.Valid() {
		return p.pool.InvalidateObject(ctx, ps)
	}
	return p.pool.ReturnObject(ctx, ps)
}

func (p *storePool) Invalidate(ctx context.Context, s store.IStore) error {
	ps, err := p.unwrap(s)
	if err != nil {
		return err
	}
	return p.pool.InvalidateObject(ctx, ps)
}

func (p *storePool) WithStore(ctx context.Context, fn func(s store.IStore) error) error {
	s, err := p.Borrow(ctx)
	if err != nil {
		return err
	}

	// Return drops the store if fn broke its connection. Errors raised on the client side
	// (e.g. converting a nil result) leave the connection usable.
	fnErr := fn(s)
	if common.CodeOf(fnErr).Fatal() && !s.(*pooledStore).conn.Valid() {
		Logger.Debugf("Dropping pooled connection to %s after error: %v", p.endpoint, fnErr)
	}
	if err = p.Return(ctx, s); err != nil {
		Logger.Warningf("Failed to give back pooled connection to %s: %v", p.endpoint, err)
	}
	return fnErr
}

func (p *storePool) Stats() (active, idle int) {
	return p.pool.GetNumActive(), p.pool.GetNumIdle()
}

func (p *storePool) Close(ctx context.Context) {
	p.pool.Close(ctx)
}

func (p *storePool) unwrap(s store.IStore) (*pooledStore, error) {
	ps, ok := s.(*pooledStore)
	if !ok {
		return nil, common.Errorf(common.ErrCIllegalState, "store %T was not borrowed from a pool", s)
	}
	return ps, nil
}
