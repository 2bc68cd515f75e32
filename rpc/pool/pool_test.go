package pool

import (
	"context"
	"errors"
	"github.com/ValentinKolb/respkv/lib/store"
	storetesting "github.com/ValentinKolb/respkv/lib/store/testing"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"github.com/ValentinKolb/respkv/rpc/testserver"
	"github.com/ValentinKolb/respkv/rpc/transport/tcp"
	"sync"
	"testing"
	"time"
)

func newPool(t *testing.T, srv *testserver.Server, maxConnections int) IStorePool {
	t.Helper()
	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = srv.Addr()
	cfg.TimeoutSecond = 2
	cfg.Pool = common.PoolConfig{MaxConnections: maxConnections, MaxIdle: maxConnections}

	p := NewStorePool(context.Background(), cfg, tcp.NewTCPConnector(), serializer.NewJSONSerializer())
	t.Cleanup(func() { p.Close(context.Background()) })
	return p
}

// returningStore gives a borrowed store back to the pool when it is closed
type returningStore struct {
	store.IStore
	pool IStorePool
}

func (s *returningStore) Close() error {
	return s.pool.Return(context.Background(), s.IStore)
}

func Test(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 2)

	storetesting.RunStoreTests(t, "PooledStore", func() store.IStore {
		s, err := p.Borrow(context.Background())
		if err != nil {
			t.Fatalf("Borrow() error = %v", err)
		}
		if err := s.FlushAll(); err != nil {
			t.Fatalf("FlushAll() error = %v", err)
		}
		return &returningStore{IStore: s, pool: p}
	})
}

func TestBorrowReuse(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 2)
	ctx := context.Background()

	s, err := p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active, idle := p.Stats(); active != 1 || idle != 0 {
		t.Errorf("Stats() = %d, %d, want 1, 0", active, idle)
	}
	if err := p.Return(ctx, s); err != nil {
		t.Fatal(err)
	}
	if active, idle := p.Stats(); active != 0 || idle != 1 {
		t.Errorf("Stats() = %d, %d, want 0, 1", active, idle)
	}

	again, err := p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again != s {
		t.Errorf("expected the idle store to be reused")
	}
	_ = p.Return(ctx, again)

	if n := srv.ConnectionCount(); n != 1 {
		t.Errorf("ConnectionCount() = %d, want 1", n)
	}
}

func TestBrokenConnectionIsReplaced(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 2)
	ctx := context.Background()

	if err := p.WithStore(ctx, func(s store.IStore) error { return s.Ping() }); err != nil {
		t.Fatal(err)
	}

	// the pooled connection breaks on the next command
	srv.DropConnections()
	err := p.WithStore(ctx, func(s store.IStore) error { return s.Ping() })
	if !errors.Is(err, common.ErrTransport) {
		t.Fatalf("WithStore() error = %v, want ErrTransport", err)
	}
	if _, idle := p.Stats(); idle != 0 {
		t.Errorf("broken store should not be kept, %d idle", idle)
	}

	// a new connection is dialed
	if err := p.WithStore(ctx, func(s store.IStore) error { return s.Ping() }); err != nil {
		t.Errorf("WithStore() after reconnect error = %v", err)
	}
}

func TestErrorReplyKeepsConnection(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 1)
	ctx := context.Background()

	err := p.WithStore(ctx, func(s store.IStore) error {
		if err := s.Set("k", codec.Text("v")); err != nil {
			return err
		}
		_, err := s.LPush("k", codec.Text("x"))
		return err
	})
	if !errors.Is(err, common.ErrTypeMismatch) {
		t.Fatalf("WithStore() error = %v, want ErrTypeMismatch", err)
	}
	if _, idle := p.Stats(); idle != 1 {
		t.Errorf("store should be back in the pool, %d idle", idle)
	}
}

func TestBorrowBlocksWhenExhausted(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 1)

	s, err := p.Borrow(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := p.Borrow(ctx); err == nil {
		t.Errorf("Borrow() from an exhausted pool should fail when ctx is done")
	}

	_ = p.Return(context.Background(), s)
}

func TestReturnForeignStore(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 1)

	var foreign store.IStore
	if err := p.Return(context.Background(), foreign); !errors.Is(err, common.ErrIllegalState) {
		t.Errorf("Return() of a foreign store error = %v, want ErrIllegalState", err)
	}
}

func TestConcurrentWithStore(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 4)
	ctx := context.Background()

	const workers, increments = 16, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				if err := p.WithStore(ctx, func(s store.IStore) error {
					_, err := s.Incr("counter")
					return err
				}); err != nil {
					t.Errorf("WithStore() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	_ = p.WithStore(ctx, func(s store.IStore) error {
		result, err := s.Get("counter")
		if err != nil {
			return err
		}
		if n, _ := result.Number(); n != workers*increments {
			t.Errorf("counter = %d, want %d", n, workers*increments)
		}
		return nil
	})

	if n := srv.ConnectionCount(); n > 4 {
		t.Errorf("ConnectionCount() = %d, want at most 4", n)
	}
}

func TestSelectIsResetOnReturn(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 1)
	ctx := context.Background()

	first, err := p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set("k", codec.Text("db0")); err != nil {
		t.Fatal(err)
	}
	if err := first.Select(5); err != nil {
		t.Fatal(err)
	}
	if err := first.Set("k", codec.Text("db5")); err != nil {
		t.Fatal(err)
	}
	if err := p.Return(ctx, first); err != nil {
		t.Fatal(err)
	}

	second, err := p.Borrow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Return(ctx, second)

	if second != first {
		t.Errorf("expected the connection to be reused")
	}
	result, err := second.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Text(); got != "db0" {
		t.Errorf("Get() = %q, want %q from the configured database", got, "db0")
	}
	if n := srv.ConnectionCount(); n != 1 {
		t.Errorf("ConnectionCount() = %d, want 1", n)
	}
}

func TestClientSideErrorKeepsConnection(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	p := newPool(t, srv, 1)
	ctx := context.Background()

	err := p.WithStore(ctx, func(s store.IStore) error {
		result, err := s.Get("missing")
		if err != nil {
			return err
		}
		_, err = result.Number()
		return err
	})
	if !errors.Is(err, common.ErrFormat) {
		t.Fatalf("WithStore() error = %v, want format error", err)
	}
	if _, idle := p.Stats(); idle != 1 {
		t.Errorf("idle = %d, want the connection back in the pool", idle)
	}
	if n := srv.ConnectionCount(); n != 1 {
		t.Errorf("ConnectionCount() = %d, want 1", n)
	}
}
