package lockmgr_test

import (
	"errors"
	"github.com/ValentinKolb/respkv/lib/lockmgr"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/client"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/testserver"
	"github.com/ValentinKolb/respkv/rpc/transport/tcp"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func setup(t *testing.T) (*testserver.Server, store.IStore, lockmgr.ILockManager) {
	t.Helper()
	srv := testserver.Run(t, testserver.Options{})

	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = srv.Addr()

	s, err := client.NewRPCStore(cfg, tcp.NewTCPConnector(), nil)
	if err != nil {
		t.Fatalf("NewRPCStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return srv, s, lockmgr.NewLockManager(s)
}

func TestAcquireRelease(t *testing.T) {
	_, s, lm := setup(t)

	ok, owner, err := lm.AcquireLock("resource", 0)
	if err != nil || !ok {
		t.Fatalf("AcquireLock() = %v, %v", ok, err)
	}
	if len(owner) != 32 {
		t.Errorf("owner id length = %d, want 32", len(owner))
	}

	ok, _, err = lm.AcquireLock("resource", 0)
	if err != nil || ok {
		t.Errorf("second AcquireLock() = %v, %v, want false", ok, err)
	}

	// lock without timeout never expires
	if ttl, _ := s.TTL("resource"); ttl != -1 {
		t.Errorf("TTL() = %d, want -1", ttl)
	}

	released, err := lm.ReleaseLock("resource", []byte("someone else"))
	if err != nil || released {
		t.Errorf("ReleaseLock() by non-owner = %v, %v, want false", released, err)
	}

	released, err = lm.ReleaseLock("resource", owner)
	if err != nil || !released {
		t.Errorf("ReleaseLock() by owner = %v, %v, want true", released, err)
	}
	if exists, _ := s.Exists("resource"); exists {
		t.Errorf("lock key should be deleted after release")
	}

	// releasing a missing lock succeeds
	released, err = lm.ReleaseLock("resource", owner)
	if err != nil || !released {
		t.Errorf("ReleaseLock() of missing lock = %v, %v, want true", released, err)
	}
}

func TestLockTimeout(t *testing.T) {
	srv, s, lm := setup(t)

	ok, _, err := lm.AcquireLock("resource", 30)
	if err != nil || !ok {
		t.Fatalf("AcquireLock() = %v, %v", ok, err)
	}
	if ttl, _ := s.TTL("resource"); ttl != 30 {
		t.Errorf("TTL() = %d, want 30", ttl)
	}

	srv.Advance(31 * time.Second)

	ok, owner, err := lm.AcquireLock("resource", 30)
	if err != nil || !ok {
		t.Fatalf("AcquireLock() after timeout = %v, %v", ok, err)
	}
	if released, _ := lm.ReleaseLock("resource", owner); !released {
		t.Errorf("new owner should be able to release the lock")
	}
}

func TestLockOnWrongType(t *testing.T) {
	_, s, lm := setup(t)

	if _, err := s.RPush("resource", codec.Text("x")); err != nil {
		t.Fatal(err)
	}
	if ok, _, _ := lm.AcquireLock("resource", 0); ok {
		t.Errorf("AcquireLock() on an existing key should fail")
	}
	if _, err := lm.ReleaseLock("resource", []byte("owner")); common.CodeOf(err) != common.ErrCTypeMismatch {
		t.Errorf("ReleaseLock() on a list error = %v, want type mismatch", err)
	}
}

func TestConcurrentAcquire(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = srv.Addr()

	const workers = 8
	var (
		wg       sync.WaitGroup
		acquired atomic.Int32
	)

	for i := 0; i < workers; i++ {
		lm, closeFn, err := client.NewRPCLockMgr(cfg, tcp.NewTCPConnector())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { closeFn() })

		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := lm.AcquireLock("contended", 10)
			if err != nil {
				t.Errorf("AcquireLock() error = %v", err)
			}
			if ok {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := acquired.Load(); n != 1 {
		t.Errorf("%d workers acquired the lock, want exactly 1", n)
	}
}

func TestLockTimeoutOutOfRange(t *testing.T) {
	_, s, lm := setup(t)

	ok, _, err := lm.AcquireLock("resource", math.MaxInt64+1)
	if ok || !errors.Is(err, common.ErrIllegalState) {
		t.Errorf("AcquireLock() = %v, %v, want illegal state error", ok, err)
	}
	if exists, _ := s.Exists("resource"); exists {
		t.Errorf("no lock key should be written for a rejected timeout")
	}

	const year = 365 * 24 * 60 * 60
	ok, _, err = lm.AcquireLock("resource", year)
	if err != nil || !ok {
		t.Fatalf("AcquireLock() with a long timeout = %v, %v", ok, err)
	}
	if ttl, _ := s.TTL("resource"); ttl != year {
		t.Errorf("TTL() = %d, want %d", ttl, year)
	}
}
