package client

import (
	"errors"
	"github.com/ValentinKolb/respkv/lib/store"
	storetesting "github.com/ValentinKolb/respkv/lib/store/testing"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"github.com/ValentinKolb/respkv/rpc/testserver"
	"github.com/ValentinKolb/respkv/rpc/transport/tcp"
	"reflect"
	"testing"
	"time"
)

func configFor(srv *testserver.Server) common.ClientConfig {
	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = srv.Addr()
	cfg.TimeoutSecond = 2
	return cfg
}

func newStore(t testing.TB, cfg common.ClientConfig) store.IStore {
	t.Helper()
	s, err := NewRPCStore(cfg, tcp.NewTCPConnector(), serializer.NewJSONSerializer())
	if err != nil {
		t.Fatalf("NewRPCStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func Test(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	cfg := configFor(srv)

	storetesting.RunStoreTests(t, "RPCStore", func() store.IStore {
		s := newStore(t, cfg)
		if err := s.FlushAll(); err != nil {
			t.Fatalf("FlushAll() error = %v", err)
		}
		return s
	})
}

func Benchmark(b *testing.B) {
	srv := testserver.Run(b, testserver.Options{})
	cfg := configFor(srv)

	storetesting.RunStoreBenchmarks(b, "RPCStore", func() store.IStore {
		s := newStore(b, cfg)
		if err := s.FlushAll(); err != nil {
			b.Fatalf("FlushAll() error = %v", err)
		}
		return s
	})
}

func TestKeyExpiry(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s := newStore(t, configFor(srv))

	if err := s.Set("session", codec.Text("data")); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Expire("session", 10); err != nil || !ok {
		t.Fatalf("Expire() = %v, %v", ok, err)
	}

	srv.Advance(9 * time.Second)
	if exists, _ := s.Exists("session"); !exists {
		t.Errorf("Key should still exist after 9s")
	}
	if ttl, _ := s.TTL("session"); ttl != 1 {
		t.Errorf("TTL() = %d, want 1", ttl)
	}

	srv.Advance(time.Second)
	if exists, _ := s.Exists("session"); exists {
		t.Errorf("Key should have expired after 10s")
	}
	result, err := s.Get("session")
	if err != nil || !result.IsNil() {
		t.Errorf("Get() of expired key = %s, %v", result, err)
	}
	if ttl, err := s.TTL("session"); err != nil || ttl != -1 {
		t.Errorf("TTL() of expired key = %d, %v, want -1", ttl, err)
	}
}

func TestSelectAndMove(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	cfg := configFor(srv)
	s := newStore(t, cfg)

	if err := s.Set("k", codec.Text("v")); err != nil {
		t.Fatal(err)
	}
	if moved, err := s.Move("k", 2); err != nil || !moved {
		t.Fatalf("Move() = %v, %v", moved, err)
	}
	if moved, _ := s.Move("missing", 2); moved {
		t.Errorf("Move() of a missing key should fail")
	}
	if _, err := s.Move("k", 99); !errors.Is(err, common.ErrRemote) {
		t.Errorf("Move() to invalid db error = %v, want ErrRemote", err)
	}

	// the handshake selects the configured db
	cfg.DB = 2
	other := newStore(t, cfg)
	if result, _ := other.Get("k"); result.Text() != "v" {
		t.Errorf("Get() in db 2 = %s, want v", result)
	}

	if err := s.Select(2); err != nil {
		t.Fatal(err)
	}
	if keyType, _ := s.Type("k"); keyType != store.KeyTString {
		t.Errorf("Type() after Select = %s", keyType)
	}
	if err := s.Select(100); !errors.Is(err, common.ErrRemote) {
		t.Errorf("Select(100) error = %v, want ErrRemote", err)
	}
}

func TestKeyTypes(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s := newStore(t, configFor(srv))

	_ = s.Set("string", codec.Text("v"))
	_, _ = s.RPush("list", codec.Text("v"))
	_, _ = s.SAdd("set", codec.Text("v"))

	tests := []struct {
		key  string
		want store.KeyType
	}{
		{"string", store.KeyTString},
		{"list", store.KeyTList},
		{"set", store.KeyTSet},
		{"missing", store.KeyTNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := s.Type(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Type(%s) = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestInfoAndLastSave(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s := newStore(t, configFor(srv))

	_ = s.Set("a", codec.Text("1"))
	if err := s.BgSave(); err != nil {
		t.Fatalf("BgSave() error = %v", err)
	}

	info, err := s.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info["redis_version"] != "7.2.0" {
		t.Errorf("redis_version = %q", info["redis_version"])
	}
	if info["db0"] != "keys=1,expires=0,avg_ttl=0" {
		t.Errorf("db0 = %q", info["db0"])
	}
	if _, ok := info["# Server"]; ok {
		t.Errorf("section headers should be skipped")
	}

	lastSave, err := s.LastSave()
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(lastSave) > time.Minute {
		t.Errorf("LastSave() = %v, expected a recent time", lastSave)
	}
}

func TestParseInfo(t *testing.T) {
	text := "# Server\r\nredis_version:7.2.0\r\nexecutable:/usr/bin/redis:server\r\n\r\n# Keyspace\r\ndb0:keys=1\r\ninvalid line\r\n"
	want := map[string]string{
		"redis_version": "7.2.0",
		"executable":    "/usr/bin/redis:server",
		"db0":           "keys=1",
	}
	if got := parseInfo(text); !reflect.DeepEqual(got, want) {
		t.Errorf("parseInfo() = %v, want %v", got, want)
	}
}

func TestSortCommand(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s := newStore(t, configFor(srv))

	tests := []struct {
		name  string
		query store.ISortQuery
		want  string
	}{
		{"plain", s.Sort("k"), `SORT "k"`},
		{"all modifiers", s.Sort("k").Store("dst").Alpha().Desc().Get("#").Get("o_*").Limit(0, 10).By("w_*"),
			`SORT "k" "BY" "w_*" "LIMIT" "0" "10" "GET" "#" "GET" "o_*" "DESC" "ALPHA" "STORE" "dst"`},
		{"last direction wins", s.Sort("k").Desc().Asc(), `SORT "k" "ASC"`},
		{"numeric clears alpha", s.Sort("k").Alpha().Numeric(), `SORT "k"`},
		{"last limit wins", s.Sort("k").Limit(0, 1).Limit(5, 2), `SORT "k" "LIMIT" "5" "2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Command().String(); got != tt.want {
				t.Errorf("Command() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProtocolViolation(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s := newStore(t, configFor(srv))

	// an integer where a bulk is expected
	srv.SetRawReply("GET", []byte(":1\r\n"))
	_, err := s.Get("k")
	if !errors.Is(err, common.ErrFormat) {
		t.Fatalf("Get() error = %v, want ErrFormat", err)
	}

	// the connection was closed, later commands fail without reaching the store
	srv.ClearRawReply("GET")
	if err := s.Ping(); !errors.Is(err, common.ErrTransport) {
		t.Errorf("Ping() after violation error = %v, want ErrTransport", err)
	}
}

func TestUnexpectedStatusAndMultiBulk(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})

	tests := []struct {
		name    string
		command string
		raw     string
		op      func(s store.IStore) error
	}{
		{"status for integer", "INCR", "+OK\r\n", func(s store.IStore) error { _, err := s.Incr("k"); return err }},
		{"bulk for status", "SET", "$2\r\nOK\r\n", func(s store.IStore) error { return s.Set("k", codec.Text("v")) }},
		{"bulk for multi bulk", "KEYS", "$1\r\na\r\n", func(s store.IStore) error { _, err := s.Keys("*"); return err }},
		{"negative integer for boolean", "EXISTS", ":-1\r\n", func(s store.IStore) error { _, err := s.Exists("k"); return err }},
		{"status for boolean", "SETNX", "+OK\r\n", func(s store.IStore) error { _, err := s.SetNX("k", codec.Text("v")); return err }},
		{"nested multi bulk", "SMEMBERS", "*1\r\n*1\r\n$1\r\na\r\n", func(s store.IStore) error { _, err := s.SMembers("k"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, configFor(srv))
			srv.SetRawReply(tt.command, []byte(tt.raw))
			defer srv.ClearRawReply(tt.command)

			if err := tt.op(s); common.CodeOf(err) != common.ErrCFormat {
				t.Errorf("error = %v, want format error", err)
			}
		})
	}
}

func TestErrorPatterns(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})

	// custom patterns replace the defaults
	cfg := configFor(srv)
	cfg.Errors.TypeMismatch = []string{`^ERR no such key`}
	cfg.Errors.IndexOutOfRange = []string{`^WRONGTYPE`}
	s := newStore(t, cfg)

	_ = s.Set("string", codec.Text("v"))

	err := s.Rename("missing", "other")
	if !errors.Is(err, common.ErrTypeMismatch) {
		t.Errorf("Rename() error = %v, want ErrTypeMismatch", err)
	}
	var e *common.Error
	if !errors.As(err, &e) || e.Msg != "ERR no such key" {
		t.Errorf("error message should be the verbatim reply, got %v", err)
	}

	_, err = s.LPush("string", codec.Text("x"))
	if !errors.Is(err, common.ErrIndexOutOfRange) {
		t.Errorf("LPush() error = %v, want ErrIndexOutOfRange", err)
	}

	// invalid patterns are rejected before connecting
	cfg.Errors.TypeMismatch = []string{`([`}
	before := srv.ConnectionCount()
	if _, err := NewRPCStore(cfg, tcp.NewTCPConnector(), nil); err == nil {
		t.Errorf("NewRPCStore() with invalid pattern should fail")
	}
	if srv.ConnectionCount() != before {
		t.Errorf("no connection should be opened for an invalid config")
	}
}

func TestErrorClassifier(t *testing.T) {
	c, err := newErrorClassifier(common.ErrorPatterns{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		msg  string
		want common.ErrorCode
	}{
		{"WRONGTYPE Operation against a key holding the wrong kind of value", common.ErrCTypeMismatch},
		{"ERR Operation against a key holding the wrong kind of value", common.ErrCTypeMismatch},
		{"ERR value is not an integer or out of range", common.ErrCTypeMismatch},
		{"ERR index out of range", common.ErrCIndexOutOfRange},
		{"ERR no such key", common.ErrCRemote},
		{"NOAUTH Authentication required.", common.ErrCRemote},
		{"", common.ErrCRemote},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := c.classify(tt.msg)
			if got.Code != tt.want {
				t.Errorf("classify(%q) = %s, want %s", tt.msg, got.Code, tt.want)
			}
			if got.Msg != tt.msg {
				t.Errorf("classify(%q).Msg = %q", tt.msg, got.Msg)
			}
		})
	}

	// same patterns share one classifier
	again, _ := newErrorClassifier(common.ErrorPatterns{TypeMismatch: common.DefaultTypeMismatchPatterns})
	if again != c {
		t.Errorf("expected the cached classifier for equal patterns")
	}
}

func TestObjectWithoutSerializer(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	s, err := NewRPCStore(configFor(srv), tcp.NewTCPConnector(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = s.Set("k", codec.Object(map[string]int{"a": 1}))
	if common.CodeOf(err) != common.ErrCFormat {
		t.Errorf("Set() of an object without serializer error = %v, want format error", err)
	}

	// encoding failed before sending, the connection is still usable
	if err := s.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestStoreFromConn(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	cfg := configFor(srv)

	conn, err := tcp.Dial(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewRPCStoreFromConn(conn, cfg, serializer.NewGOBSerializer())
	if err != nil {
		t.Fatal(err)
	}

	type point struct{ X, Y int }
	if err := s.Set("p", codec.Object(point{1, 2})); err != nil {
		t.Fatal(err)
	}
	result, _ := s.Get("p")
	var got point
	if err := result.Object(&got); err != nil || got != (point{1, 2}) {
		t.Errorf("Object() = %+v, %v", got, err)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if conn.Valid() {
		t.Errorf("closing the store should close the connection")
	}
}

func TestLockMgr(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	lockMgr, closeFn, err := NewRPCLockMgr(configFor(srv), tcp.NewTCPConnector())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	ok, owner, err := lockMgr.AcquireLock("lock", 5)
	if err != nil || !ok {
		t.Fatalf("AcquireLock() = %v, %v", ok, err)
	}
	if released, err := lockMgr.ReleaseLock("lock", owner); err != nil || !released {
		t.Errorf("ReleaseLock() = %v, %v", released, err)
	}
}
