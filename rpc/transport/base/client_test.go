package base

import (
	"errors"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"github.com/ValentinKolb/respkv/rpc/testserver"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"net"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"
)

// testConnector dials plain TCP without socket tuning
type testConnector struct{}

func (testConnector) GetName() string {
	return "test"
}

func (testConnector) Connect(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", endpoint, timeout)
}

func (testConnector) UpgradeConnection(net.Conn, common.ClientTransportConfig) error {
	return nil
}

// timeoutError is a net.Error reporting a timeout
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// timeoutConnector fails every dial with a timeout
type timeoutConnector struct{ testConnector }

func (timeoutConnector) Connect(endpoint string, _ time.Duration) (net.Conn, error) {
	return nil, &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}
}

func configFor(srv *testserver.Server) common.ClientConfig {
	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = srv.Addr()
	cfg.TimeoutSecond = 2
	return cfg
}

func dial(t *testing.T, cfg common.ClientConfig) transport.IConnection {
	t.Helper()
	conn, err := Dial(testConnector{}, cfg)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestDo(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	conn := dial(t, configFor(srv))

	if conn.Endpoint() != srv.Addr() {
		t.Errorf("Endpoint() = %q, want %q", conn.Endpoint(), srv.Addr())
	}

	tests := []struct {
		cmd  resp.Command
		want *resp.Reply
	}{
		{resp.NewStringCommand("PING"), resp.NewStatusReply("PONG")},
		{resp.NewCommand("SET", []byte("k"), []byte{}), resp.NewStatusReply("OK")},
		{resp.NewStringCommand("GET", "k"), resp.NewBulkReply([]byte{})},
		{resp.NewStringCommand("GET", "missing"), resp.NewBulkReply(nil)},
		{resp.NewStringCommand("RPUSH", "l", "a"), resp.NewIntegerReply(1)},
		{resp.NewStringCommand("GET", "l"), resp.NewErrorReply("WRONGTYPE Operation against a key holding the wrong kind of value")},
	}

	for _, tt := range tests {
		got, err := conn.Do(tt.cmd)
		if err != nil {
			t.Fatalf("Do(%v) error = %v", tt.cmd, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Do(%v) = %#v, want %#v", tt.cmd, got, tt.want)
		}
	}

	// error replies do not invalidate the connection
	if !conn.Valid() {
		t.Errorf("Valid() = false after error reply")
	}
}

func TestDialHandshake(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{Password: "secret"})

	t.Run("wrong password", func(t *testing.T) {
		cfg := configFor(srv)
		cfg.Password = "wrong"
		_, err := Dial(testConnector{}, cfg)
		if !errors.Is(err, common.ErrRemote) {
			t.Errorf("Dial() error = %v, want remote error", err)
		}
	})

	t.Run("password and db", func(t *testing.T) {
		cfg := configFor(srv)
		cfg.Password = "secret"
		cfg.DB = 3
		conn := dial(t, cfg)
		if _, err := conn.Do(resp.NewStringCommand("SET", "k", "in-db-3")); err != nil {
			t.Fatalf("SET error = %v", err)
		}

		cfg.DB = 0
		other := dial(t, cfg)
		reply, err := other.Do(resp.NewStringCommand("GET", "k"))
		if err != nil {
			t.Fatalf("GET error = %v", err)
		}
		if !reply.Nil {
			t.Errorf("GET in db 0 = %v, want nil", reply)
		}
	})

	t.Run("invalid db", func(t *testing.T) {
		cfg := configFor(srv)
		cfg.Password = "secret"
		cfg.DB = 100
		if _, err := Dial(testConnector{}, cfg); !errors.Is(err, common.ErrRemote) {
			t.Errorf("Dial() error = %v, want remote error", err)
		}
	})
}

func TestDialErrors(t *testing.T) {
	t.Run("no endpoint", func(t *testing.T) {
		cfg := common.DefaultClientConfig()
		cfg.Transport.Endpoint = ""
		if _, err := Dial(testConnector{}, cfg); !errors.Is(err, common.ErrTransport) {
			t.Errorf("Dial() error = %v, want transport error", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := l.Addr().String()
		l.Close()

		cfg := common.DefaultClientConfig()
		cfg.Transport.Endpoint = addr
		_, err = Dial(testConnector{}, cfg)
		if !errors.Is(err, common.ErrTransport) {
			t.Errorf("Dial() error = %v, want transport error", err)
		}
	})

	t.Run("connect timeout", func(t *testing.T) {
		cfg := common.DefaultClientConfig()
		cfg.Transport.Endpoint = "10.255.255.1:6379"
		_, err := Dial(timeoutConnector{}, cfg)
		if !errors.Is(err, common.ErrTransport) {
			t.Errorf("Dial() error = %v, want transport error", err)
		}
		if errors.Is(err, common.ErrTimeout) {
			t.Errorf("Dial() error = %v, a connect timeout is not a read timeout", err)
		}
	})

	t.Run("handshake timeout", func(t *testing.T) {
		srv := testserver.Run(t, testserver.Options{})
		// reply without CRLF, the client waits for the rest of the frame
		srv.SetRawReply("SELECT", []byte("+OK"))

		cfg := configFor(srv)
		cfg.TimeoutSecond = 1
		cfg.DB = 1
		_, err := Dial(testConnector{}, cfg)
		if !errors.Is(err, common.ErrTransport) || errors.Is(err, common.ErrTimeout) {
			t.Errorf("Dial() error = %v, want transport error", err)
		}
	})
}

func TestFormatErrorBreaksConnection(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	conn := dial(t, configFor(srv))

	srv.SetRawReply("GET", []byte("!garbage\r\n"))
	_, err := conn.Do(resp.NewStringCommand("GET", "k"))
	if !errors.Is(err, common.ErrFormat) {
		t.Fatalf("Do() error = %v, want format error", err)
	}
	if conn.Valid() {
		t.Errorf("Valid() = true after format error")
	}

	// later calls fail fast, even if the server behaves again
	srv.ClearRawReply("GET")
	_, err = conn.Do(resp.NewStringCommand("PING"))
	if !errors.Is(err, common.ErrTransport) {
		t.Errorf("Do() on broken connection error = %v, want transport error", err)
	}
}

func TestTimeoutBreaksConnection(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	cfg := configFor(srv)
	cfg.TimeoutSecond = 1
	conn := dial(t, cfg)

	_, err := conn.Do(resp.NewStringCommand("DEBUG", "SLEEP", "2"))
	if !errors.Is(err, common.ErrTimeout) {
		t.Fatalf("Do() error = %v, want timeout error", err)
	}
	var e *common.Error
	if !errors.As(err, &e) || !e.Fatal() {
		t.Errorf("timeout error should be fatal: %v", err)
	}
	if conn.Valid() {
		t.Errorf("Valid() = true after timeout")
	}
}

func TestServerResetBreaksConnection(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	conn := dial(t, configFor(srv))

	if _, err := conn.Do(resp.NewStringCommand("PING")); err != nil {
		t.Fatalf("PING error = %v", err)
	}

	srv.DropConnections()

	_, err := conn.Do(resp.NewStringCommand("PING"))
	if !errors.Is(err, common.ErrTransport) {
		t.Fatalf("Do() after reset error = %v, want transport error", err)
	}
	if conn.Valid() {
		t.Errorf("Valid() = true after reset")
	}
}

func TestClose(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	conn, err := Dial(testConnector{}, configFor(srv))
	if err != nil {
		t.Fatal(err)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if conn.Valid() {
		t.Errorf("Valid() = true after Close")
	}
	if _, err := conn.Do(resp.NewStringCommand("PING")); !errors.Is(err, common.ErrTransport) {
		t.Errorf("Do() after Close error = %v, want transport error", err)
	}
}

func TestConcurrentDo(t *testing.T) {
	srv := testserver.Run(t, testserver.Options{})
	conn := dial(t, configFor(srv))

	const workers, perWorker = 16, 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			key := "key-" + strconv.Itoa(w)
			for i := 1; i <= perWorker; i++ {
				// each worker must see exactly its own replies
				reply, err := conn.Do(resp.NewStringCommand("INCR", key))
				if err != nil {
					errs <- err
					return
				}
				if reply.Type != resp.ReplyTInteger || reply.Int != int64(i) {
					errs <- errors.New("unexpected reply " + reply.String() + " for " + key)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
