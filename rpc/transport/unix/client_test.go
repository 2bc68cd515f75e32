package unix

import (
	"errors"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"github.com/ValentinKolb/respkv/rpc/testserver"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// socketPath returns a short socket path, the length of unix socket paths is limited
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "respkv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T) *testserver.Server {
	t.Helper()
	srv, err := testserver.Listen("unix", socketPath(t), testserver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestDial(t *testing.T) {
	srv := startServer(t)

	tests := []struct {
		name string
		conf common.SocketConf
	}{
		{"os defaults", common.SocketConf{}},
		{"socket buffers", common.SocketConf{WriteBufferSize: 64 * 1024, ReadBufferSize: 64 * 1024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.DefaultClientConfig()
			cfg.Transport.Endpoint = srv.Addr()
			cfg.Transport.SocketConf = tt.conf

			conn, err := Dial(cfg)
			if err != nil {
				t.Fatalf("Dial() error = %v", err)
			}
			defer conn.Close()

			reply, err := conn.Do(resp.NewStringCommand("PING"))
			if err != nil {
				t.Fatalf("PING error = %v", err)
			}
			if want := resp.NewStatusReply("PONG"); !reflect.DeepEqual(reply, want) {
				t.Errorf("PING = %v, want %v", reply, want)
			}
			if conn.Endpoint() != srv.Addr() {
				t.Errorf("Endpoint() = %q, want %q", conn.Endpoint(), srv.Addr())
			}
		})
	}
}

func TestDialMissingSocket(t *testing.T) {
	cfg := common.DefaultClientConfig()
	cfg.Transport.Endpoint = socketPath(t)

	if _, err := Dial(cfg); !errors.Is(err, common.ErrTransport) {
		t.Errorf("Dial() error = %v, want transport error", err)
	}
}

func TestConnectorName(t *testing.T) {
	if name := NewUnixConnector().GetName(); name != "unix" {
		t.Errorf("GetName() = %q, want %q", name, "unix")
	}
}
