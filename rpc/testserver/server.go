package testserver

import (
	"errors"
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tidwall/resp"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Options configures a test server
type Options struct {
	// Password enables AUTH. Clients have to authenticate before any other command.
	Password string
	// Databases is the number of databases reachable with SELECT (default 16)
	Databases int
}

// Server is an in-memory store speaking the wire protocol. It implements the commands
// used by the client with the error texts of the real store, so that error
// classification can be tested end to end.
type Server struct {
	opts     Options
	listener net.Listener
	dbs      []*keyspace

	mu sync.Mutex // Serializes command execution, commands are atomic like on the real store

	clockOffset atomic.Int64 // Nanoseconds added to time.Now(), see Advance
	lastSave    atomic.Int64
	started     time.Time

	conns     *xsync.MapOf[net.Conn, struct{}]
	overrides *xsync.MapOf[string, []byte]

	wg     sync.WaitGroup
	closed atomic.Bool
}

// clientState is the per connection state
type clientState struct {
	db     int
	authed bool
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Start starts a server on a random TCP port of 127.0.0.1
func Start(opts Options) (*Server, error) {
	return Listen("tcp", "127.0.0.1:0", opts)
}

// Listen starts a server on the given network and address (e.g. "unix", "/tmp/test.sock")
func Listen(network, address string, opts Options) (*Server, error) {
	if opts.Databases <= 0 {
		opts.Databases = 16
	}

	l, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s %s: %w", network, address, err)
	}

	s := &Server{
		opts:      opts,
		listener:  l,
		dbs:       make([]*keyspace, opts.Databases),
		started:   time.Now(),
		conns:     xsync.NewMapOf[net.Conn, struct{}](),
		overrides: xsync.NewMapOf[string, []byte](),
	}
	for i := range s.dbs {
		s.dbs[i] = newKeyspace()
	}
	s.lastSave.Store(time.Now().Unix())

	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Run starts a TCP server for a test and stops it when the test finishes
func Run(tb testing.TB, opts Options) *Server {
	tb.Helper()
	s, err := Start(opts)
	if err != nil {
		tb.Fatalf("failed to start test server: %v", err)
	}
	tb.Cleanup(func() { _ = s.Close() })
	return s
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops the server and closes all client connections
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	err := s.listener.Close()
	s.DropConnections()
	s.wg.Wait()
	return err
}

// --------------------------------------------------------------------------
// Test Hooks
// --------------------------------------------------------------------------

// Advance moves the server clock forward. Keys expire relative to this clock.
func (s *Server) Advance(d time.Duration) {
	s.clockOffset.Add(int64(d))
}

// SetRawReply makes the server answer every invocation of command with raw instead of
// executing it. raw is written to the socket unchanged and may be an invalid frame.
func (s *Server) SetRawReply(command string, raw []byte) {
	s.overrides.Store(strings.ToUpper(command), raw)
}

// ClearRawReply removes an override set with SetRawReply
func (s *Server) ClearRawReply(command string) {
	s.overrides.Delete(strings.ToUpper(command))
}

// DropConnections closes all client connections, the listener stays open
func (s *Server) DropConnections() {
	s.conns.Range(func(conn net.Conn, _ struct{}) bool {
		_ = conn.Close()
		return true
	})
}

// ConnectionCount returns the number of open client connections
func (s *Server) ConnectionCount() int {
	return s.conns.Size()
}

// --------------------------------------------------------------------------
// Connection Handling
// --------------------------------------------------------------------------

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		if s.closed.Load() {
			_ = conn.Close()
			return
		}
		s.conns.Store(conn, struct{}{})
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.conns.Delete(conn)
		_ = conn.Close()
	}()

	state := &clientState{authed: s.opts.Password == ""}
	rd := resp.NewReader(conn)
	wr := resp.NewWriter(conn)

	for {
		v, _, err := rd.ReadValue()
		if err != nil {
			return
		}

		if v.Type() != resp.Array || len(v.Array()) == 0 {
			if err := wr.WriteError(errors.New("ERR Protocol error: expected multi-bulk request")); err != nil {
				return
			}
			continue
		}

		args := make([][]byte, len(v.Array()))
		for i, a := range v.Array() {
			args[i] = append([]byte{}, a.Bytes()...)
		}
		name := strings.ToUpper(string(args[0]))

		if raw, ok := s.overrides.Load(name); ok {
			if _, err := conn.Write(raw); err != nil {
				return
			}
			continue
		}

		if name == "QUIT" {
			_ = wr.WriteSimpleString("OK")
			return
		}

		if err := wr.WriteValue(s.execute(state, name, args)); err != nil {
			return
		}
	}
}

// execute checks arity and authentication and runs the command handler
func (s *Server) execute(c *clientState, name string, args [][]byte) resp.Value {
	cmd, ok := commandTable[name]
	if !ok {
		return errorf("ERR unknown command '%s'", strings.ToLower(name))
	}
	if (cmd.arity > 0 && len(args) != cmd.arity) || (cmd.arity < 0 && len(args) < -cmd.arity) {
		return errorf("ERR wrong number of arguments for '%s' command", strings.ToLower(name))
	}
	if !c.authed && name != "AUTH" {
		return errorValue("NOAUTH Authentication required.")
	}

	if cmd.noLock {
		return cmd.fn(s, c, args)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cmd.fn(s, c, args)
}

func (s *Server) now() time.Time {
	return time.Now().Add(time.Duration(s.clockOffset.Load()))
}

func (s *Server) db(c *clientState) *keyspace {
	return s.dbs[c.db]
}
