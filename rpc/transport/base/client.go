package base

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("transport/rpc")

const (
	defaultBufferSize = 16 * 1024 // 16 KB
	maxRetainedBuffer = 1 << 20   // encode buffers above 1 MB are not kept between commands
)

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientConnection implements transport.IConnection on top of any net.Conn
// independent of the specific transport medium (unix, tcp, etc.)
type clientConnection struct {
	conn     net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer
	endpoint string
	name     string
	timeout  time.Duration

	connMu sync.Mutex // Held for one full write+read cycle
	buf    []byte     // Encode buffer, protected by connMu

	broken atomic.Bool
	closed atomic.Bool

	bytesWritten *metrics.Counter
	commands     *metrics.Counter
	failures     *metrics.Counter
}

// -----------------------------------------------------------
// Connection Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// Dial opens a connection to config.Transport.Endpoint with the given connector and runs the
// handshake (AUTH if a password is configured, SELECT if a database other than 0 is configured).
//
// Errors:
//   - common.ErrCTransport if the endpoint could not be reached in time, the socket could not be
//     configured or the handshake got no reply (timeouts included)
//   - common.ErrCRemote if the store rejected AUTH or SELECT
func Dial(connector transport.IClientConnector, config common.ClientConfig) (transport.IConnection, error) {
	endpoint := config.Transport.Endpoint
	if endpoint == "" {
		return nil, common.NewError(common.ErrCTransport, "no endpoint provided")
	}

	timeout := time.Duration(config.TimeoutSecond) * time.Second

	// Connect to the endpoint
	conn, err := connector.Connect(endpoint, timeout)
	if err != nil {
		return nil, connectError(fmt.Sprintf("connect to %s", endpoint), err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := connector.UpgradeConnection(conn, config.Transport); err != nil {
		conn.Close()
		return nil, connectError(fmt.Sprintf("upgrade connection to %s", endpoint), err)
	}

	c := newClientConnection(conn, connector.GetName(), endpoint, timeout, config.Transport.SocketConf)

	if err := c.handshake(config); err != nil {
		c.Close()
		if common.CodeOf(err) == common.ErrCTimeout {
			return nil, connectError(fmt.Sprintf("handshake with %s", endpoint), err)
		}
		return nil, err
	}

	Logger.Infof("Connected to %s using %s transport", endpoint, c.name)
	return c, nil
}

// connectError classifies a failure while establishing a connection. A timeout at this
// point means the endpoint is unreachable, so it is reported as a transport error.
func connectError(op string, err error) error {
	var e *common.Error
	if errors.As(err, &e) && e.Err != nil {
		err = e.Err
	}
	return &common.Error{Code: common.ErrCTransport, Msg: op, Err: err}
}

// NewConnection wraps an already established net.Conn. No handshake is performed.
func NewConnection(conn net.Conn, name string, config common.ClientConfig) transport.IConnection {
	return newClientConnection(conn, name, conn.RemoteAddr().String(),
		time.Duration(config.TimeoutSecond)*time.Second, config.Transport.SocketConf)
}

func newClientConnection(conn net.Conn, name, endpoint string, timeout time.Duration, sock common.SocketConf) *clientConnection {
	readSize := defaultBufferSize
	if sock.ReadBufferSize > readSize {
		readSize = sock.ReadBufferSize
	}
	writeSize := defaultBufferSize
	if sock.WriteBufferSize > writeSize {
		writeSize = sock.WriteBufferSize
	}

	return &clientConnection{
		conn:         conn,
		reader:       bufio.NewReaderSize(conn, readSize),
		writer:       bufio.NewWriterSize(conn, writeSize),
		endpoint:     endpoint,
		name:         name,
		timeout:      timeout,
		bytesWritten: metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_transport_bytes_written_total{transport=%q}`, name)),
		commands:     metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_transport_commands_total{transport=%q}`, name)),
		failures:     metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_transport_broken_connections_total{transport=%q}`, name)),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IConnection)
// --------------------------------------------------------------------------

func (c *clientConnection) Do(cmd resp.Command) (*resp.Reply, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.closed.Load() {
		return nil, common.NewError(common.ErrCTransport, "connection is closed")
	}
	if c.broken.Load() {
		return nil, common.NewError(common.ErrCTransport, "connection is broken")
	}

	// Set the deadline for the whole cycle
	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, c.fail(common.WrapIOError("set deadline", err))
		}
	}

	// Encode and write the command
	c.buf = cmd.AppendTo(c.buf[:0])
	if _, err := c.writer.Write(c.buf); err != nil {
		return nil, c.fail(common.WrapIOError("write command", err))
	}
	if err := c.writer.Flush(); err != nil {
		return nil, c.fail(common.WrapIOError("flush command", err))
	}
	c.bytesWritten.Add(len(c.buf))
	if cap(c.buf) > maxRetainedBuffer {
		c.buf = nil
	}

	// Read exactly one reply frame
	reply, err := resp.Decode(c.reader)
	if err != nil {
		return nil, c.fail(err)
	}

	c.commands.Inc()
	return reply, nil
}

func (c *clientConnection) Valid() bool {
	return !c.closed.Load() && !c.broken.Load()
}

func (c *clientConnection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	Logger.Debugf("Closing connection to %s", c.endpoint)
	return c.conn.Close()
}

func (c *clientConnection) Endpoint() string {
	return c.endpoint
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// fail marks the connection as broken and closes the socket. A partially read or written
// frame cannot be recovered, so the connection is never reused after a failure.
func (c *clientConnection) fail(err error) error {
	if c.closed.Load() {
		// closed by the user while the command was in flight
		return common.WrapIOError("connection closed during command", err)
	}
	if !c.broken.Swap(true) {
		c.failures.Inc()
		Logger.Warningf("Connection to %s is broken: %v", c.endpoint, err)
		c.conn.Close()
	}
	return err
}

// handshake authenticates and selects the database if configured
func (c *clientConnection) handshake(config common.ClientConfig) error {
	if config.Password != "" {
		if err := c.expectOK(resp.NewStringCommand("AUTH", config.Password)); err != nil {
			return err
		}
	}
	if config.DB != 0 {
		if err := c.expectOK(resp.NewStringCommand("SELECT", strconv.Itoa(config.DB))); err != nil {
			return err
		}
	}
	return nil
}

func (c *clientConnection) expectOK(cmd resp.Command) error {
	reply, err := c.Do(cmd)
	if err != nil {
		return err
	}
	switch reply.Type {
	case resp.ReplyTStatus:
		return nil
	case resp.ReplyTError:
		return common.Errorf(common.ErrCRemote, "%s failed: %s", cmd.Name(), reply.Str)
	default:
		return common.Errorf(common.ErrCFormat, "%s: unexpected %s reply", cmd.Name(), reply.Type)
	}
}
