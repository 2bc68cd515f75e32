package transport

import (
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"net"
	"time"
)

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

// IConnection is one stream connection to the store. It sends one command at a time and
// reads exactly one reply frame for it.
type IConnection interface {
	// Do writes the command and reads its reply. The whole write+read cycle is a critical
	// section: concurrent callers never interleave their frames.
	//
	// An error reply of the store is NOT an error of Do, it is returned as a reply of type
	// resp.ReplyTError. Transport, timeout and format errors are returned as *common.Error,
	// close the underlying socket and leave the connection broken (Valid() returns false).
	Do(cmd resp.Command) (*resp.Reply, error)

	// Valid reports whether the connection can still be used
	Valid() bool

	// Close closes the connection. Calling Close more than once is a no-op.
	Close() error

	// Endpoint returns the endpoint the connection was dialed to
	Endpoint() string
}

// --------------------------------------------------------------------------
// Connector (used by the base connection for tcp, unix, etc.)
// --------------------------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to the endpoint (timeout 0 = no timeout)
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientTransportConfig) error
}
