package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration structs
// --------------------------------------------------------------------------

// SocketConf holds socket options shared by all stream transports
type SocketConf struct {
	// WriteBufferSize is the size of the socket write buffer in bytes (0 = os default)
	WriteBufferSize int
	// ReadBufferSize is the size of the socket read buffer in bytes (0 = os default)
	ReadBufferSize int
}

// TCPConf holds TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ClientTransportConfig holds all settings for the client side transport
type ClientTransportConfig struct {
	// Endpoint is host:port for tcp or a socket path for unix
	Endpoint string
	SocketConf
	TCPConf
}

// PoolConfig controls the connection pool (rpc/pool)
type PoolConfig struct {
	MaxConnections int
	MaxIdle        int
	MinIdle        int
}

// ErrorPatterns holds the regular expressions used to classify error replies.
// The exact error texts are a contract of the remote store version, so they are configurable.
type ErrorPatterns struct {
	TypeMismatch    []string
	IndexOutOfRange []string
}

// DefaultTypeMismatchPatterns match the error replies a store sends when a key holds the
// wrong kind of value, or a counter operation hits a non-numeric value
var DefaultTypeMismatchPatterns = []string{
	`^WRONGTYPE`,
	`wrong kind of value`,
	`not an integer`,
}

// DefaultIndexOutOfRangePatterns match the error reply of LSET with an index outside the list
var DefaultIndexOutOfRangePatterns = []string{
	`index out of range`,
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all parameters needed to open and use a connection to the store
type ClientConfig struct {
	// TimeoutSecond is used for dialing and as read/write deadline per command (0 = no timeout)
	TimeoutSecond int

	// Password is sent with AUTH during the handshake (empty = no AUTH)
	Password string

	// DB is selected with SELECT during the handshake (0 = no SELECT)
	DB int

	Transport ClientTransportConfig
	Pool      PoolConfig
	Errors    ErrorPatterns

	// Logging configuration
	LogLevel string
}

// DefaultClientConfig returns a configuration for a local store on the default port
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		TimeoutSecond: 5,
		Transport: ClientTransportConfig{
			Endpoint: "localhost:6379",
			TCPConf: TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
		},
		Pool: PoolConfig{
			MaxConnections: 8,
			MaxIdle:        8,
		},
		Errors: ErrorPatterns{
			TypeMismatch:    DefaultTypeMismatchPatterns,
			IndexOutOfRange: DefaultIndexOutOfRangePatterns,
		},
		LogLevel: "info",
	}
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Database", strconv.Itoa(c.DB))
	addField("Auth", strconv.FormatBool(c.Password != ""))

	// Socket settings
	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.Transport.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.Transport.ReadBufferSize))
	addField("TCP NoDelay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.Transport.TCPLingerSec))

	// Pool
	addSection("Pool")
	addField("Max Connections", strconv.Itoa(c.Pool.MaxConnections))
	addField("Max Idle", strconv.Itoa(c.Pool.MaxIdle))
	addField("Min Idle", strconv.Itoa(c.Pool.MinIdle))

	// Error classification
	addSection("Error Patterns")
	addField("Type Mismatch", strings.Join(c.Errors.TypeMismatch, " | "))
	addField("Index Out Of Range", strings.Join(c.Errors.IndexOutOfRange, " | "))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
