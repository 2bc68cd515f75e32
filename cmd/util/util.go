package util

import (
	"fmt"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/client"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"github.com/ValentinKolb/respkv/rpc/transport/tcp"
	"github.com/ValentinKolb/respkv/rpc/transport/unix"
	"github.com/VictoriaMetrics/metrics"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strconv"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// SetupRPCClientFlags adds common connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	defaults := common.DefaultClientConfig()

	key := "endpoint"
	cmd.PersistentFlags().String(key, defaults.Transport.Endpoint, WrapString("The address of the store (host:port for tcp, socket path for unix)"))

	key = "password"
	cmd.PersistentFlags().String(key, "", WrapString("Password sent with AUTH after connecting (empty for no AUTH)"))

	key = "db"
	cmd.PersistentFlags().Int(key, 0, WrapString("Index of the database selected after connecting"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, defaults.TimeoutSecond, WrapString("The timeout in seconds for connecting and for every command (0 for no timeout)"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket write buffer (in KB, 0 for the os default)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket read buffer (in KB, 0 for the os default)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, defaults.Transport.TCPNoDelay, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, defaults.Transport.TCPLingerSec, WrapString("The linger time (in seconds, -1 for the os default, only for tcp)"))

	key = "pool-max-connections"
	cmd.PersistentFlags().Int(key, defaults.Pool.MaxConnections, WrapString("Maximum number of pooled connections (only used by commands that run in parallel)"))

	key = "pool-max-idle"
	cmd.PersistentFlags().Int(key, defaults.Pool.MaxIdle, WrapString("Maximum number of idle pooled connections"))

	key = "pool-min-idle"
	cmd.PersistentFlags().Int(key, 0, WrapString("Number of connections opened when the pool is created"))

	key = "errors-type-mismatch"
	cmd.PersistentFlags().StringSlice(key, defaults.Errors.TypeMismatch, WrapString("Regular expressions that classify an error reply as type mismatch"))

	key = "errors-index-out-of-range"
	cmd.PersistentFlags().StringSlice(key, defaults.Errors.IndexOutOfRange, WrapString("Regular expressions that classify an error reply as index out of range"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("respkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	conf := &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		Password:      viper.GetString("password"),
		DB:            viper.GetInt("db"),
		Transport: common.ClientTransportConfig{
			Endpoint: viper.GetString("endpoint"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
				TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
			},
		},
		Pool: common.PoolConfig{
			MaxConnections: viper.GetInt("pool-max-connections"),
			MaxIdle:        viper.GetInt("pool-max-idle"),
			MinIdle:        viper.GetInt("pool-min-idle"),
		},
		Errors: common.ErrorPatterns{
			TypeMismatch:    viper.GetStringSlice("errors-type-mismatch"),
			IndexOutOfRange: viper.GetStringSlice("errors-index-out-of-range"),
		},
		LogLevel: viper.GetString("log-level"),
	}

	return conf
}

// GetSerializer creates the object serializer based on configuration
func GetSerializer() (serializer.IObjectSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "yaml":
		return serializer.NewYAMLSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetConnector creates the connector based on configuration
func GetConnector() (transport.IClientConnector, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPConnector(), nil
	case "unix":
		return unix.NewUnixConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// NewStore binds the flags of cmd, initializes logging and connects a store client
func NewStore(cmd *cobra.Command) (store.IStore, error) {
	// Bind command flags to viper
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}

	// Get client configuration components
	config := GetClientConfig()
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return nil, err
	}

	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}

	c, err := GetConnector()
	if err != nil {
		return nil, err
	}

	return client.NewRPCStore(*config, c, s)
}

// Finish closes the store and dumps the collected metrics if --metrics is set
func Finish(s store.IStore) error {
	if s != nil {
		_ = s.Close()
	}
	if viper.GetBool("metrics") {
		fmt.Fprintln(os.Stderr)
		metrics.WritePrometheus(os.Stderr, false)
	}
	return nil
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// PrintResult prints a single value in the redis-cli style
func PrintResult(result codec.Result) {
	if result.IsNil() {
		fmt.Println(color.YellowString("(nil)"))
		return
	}
	fmt.Println(color.GreenString(strconv.Quote(result.Text())))
}

// PrintResults prints a numbered list of values
func PrintResults(results []codec.Result) {
	if len(results) == 0 {
		fmt.Println(color.YellowString("(empty list)"))
		return
	}
	for i, r := range results {
		fmt.Printf("%d) ", i+1)
		PrintResult(r)
	}
}

// PrintStrings prints a numbered list of plain strings (e.g. keys)
func PrintStrings(items []string) {
	if len(items) == 0 {
		fmt.Println(color.YellowString("(empty list)"))
		return
	}
	for i, item := range items {
		fmt.Printf("%d) %s\n", i+1, color.GreenString(strconv.Quote(item)))
	}
}

// PrintInteger prints an integer reply
func PrintInteger(n int64) {
	fmt.Println(color.CyanString("(integer) %d", n))
}

// PrintBool prints a boolean reply as integer, like the store does
func PrintBool(b bool) {
	if b {
		PrintInteger(1)
	} else {
		PrintInteger(0)
	}
}

// PrintOK prints a successful status reply
func PrintOK() {
	fmt.Println(color.GreenString("OK"))
}

// ParseInt parses a numeric command argument
func ParseInt(name, arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return n, nil
}
