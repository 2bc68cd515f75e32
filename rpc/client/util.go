package client

import (
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"strconv"
	"time"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed to dispatch typed operations
// over one connection. Used by the rpcStore and the sort query with composition pattern
type rpcClientAdapter struct {
	config     common.ClientConfig
	conn       transport.IConnection
	codec      *codec.Codec
	classifier *errorClassifier
}

// invoke sends one command and returns its reply.
// Error replies are converted into typed errors with the configured classifier,
// so a returned reply is never of type resp.ReplyTError.
func (a *rpcClientAdapter) invoke(cmd resp.Command) (*resp.Reply, error) {
	name := cmd.Name()
	start := time.Now()

	reply, err := a.conn.Do(cmd)

	metrics.GetOrCreateHistogram(fmt.Sprintf(`respkv_client_command_duration_seconds{command=%q}`, name)).UpdateDuration(start)
	metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_client_commands_total{command=%q}`, name)).Inc()

	if err != nil {
		countError(err)
		Logger.Debugf("%s failed: %v", name, err)
		return nil, err
	}

	if reply.IsError() {
		err := a.classifier.classify(reply.Str)
		countError(err)
		Logger.Debugf("%s returned error reply: %s", name, reply.Str)
		return nil, err
	}

	return reply, nil
}

// protocolViolation is called when the store answered with a reply type the command never
// produces. The stream can no longer be trusted, so the connection is closed.
func (a *rpcClientAdapter) protocolViolation(cmd resp.Command, reply *resp.Reply) error {
	err := common.Errorf(common.ErrCFormat, "%s: unexpected %s reply %s", cmd.Name(), reply.Type, reply)
	countError(err)
	Logger.Warningf("Closing connection to %s: %v", a.conn.Endpoint(), err)
	_ = a.conn.Close()
	return err
}

func countError(err error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`respkv_client_errors_total{kind=%q}`, common.CodeOf(err))).Inc()
}

// --------------------------------------------------------------------------
// Reply Mapping
// --------------------------------------------------------------------------

// status expects a status reply (e.g. OK)
func (a *rpcClientAdapter) status(cmd resp.Command) error {
	reply, err := a.invoke(cmd)
	if err != nil {
		return err
	}
	if reply.Type != resp.ReplyTStatus {
		return a.protocolViolation(cmd, reply)
	}
	return nil
}

// integer expects an integer reply
func (a *rpcClientAdapter) integer(cmd resp.Command) (int64, error) {
	reply, err := a.invoke(cmd)
	if err != nil {
		return 0, err
	}
	if reply.Type != resp.ReplyTInteger {
		return 0, a.protocolViolation(cmd, reply)
	}
	return reply.Int, nil
}

// boolean expects a non-negative integer reply, 0 is false and everything above is true
func (a *rpcClientAdapter) boolean(cmd resp.Command) (bool, error) {
	reply, err := a.invoke(cmd)
	if err != nil {
		return false, err
	}
	if reply.Type != resp.ReplyTInteger || reply.Int < 0 {
		return false, a.protocolViolation(cmd, reply)
	}
	return reply.Int > 0, nil
}

// bulk expects a bulk reply, the nil bulk becomes a nil result
func (a *rpcClientAdapter) bulk(cmd resp.Command) (codec.Result, error) {
	reply, err := a.invoke(cmd)
	if err != nil {
		return codec.Result{}, err
	}
	if reply.Type != resp.ReplyTBulk {
		return codec.Result{}, a.protocolViolation(cmd, reply)
	}
	if reply.Nil {
		return codec.NilResult(a.codec), nil
	}
	return codec.NewResult(reply.Bulk, a.codec), nil
}

// multiBulk expects a multi-bulk reply. Nil elements stay in position,
// the nil multi-bulk becomes an empty slice.
func (a *rpcClientAdapter) multiBulk(cmd resp.Command) ([]codec.Result, error) {
	reply, err := a.invoke(cmd)
	if err != nil {
		return nil, err
	}
	if reply.Type != resp.ReplyTMultiBulk {
		return nil, a.protocolViolation(cmd, reply)
	}
	items, err := reply.BulkArray()
	if err != nil {
		return nil, a.protocolViolation(cmd, reply)
	}
	return codec.NewResults(items, a.codec), nil
}

// strings expects a multi-bulk reply of text values (e.g. KEYS)
func (a *rpcClientAdapter) strings(cmd resp.Command) ([]string, error) {
	results, err := a.multiBulk(cmd)
	if err != nil {
		return nil, err
	}
	return codec.Strings(results), nil
}

// --------------------------------------------------------------------------
// Command Building
// --------------------------------------------------------------------------

// command builds a command from string arguments followed by encoded values
func (a *rpcClientAdapter) command(name string, keys []string, values ...codec.Value) (resp.Command, error) {
	encoded, err := a.codec.ToBytesAll(values)
	if err != nil {
		return resp.Command{}, err
	}
	args := make([][]byte, 0, len(keys)+len(encoded))
	for _, k := range keys {
		args = append(args, []byte(k))
	}
	return resp.NewCommand(name, append(args, encoded...)...), nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
