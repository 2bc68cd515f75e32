package client

import (
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"github.com/ValentinKolb/respkv/rpc/serializer"
	"github.com/ValentinKolb/respkv/rpc/transport"
	"github.com/ValentinKolb/respkv/rpc/transport/base"
	"strconv"
)

// NewRPCStore creates a new store client
// The function dials config.Transport.Endpoint with the given connector (tcp, unix) and runs
// the connection handshake. The serializer is used for object values and may be nil.
// It returns a store.IStore and an error
func NewRPCStore(
	config common.ClientConfig,
	connector transport.IClientConnector,
	serializer serializer.IObjectSerializer,
) (store.IStore, error) {

	// Validate the error patterns before opening a connection
	classifier, err := newErrorClassifier(config.Errors)
	if err != nil {
		return nil, err
	}

	// Connect
	conn, err := base.Dial(connector, config)
	if err != nil {
		return nil, err
	}

	return newRPCStore(config, conn, serializer, classifier), nil
}

// NewRPCStoreFromConn creates a store client on top of an existing connection.
// Closing the store closes the connection.
func NewRPCStoreFromConn(
	conn transport.IConnection,
	config common.ClientConfig,
	serializer serializer.IObjectSerializer,
) (store.IStore, error) {
	classifier, err := newErrorClassifier(config.Errors)
	if err != nil {
		return nil, err
	}
	return newRPCStore(config, conn, serializer, classifier), nil
}

func newRPCStore(config common.ClientConfig, conn transport.IConnection, s serializer.IObjectSerializer, classifier *errorClassifier) *rpcStore {
	return &rpcStore{
		rpcClientAdapter{
			config:     config,
			conn:       conn,
			codec:      codec.NewCodec(s),
			classifier: classifier,
		},
	}
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Close() error {
	return i.conn.Close()
}

// --------------------------------------------------------------------------
// Keys
// --------------------------------------------------------------------------

func (i *rpcStore) Del(keys ...string) (int64, error) {
	return i.integer(resp.NewStringCommand("DEL", keys...))
}

func (i *rpcStore) Exists(key string) (bool, error) {
	return i.boolean(resp.NewStringCommand("EXISTS", key))
}

func (i *rpcStore) Rename(src, dst string) error {
	return i.status(resp.NewStringCommand("RENAME", src, dst))
}

func (i *rpcStore) RenameNX(src, dst string) (bool, error) {
	return i.boolean(resp.NewStringCommand("RENAMENX", src, dst))
}

func (i *rpcStore) Expire(key string, seconds int64) (bool, error) {
	return i.boolean(resp.NewStringCommand("EXPIRE", key, itoa(seconds)))
}

func (i *rpcStore) TTL(key string) (int64, error) {
	return i.integer(resp.NewStringCommand("TTL", key))
}

func (i *rpcStore) Type(key string) (store.KeyType, error) {
	cmd := resp.NewStringCommand("TYPE", key)
	reply, err := i.invoke(cmd)
	if err != nil {
		return store.KeyTNone, err
	}
	if reply.Type != resp.ReplyTStatus {
		return store.KeyTNone, i.protocolViolation(cmd, reply)
	}
	return store.ParseKeyType(reply.Str), nil
}

func (i *rpcStore) Move(key string, db int) (bool, error) {
	return i.boolean(resp.NewStringCommand("MOVE", key, strconv.Itoa(db)))
}

func (i *rpcStore) Keys(pattern string) ([]string, error) {
	return i.strings(resp.NewStringCommand("KEYS", pattern))
}

func (i *rpcStore) RandomKey() (string, bool, error) {
	result, err := i.bulk(resp.NewStringCommand("RANDOMKEY"))
	if err != nil || result.IsNil() {
		return "", false, err
	}
	return result.Text(), true, nil
}

// --------------------------------------------------------------------------
// Strings
// --------------------------------------------------------------------------

func (i *rpcStore) Set(key string, value codec.Value) error {
	cmd, err := i.command("SET", []string{key}, value)
	if err != nil {
		return err
	}
	return i.status(cmd)
}

func (i *rpcStore) Get(key string) (codec.Result, error) {
	return i.bulk(resp.NewStringCommand("GET", key))
}

func (i *rpcStore) SetNX(key string, value codec.Value) (bool, error) {
	cmd, err := i.command("SETNX", []string{key}, value)
	if err != nil {
		return false, err
	}
	return i.boolean(cmd)
}

func (i *rpcStore) GetSet(key string, value codec.Value) (codec.Result, error) {
	cmd, err := i.command("GETSET", []string{key}, value)
	if err != nil {
		return codec.Result{}, err
	}
	return i.bulk(cmd)
}

func (i *rpcStore) MGet(keys ...string) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("MGET", keys...))
}

func (i *rpcStore) Incr(key string) (int64, error) {
	return i.integer(resp.NewStringCommand("INCR", key))
}

func (i *rpcStore) Decr(key string) (int64, error) {
	return i.integer(resp.NewStringCommand("DECR", key))
}

func (i *rpcStore) IncrBy(key string, delta int64) (int64, error) {
	return i.integer(resp.NewStringCommand("INCRBY", key, itoa(delta)))
}

func (i *rpcStore) DecrBy(key string, delta int64) (int64, error) {
	return i.integer(resp.NewStringCommand("DECRBY", key, itoa(delta)))
}
