package client

import (
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/resp"
)

// --------------------------------------------------------------------------
// Lists (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) LPush(key string, values ...codec.Value) (int64, error) {
	cmd, err := i.command("LPUSH", []string{key}, values...)
	if err != nil {
		return 0, err
	}
	return i.integer(cmd)
}

func (i *rpcStore) RPush(key string, values ...codec.Value) (int64, error) {
	cmd, err := i.command("RPUSH", []string{key}, values...)
	if err != nil {
		return 0, err
	}
	return i.integer(cmd)
}

func (i *rpcStore) LPop(key string) (codec.Result, error) {
	return i.bulk(resp.NewStringCommand("LPOP", key))
}

func (i *rpcStore) RPop(key string) (codec.Result, error) {
	return i.bulk(resp.NewStringCommand("RPOP", key))
}

func (i *rpcStore) LRange(key string, start, stop int64) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("LRANGE", key, itoa(start), itoa(stop)))
}

func (i *rpcStore) LIndex(key string, index int64) (codec.Result, error) {
	return i.bulk(resp.NewStringCommand("LINDEX", key, itoa(index)))
}

func (i *rpcStore) LSet(key string, index int64, value codec.Value) error {
	cmd, err := i.command("LSET", []string{key, itoa(index)}, value)
	if err != nil {
		return err
	}
	return i.status(cmd)
}

func (i *rpcStore) LRem(key string, count int64, value codec.Value) (int64, error) {
	cmd, err := i.command("LREM", []string{key, itoa(count)}, value)
	if err != nil {
		return 0, err
	}
	return i.integer(cmd)
}

func (i *rpcStore) LTrim(key string, start, stop int64) error {
	return i.status(resp.NewStringCommand("LTRIM", key, itoa(start), itoa(stop)))
}

func (i *rpcStore) LLen(key string) (int64, error) {
	return i.integer(resp.NewStringCommand("LLEN", key))
}

// --------------------------------------------------------------------------
// Sets (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) SAdd(key string, members ...codec.Value) (int64, error) {
	cmd, err := i.command("SADD", []string{key}, members...)
	if err != nil {
		return 0, err
	}
	return i.integer(cmd)
}

func (i *rpcStore) SRem(key string, members ...codec.Value) (int64, error) {
	cmd, err := i.command("SREM", []string{key}, members...)
	if err != nil {
		return 0, err
	}
	return i.integer(cmd)
}

func (i *rpcStore) SMembers(key string) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("SMEMBERS", key))
}

func (i *rpcStore) SIsMember(key string, member codec.Value) (bool, error) {
	cmd, err := i.command("SISMEMBER", []string{key}, member)
	if err != nil {
		return false, err
	}
	return i.boolean(cmd)
}

func (i *rpcStore) SCard(key string) (int64, error) {
	return i.integer(resp.NewStringCommand("SCARD", key))
}

func (i *rpcStore) SMove(src, dst string, member codec.Value) (bool, error) {
	cmd, err := i.command("SMOVE", []string{src, dst}, member)
	if err != nil {
		return false, err
	}
	return i.boolean(cmd)
}

func (i *rpcStore) SInter(keys ...string) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("SINTER", keys...))
}

func (i *rpcStore) SInterStore(dst string, keys ...string) (int64, error) {
	return i.integer(resp.NewStringCommand("SINTERSTORE", append([]string{dst}, keys...)...))
}

func (i *rpcStore) SUnion(keys ...string) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("SUNION", keys...))
}

func (i *rpcStore) SUnionStore(dst string, keys ...string) (int64, error) {
	return i.integer(resp.NewStringCommand("SUNIONSTORE", append([]string{dst}, keys...)...))
}

func (i *rpcStore) SDiff(keys ...string) ([]codec.Result, error) {
	return i.multiBulk(resp.NewStringCommand("SDIFF", keys...))
}

func (i *rpcStore) SDiffStore(dst string, keys ...string) (int64, error) {
	return i.integer(resp.NewStringCommand("SDIFFSTORE", append([]string{dst}, keys...)...))
}
