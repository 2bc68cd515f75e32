package client

import (
	"github.com/ValentinKolb/respkv/rpc/resp"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Administration (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Ping() error {
	return i.status(resp.NewStringCommand("PING"))
}

func (i *rpcStore) FlushDB() error {
	return i.status(resp.NewStringCommand("FLUSHDB"))
}

func (i *rpcStore) FlushAll() error {
	return i.status(resp.NewStringCommand("FLUSHALL"))
}

func (i *rpcStore) Save() error {
	return i.status(resp.NewStringCommand("SAVE"))
}

func (i *rpcStore) BgSave() error {
	return i.status(resp.NewStringCommand("BGSAVE"))
}

func (i *rpcStore) LastSave() (time.Time, error) {
	n, err := i.integer(resp.NewStringCommand("LASTSAVE"))
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0), nil
}

func (i *rpcStore) DBSize() (int64, error) {
	return i.integer(resp.NewStringCommand("DBSIZE"))
}

func (i *rpcStore) Info() (map[string]string, error) {
	result, err := i.bulk(resp.NewStringCommand("INFO"))
	if err != nil {
		return nil, err
	}
	return parseInfo(result.Text()), nil
}

func (i *rpcStore) Select(db int) error {
	return i.status(resp.NewStringCommand("SELECT", strconv.Itoa(db)))
}

// parseInfo parses the "key:value" lines of an INFO reply.
// Section headers ("# Server") and empty lines are skipped.
func parseInfo(text string) map[string]string {
	info := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		info[key] = value
	}
	return info
}
