package client

import (
	"github.com/ValentinKolb/respkv/lib/lockmgr"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/transport"
)

// NewRPCLockMgr creates a lock manager backed by its own store connection
// The function takes a config and a connector (tcp, unix) as parameters
// It returns the lock manager and a function that closes the connection
func NewRPCLockMgr(
	config common.ClientConfig,
	connector transport.IClientConnector,
) (lockmgr.ILockManager, func() error, error) {

	// Lock values are raw owner ids, no serializer needed
	s, err := NewRPCStore(config, connector, nil)
	if err != nil {
		return nil, nil, err
	}

	return lockmgr.NewLockManager(s), s.Close, nil
}
