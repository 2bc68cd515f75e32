package lockmgr

import (
	"bytes"
	"crypto/rand"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"math"
)

var Logger = logger.GetLogger("lockmgr")

// ownerIDSize is the number of random bytes stored as lock value
const ownerIDSize = 32

type lockMgrImpl struct {
	store store.IStore
}

func NewLockManager(store store.IStore) ILockManager {
	return &lockMgrImpl{
		store: store,
	}
}

func (lm *lockMgrImpl) AcquireLock(key string, timeout uint64) (bool, []byte, error) {
	// EXPIRE takes a signed value, a negative one would delete the lock right away
	if timeout > math.MaxInt64 {
		return false, nil, common.Errorf(common.ErrCIllegalState, "lock timeout %d out of range", timeout)
	}

	// Generate the owner id (random value)
	ownerID := make([]byte, ownerIDSize)
	if _, err := rand.Read(ownerID); err != nil {
		return false, nil, err
	}

	// Try to acquire the lock (by setting the value only if it doesn't exist - atomic on the store)
	ok, err := lm.store.SetNX(key, codec.Bytes(ownerID))
	if err != nil {
		Logger.Warningf("Error setting lock %q: %v", key, err)
		return false, nil, err
	}

	// Lock is held by someone else
	if !ok {
		return false, nil, nil
	}

	// Let the lock expire if its owner never releases it
	if timeout > 0 {
		if _, err := lm.store.Expire(key, int64(timeout)); err != nil {
			Logger.Warningf("Error setting timeout of lock %q, releasing it: %v", key, err)
			_, _ = lm.ReleaseLock(key, ownerID)
			return false, nil, err
		}
	}

	return true, ownerID, nil
}

func (lm *lockMgrImpl) ReleaseLock(key string, ownerID []byte) (bool, error) {
	// Check if the lock exists
	value, err := lm.store.Get(key)
	if err != nil {
		return false, err
	}
	if value.IsNil() {
		return true, nil
	}

	// Check if the lock is owned by us
	if !bytes.Equal(ownerID, value.Bytes()) {
		return false, nil
	}

	// Release the lock
	_, err = lm.store.Del(key)
	return err == nil, err
}
