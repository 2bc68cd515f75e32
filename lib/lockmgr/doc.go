// Package lockmgr implements a locking mechanism on top of any store that implements the
// store.IStore interface. It provides a simple way to coordinate access to shared resources
// across multiple processes that talk to the same store.
//
// The lockmgr only ever stores in the provided IStore and has no other internal
// state. Therefore it is safe to be created multiple times on the same store.
//
// Core Functionality:
//   - Lock acquisition with ownership verification
//   - Automatic lock expiration through configurable timeouts
//   - Safe release operations that verify ownership
//
// Implementation Approach:
//
//	- Lock Acquisition: SETNX of the lock key with a random owner ID as value. The store
//	  executes SETNX atomically, so only one requester can create the key.
//
//	- Timeouts: If a timeout is given, EXPIRE is sent right after a successful SETNX, so the
//	  lock disappears if its holder crashes. A client crash between the two commands leaves a
//	  lock without timeout.
//
//	- Safe Release: ReleaseLock reads the lock value and only deletes the key if it matches
//	  the owner ID of the caller. Read and delete are two commands, a lock that expires in
//	  between can be deleted after another owner acquired it.
//
// Usage Example:
//
//	lockProvider := lockmgr.NewLockManager(store)
//
//	acquired, ownerID, err := lockProvider.AcquireLock("resource:123", 30)
//	if err != nil {
//	    // Handle error
//	}
//
//	if acquired {
//	    // Use the resource
//	    released, err := lockProvider.ReleaseLock("resource:123", ownerID)
//	}
//
// Performance Impact:
//
//	- AcquireLock: One SETNX, plus one EXPIRE if a timeout is set
//	- ReleaseLock: One GET followed by a conditional DEL
package lockmgr
