package store

import (
	"fmt"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IKeyStore groups the operations that work on keys regardless of the kind of value they hold.
type IKeyStore interface {
	// Del deletes the keys and returns how many of them existed.
	Del(keys ...string) (deleted int64, err error)
	// Exists returns whether the key exists.
	Exists(key string) (exists bool, err error)
	// Rename renames src to dst, overwriting dst. Fails with a remote error if src does not exist.
	Rename(src, dst string) (err error)
	// RenameNX renames src to dst only if dst does not exist. Returns false (and changes nothing) if dst exists.
	RenameNX(src, dst string) (renamed bool, err error)
	// Expire sets a time to live in seconds. Returns false if the key does not exist.
	Expire(key string, seconds int64) (ok bool, err error)
	// TTL returns the remaining time to live in seconds. The store reports a negative sentinel
	// (-1, or -2 on newer store versions for missing keys) if the key has no time to live.
	TTL(key string) (seconds int64, err error)
	// Type returns the kind of value stored at key (KeyTNone if the key does not exist).
	Type(key string) (t KeyType, err error)
	// Move moves the key into another database. Returns false if the key does not exist
	// or already exists in the target database.
	Move(key string, db int) (moved bool, err error)
	// Keys returns all keys matching a glob pattern (e.g. "user:*").
	Keys(pattern string) (keys []string, err error)
	// RandomKey returns a random key. found is false if the database is empty.
	RandomKey() (key string, found bool, err error)
}

// IStringStore groups the operations on string values.
type IStringStore interface {
	// Set stores the value at key, replacing any value and time to live.
	Set(key string, value codec.Value) (err error)
	// Get returns the value stored at key. The result is nil if the key does not exist.
	Get(key string) (value codec.Result, err error)
	// SetNX stores the value only if the key does not exist. Returns whether it was stored.
	SetNX(key string, value codec.Value) (ok bool, err error)
	// GetSet stores the value and returns the old one (nil if the key did not exist).
	GetSet(key string, value codec.Value) (old codec.Result, err error)
	// MGet returns the values of all keys in order. Missing keys are nil results at their position.
	MGet(keys ...string) (values []codec.Result, err error)
	// Incr increments the counter at key by one and returns the new value.
	// A missing key counts as 0, a non-numeric value fails with a type mismatch.
	Incr(key string) (value int64, err error)
	// Decr decrements the counter at key by one and returns the new value.
	Decr(key string) (value int64, err error)
	// IncrBy increments the counter at key by delta and returns the new value.
	IncrBy(key string, delta int64) (value int64, err error)
	// DecrBy decrements the counter at key by delta and returns the new value.
	DecrBy(key string, delta int64) (value int64, err error)
}

// IListStore groups the operations on list values. Indices are zero based,
// negative indices count from the end (-1 is the last element).
type IListStore interface {
	// LPush prepends the values one after another and returns the new length.
	// LPush(k, a, b) results in the list [b, a].
	LPush(key string, values ...codec.Value) (length int64, err error)
	// RPush appends the values and returns the new length.
	RPush(key string, values ...codec.Value) (length int64, err error)
	// LPop removes and returns the first element (nil if the list is empty or missing).
	LPop(key string) (value codec.Result, err error)
	// RPop removes and returns the last element (nil if the list is empty or missing).
	RPop(key string) (value codec.Result, err error)
	// LRange returns the elements between start and stop (both inclusive).
	LRange(key string, start, stop int64) (values []codec.Result, err error)
	// LIndex returns the element at index (nil if out of range).
	LIndex(key string, index int64) (value codec.Result, err error)
	// LSet replaces the element at index. Fails with an index error if index is out of range.
	LSet(key string, index int64, value codec.Value) (err error)
	// LRem removes occurrences of value: count > 0 from the head, count < 0 from the tail,
	// count = 0 all. Returns the number of removed elements.
	LRem(key string, count int64, value codec.Value) (removed int64, err error)
	// LTrim keeps only the elements between start and stop (both inclusive).
	LTrim(key string, start, stop int64) (err error)
	// LLen returns the length of the list (0 if missing).
	LLen(key string) (length int64, err error)
}

// ISetStore groups the operations on set values.
type ISetStore interface {
	// SAdd adds the members and returns how many were not yet in the set.
	SAdd(key string, members ...codec.Value) (added int64, err error)
	// SRem removes the members and returns how many were in the set.
	SRem(key string, members ...codec.Value) (removed int64, err error)
	// SMembers returns all members.
	SMembers(key string) (members []codec.Result, err error)
	// SIsMember returns whether member is in the set.
	SIsMember(key string, member codec.Value) (ok bool, err error)
	// SCard returns the number of members (0 if missing).
	SCard(key string) (count int64, err error)
	// SMove moves member from src to dst. Returns false if member is not in src.
	SMove(src, dst string, member codec.Value) (moved bool, err error)
	// SInter returns the intersection of all sets.
	SInter(keys ...string) (members []codec.Result, err error)
	// SInterStore stores the intersection in dst and returns its size.
	SInterStore(dst string, keys ...string) (count int64, err error)
	// SUnion returns the union of all sets.
	SUnion(keys ...string) (members []codec.Result, err error)
	// SUnionStore stores the union in dst and returns its size.
	SUnionStore(dst string, keys ...string) (count int64, err error)
	// SDiff returns the members of the first set that are in none of the others.
	SDiff(keys ...string) (members []codec.Result, err error)
	// SDiffStore stores the difference in dst and returns its size.
	SDiffStore(dst string, keys ...string) (count int64, err error)
}

// IAdminStore groups the administrative operations.
type IAdminStore interface {
	// Ping checks that the store answers.
	Ping() (err error)
	// FlushDB removes all keys of the selected database.
	FlushDB() (err error)
	// FlushAll removes all keys of all databases.
	FlushAll() (err error)
	// Save makes the store persist its data synchronously.
	Save() (err error)
	// BgSave makes the store persist its data in the background.
	BgSave() (err error)
	// LastSave returns the time of the last successful save.
	LastSave() (t time.Time, err error)
	// DBSize returns the number of keys in the selected database.
	DBSize() (size int64, err error)
	// Info returns the server information as key value pairs.
	Info() (info map[string]string, err error)
	// Select switches the connection to another database.
	Select(db int) (err error)
}

// IStore is the typed client interface for a key-value store.
// All methods return a *common.Error on failure. "Not found" is never an error,
// it is reported as a nil result, false or 0.
type IStore interface {
	IKeyStore
	IStringStore
	IListStore
	ISetStore
	IAdminStore

	// Sort starts a sort query for the list or set at key.
	Sort(key string) ISortQuery

	// Close closes the underlying connection.
	Close() (err error)
}

// ISortQuery is a single-use builder for a sort command. The modifiers can be applied in any
// order; for mutually exclusive modifiers (Asc/Desc, Alpha/Numeric) the last call wins.
// Exec can be called exactly once, a second call fails with an illegal state error.
type ISortQuery interface {
	// Asc sorts in ascending order (default).
	Asc() ISortQuery
	// Desc sorts in descending order.
	Desc() ISortQuery
	// Alpha sorts lexicographically instead of numerically.
	Alpha() ISortQuery
	// Numeric sorts by numeric value (default).
	Numeric() ISortQuery
	// Limit returns count elements starting at offset.
	Limit(offset, count int64) ISortQuery
	// By sorts by the values of external keys, '*' in pattern is replaced by the element.
	By(pattern string) ISortQuery
	// Get returns the values of external keys instead of the elements, '#' returns the element
	// itself. Can be called multiple times.
	Get(pattern string) ISortQuery
	// Store stores the result as a list at dst. Exec then returns the length of the stored list
	// as the only (number) result.
	Store(dst string) ISortQuery
	// Command returns the command that Exec sends with the current modifiers.
	Command() resp.Command
	// Exec sends the command and returns the sorted values.
	Exec() (values []codec.Result, err error)
}

// --------------------------------------------------------------------------
// Key Types
// --------------------------------------------------------------------------

// KeyType is the kind of value stored at a key
type KeyType uint8

const (
	KeyTNone    KeyType = iota // 0: The key does not exist.
	KeyTString                 // 1: String value.
	KeyTList                   // 2: List value.
	KeyTSet                    // 3: Set value.
	KeyTZSet                   // 4: Sorted set value.
	KeyTHash                   // 5: Hash value.
	KeyTUnknown                // 6: A type this client does not know.
)

func (t KeyType) String() string {
	switch t {
	case KeyTNone:
		return "none"
	case KeyTString:
		return "string"
	case KeyTList:
		return "list"
	case KeyTSet:
		return "set"
	case KeyTZSet:
		return "zset"
	case KeyTHash:
		return "hash"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// ParseKeyType converts the reply of the TYPE command. Unknown names map to KeyTUnknown.
func ParseKeyType(s string) KeyType {
	switch strings.ToLower(s) {
	case "none":
		return KeyTNone
	case "string":
		return KeyTString
	case "list":
		return KeyTList
	case "set":
		return KeyTSet
	case "zset":
		return KeyTZSet
	case "hash":
		return KeyTHash
	default:
		return KeyTUnknown
	}
}
