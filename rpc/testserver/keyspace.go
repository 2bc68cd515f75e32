package testserver

import (
	"errors"
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tidwall/resp"
	"sort"
	"strconv"
	"time"
)

// Error texts of the real store
const (
	msgWrongType       = "WRONGTYPE Operation against a key holding the wrong kind of value"
	msgNotInteger      = "ERR value is not an integer or out of range"
	msgNoSuchKey       = "ERR no such key"
	msgIndexOutOfRange = "ERR index out of range"
	msgSyntax          = "ERR syntax error"
	msgOverflow        = "ERR increment or decrement would overflow"
	msgDBOutOfRange    = "ERR DB index is out of range"
	msgSameObject      = "ERR source and destination objects are the same"
	msgNotDouble       = "ERR One or more scores can't be converted into double"
)

// --------------------------------------------------------------------------
// Entries
// --------------------------------------------------------------------------

type kind uint8

const (
	kindString kind = iota + 1
	kindList
	kindSet
)

func (k kind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindList:
		return "list"
	case kindSet:
		return "set"
	default:
		return "none"
	}
}

// entry is one value of the keyspace. Only the field matching kind is used.
type entry struct {
	kind     kind
	str      []byte
	list     [][]byte
	set      map[string]struct{}
	expireAt time.Time // zero = no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

func newStringEntry(b []byte) *entry {
	return &entry{kind: kindString, str: b}
}

func newListEntry() *entry {
	return &entry{kind: kindList}
}

func newSetEntry() *entry {
	return &entry{kind: kindSet, set: make(map[string]struct{})}
}

// members returns the set members in lexicographic order
func (e *entry) members() [][]byte {
	keys := make([]string, 0, len(e.set))
	for m := range e.set {
		keys = append(keys, m)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out
}

// --------------------------------------------------------------------------
// Keyspace (one database)
// --------------------------------------------------------------------------

type keyspace struct {
	data *xsync.MapOf[string, *entry]
}

func newKeyspace() *keyspace {
	return &keyspace{data: xsync.NewMapOf[string, *entry]()}
}

// get returns the live entry for key and drops it if it has expired
func (k *keyspace) get(key string, now time.Time) *entry {
	e, ok := k.data.Load(key)
	if !ok {
		return nil
	}
	if e.expired(now) {
		k.data.Delete(key)
		return nil
	}
	return e
}

func (k *keyspace) put(key string, e *entry) {
	k.data.Store(key, e)
}

func (k *keyspace) del(key string) {
	k.data.Delete(key)
}

func (k *keyspace) flush() {
	k.data.Clear()
}

// keys returns all live keys in lexicographic order
func (k *keyspace) keys(now time.Time) []string {
	var out, expired []string
	k.data.Range(func(key string, e *entry) bool {
		if e.expired(now) {
			expired = append(expired, key)
		} else {
			out = append(out, key)
		}
		return true
	})
	for _, key := range expired {
		k.data.Delete(key)
	}
	sort.Strings(out)
	return out
}

// volatile returns the number of live keys with an expiry
func (k *keyspace) volatile(now time.Time) int {
	n := 0
	k.data.Range(func(_ string, e *entry) bool {
		if !e.expireAt.IsZero() && !e.expired(now) {
			n++
		}
		return true
	})
	return n
}

// --------------------------------------------------------------------------
// Typed Lookups
// --------------------------------------------------------------------------

// lookup returns the entry for key if it has the wanted kind.
// wrongType is true if the key exists with another kind.
func (k *keyspace) lookup(key string, want kind, now time.Time) (e *entry, wrongType bool) {
	e = k.get(key, now)
	if e == nil {
		return nil, false
	}
	if e.kind != want {
		return nil, true
	}
	return e, false
}

// --------------------------------------------------------------------------
// Reply Helpers
// --------------------------------------------------------------------------

func okValue() resp.Value {
	return resp.SimpleStringValue("OK")
}

func intValue(n int64) resp.Value {
	return resp.IntegerValue(int(n))
}

func boolValue(b bool) resp.Value {
	if b {
		return resp.IntegerValue(1)
	}
	return resp.IntegerValue(0)
}

func bulkValue(b []byte) resp.Value {
	if b == nil {
		return resp.NullValue()
	}
	return resp.BytesValue(b)
}

func arrayValue(items [][]byte) resp.Value {
	vals := make([]resp.Value, len(items))
	for i, item := range items {
		vals[i] = bulkValue(item)
	}
	return resp.ArrayValue(vals)
}

func errorValue(msg string) resp.Value {
	return resp.ErrorValue(errors.New(msg))
}

func errorf(format string, args ...any) resp.Value {
	return resp.ErrorValue(fmt.Errorf(format, args...))
}

func parseInt(b []byte) (int64, bool) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	return n, err == nil
}

// rangeBounds normalizes inclusive start/stop indices (negative = from the end)
// for a sequence of length n. ok is false if the range is empty.
func rangeBounds(start, stop int64, n int) (lo, hi int, ok bool) {
	length := int64(n)
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if start > stop || start >= length {
		return 0, 0, false
	}
	if stop >= length {
		stop = length - 1
	}
	return int(start), int(stop), true
}
