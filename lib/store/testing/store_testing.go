package testing

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"reflect"
	"sort"
	"testing"
)

// StoreFactory is a function that creates a new store client on an empty database.
// The returned store needs an object serializer.
type StoreFactory func() store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("ValueShapes", func(t *testing.T) {
			testValueShapes(t, factory())
		})

		t.Run("SetNX&GetSet", func(t *testing.T) {
			testSetNXGetSet(t, factory())
		})

		t.Run("MGet", func(t *testing.T) {
			testMGet(t, factory())
		})

		t.Run("Counters", func(t *testing.T) {
			testCounters(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("Expire", func(t *testing.T) {
			testExpire(t, factory())
		})

		t.Run("Lists", func(t *testing.T) {
			testLists(t, factory())
		})

		t.Run("ListMutation", func(t *testing.T) {
			testListMutation(t, factory())
		})

		t.Run("Sets", func(t *testing.T) {
			testSets(t, factory())
		})

		t.Run("SetAlgebra", func(t *testing.T) {
			testSetAlgebra(t, factory())
		})

		t.Run("WrongType", func(t *testing.T) {
			testWrongType(t, factory())
		})

		t.Run("Sort", func(t *testing.T) {
			testSort(t, factory())
		})

		t.Run("SortPatterns", func(t *testing.T) {
			testSortPatterns(t, factory())
		})

		t.Run("Admin", func(t *testing.T) {
			testAdmin(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireCode(t testing.TB, err error, code common.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := common.CodeOf(err); got != code {
		t.Fatalf("expected %s error, got %s (%v)", code, got, err)
	}
}

// texts converts a multi value reply into strings, failing the test on error
func texts(t testing.TB) func([]codec.Result, error) []string {
	return func(results []codec.Result, err error) []string {
		t.Helper()
		must(t, err)
		return codec.Strings(results)
	}
}

func sorted(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("test-key", codec.Text("test-value1")))

	result, err := s.Get("test-key")
	must(t, err)
	if result.IsNil() || result.Text() != "test-value1" {
		t.Errorf("Expected value test-value1, got %s", result)
	}

	must(t, s.Set("test-key", codec.Text("test-value2")))
	result, err = s.Get("test-key")
	must(t, err)
	if result.Text() != "test-value2" {
		t.Errorf("Expected value test-value2, got %s", result)
	}

	result, err = s.Get("nonexistent-key")
	must(t, err)
	if !result.IsNil() {
		t.Errorf("Expected nil result for nonexistent key, got %s", result)
	}

	// the empty value is a value and not nil
	must(t, s.Set("empty", codec.Bytes(nil)))
	result, err = s.Get("empty")
	must(t, err)
	if result.IsNil() {
		t.Errorf("Empty value should not be nil")
	}
	if b := result.Bytes(); b == nil || len(b) != 0 {
		t.Errorf("Expected empty bytes, got %v", b)
	}
}

func testValueShapes(t *testing.T, s store.IStore) {
	defer s.Close()

	type object struct {
		Name string
		Tags []string
	}

	binary := []byte{0, 1, 2, '\r', '\n', 255}

	must(t, s.Set("bytes", codec.Bytes(binary)))
	must(t, s.Set("text", codec.Text("grüße")))
	must(t, s.Set("number", codec.Number(-42)))
	must(t, s.Set("object", codec.Object(object{Name: "a", Tags: []string{"x", "y"}})))

	result, err := s.Get("bytes")
	must(t, err)
	if !bytes.Equal(result.Bytes(), binary) {
		t.Errorf("Expected bytes %v, got %v", binary, result.Bytes())
	}

	result, err = s.Get("text")
	must(t, err)
	if result.Text() != "grüße" {
		t.Errorf("Expected text grüße, got %s", result)
	}

	result, err = s.Get("number")
	must(t, err)
	if n, err := result.Number(); err != nil || n != -42 {
		t.Errorf("Expected number -42, got %d (%v)", n, err)
	}
	if result.Text() != "-42" {
		t.Errorf("Numbers should be stored as decimal text, got %s", result)
	}

	result, err = s.Get("object")
	must(t, err)
	var got object
	must(t, result.Object(&got))
	if !reflect.DeepEqual(got, object{Name: "a", Tags: []string{"x", "y"}}) {
		t.Errorf("Expected object to round trip, got %+v", got)
	}

	// text values are not numbers
	result, err = s.Get("text")
	must(t, err)
	if _, err := result.Number(); err == nil {
		t.Errorf("Expected error converting text to number")
	}
}

func testSetNXGetSet(t *testing.T, s store.IStore) {
	defer s.Close()

	ok, err := s.SetNX("nx", codec.Text("first"))
	must(t, err)
	if !ok {
		t.Errorf("SetNX on missing key should succeed")
	}

	ok, err = s.SetNX("nx", codec.Text("second"))
	must(t, err)
	if ok {
		t.Errorf("SetNX on existing key should fail")
	}

	old, err := s.GetSet("nx", codec.Text("third"))
	must(t, err)
	if old.Text() != "first" {
		t.Errorf("GetSet should return the old value first, got %s", old)
	}

	old, err = s.GetSet("fresh", codec.Text("value"))
	must(t, err)
	if !old.IsNil() {
		t.Errorf("GetSet on missing key should return nil, got %s", old)
	}

	result, err := s.Get("nx")
	must(t, err)
	if result.Text() != "third" {
		t.Errorf("Expected third, got %s", result)
	}
}

func testMGet(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("a", codec.Text("1")))
	must(t, s.Set("c", codec.Text("3")))

	results, err := s.MGet("a", "b", "c")
	must(t, err)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Text() != "1" || results[2].Text() != "3" {
		t.Errorf("Unexpected values %v", results)
	}
	if !results[1].IsNil() {
		t.Errorf("Missing key should be nil in position, got %s", results[1])
	}
}

func testCounters(t *testing.T, s store.IStore) {
	defer s.Close()

	steps := []struct {
		name string
		op   func() (int64, error)
		want int64
	}{
		{"Incr missing", func() (int64, error) { return s.Incr("counter") }, 1},
		{"Incr", func() (int64, error) { return s.Incr("counter") }, 2},
		{"IncrBy", func() (int64, error) { return s.IncrBy("counter", 10) }, 12},
		{"Decr", func() (int64, error) { return s.Decr("counter") }, 11},
		{"DecrBy", func() (int64, error) { return s.DecrBy("counter", 20) }, -9},
		{"IncrBy negative", func() (int64, error) { return s.IncrBy("counter", -1) }, -10},
	}

	for _, step := range steps {
		got, err := step.op()
		must(t, err)
		if got != step.want {
			t.Errorf("%s: expected %d, got %d", step.name, step.want, got)
		}
	}

	must(t, s.Set("text", codec.Text("abc")))
	_, err := s.Incr("text")
	requireCode(t, err, common.ErrCTypeMismatch)
}

func testKeys(t *testing.T, s store.IStore) {
	defer s.Close()

	for _, k := range []string{"user:1", "user:2", "order:1"} {
		must(t, s.Set(k, codec.Text(k)))
	}

	exists, err := s.Exists("user:1")
	must(t, err)
	if !exists {
		t.Errorf("Expected user:1 to exist")
	}

	keys, err := s.Keys("user:*")
	must(t, err)
	if !reflect.DeepEqual(sorted(keys), []string{"user:1", "user:2"}) {
		t.Errorf("Keys(user:*) = %v", keys)
	}

	keyType, err := s.Type("user:1")
	must(t, err)
	if keyType != store.KeyTString {
		t.Errorf("Expected type string, got %s", keyType)
	}

	keyType, err = s.Type("missing")
	must(t, err)
	if keyType != store.KeyTNone {
		t.Errorf("Expected type none, got %s", keyType)
	}

	must(t, s.Rename("order:1", "order:2"))
	if exists, _ := s.Exists("order:1"); exists {
		t.Errorf("Renamed key should not exist anymore")
	}

	renamed, err := s.RenameNX("order:2", "user:1")
	must(t, err)
	if renamed {
		t.Errorf("RenameNX onto an existing key should fail")
	}
	result, err := s.Get("user:1")
	must(t, err)
	if result.Text() != "user:1" {
		t.Errorf("RenameNX must not change the target, got %s", result)
	}

	renamed, err = s.RenameNX("order:2", "order:3")
	must(t, err)
	if !renamed {
		t.Errorf("RenameNX onto a missing key should succeed")
	}

	err = s.Rename("missing", "other")
	requireCode(t, err, common.ErrCRemote)

	deleted, err := s.Del("user:1", "user:2", "missing")
	must(t, err)
	if deleted != 2 {
		t.Errorf("Expected 2 deleted keys, got %d", deleted)
	}

	key, found, err := s.RandomKey()
	must(t, err)
	if !found || key != "order:3" {
		t.Errorf("RandomKey() = %q, %v", key, found)
	}
}

func testExpire(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("volatile", codec.Text("v")))
	must(t, s.Set("persistent", codec.Text("p")))

	ok, err := s.Expire("volatile", 100)
	must(t, err)
	if !ok {
		t.Errorf("Expire on existing key should succeed")
	}

	ttl, err := s.TTL("volatile")
	must(t, err)
	if ttl <= 0 || ttl > 100 {
		t.Errorf("Expected ttl in (0, 100], got %d", ttl)
	}

	ttl, err = s.TTL("persistent")
	must(t, err)
	if ttl != -1 {
		t.Errorf("Expected ttl -1 for key without timeout, got %d", ttl)
	}

	ttl, err = s.TTL("missing")
	must(t, err)
	if ttl >= 0 {
		t.Errorf("Expected negative ttl for missing key, got %d", ttl)
	}

	ok, err = s.Expire("missing", 100)
	must(t, err)
	if ok {
		t.Errorf("Expire on missing key should fail")
	}

	// a non positive timeout deletes the key
	_, err = s.Expire("persistent", 0)
	must(t, err)
	if exists, _ := s.Exists("persistent"); exists {
		t.Errorf("Key should be deleted after Expire(0)")
	}
}

func testLists(t *testing.T, s store.IStore) {
	defer s.Close()

	n, err := s.RPush("list", codec.Texts("a", "b")...)
	must(t, err)
	if n != 2 {
		t.Errorf("Expected length 2, got %d", n)
	}

	n, err = s.LPush("list", codec.Texts("y", "x")...)
	must(t, err)
	if n != 4 {
		t.Errorf("Expected length 4, got %d", n)
	}

	if got := texts(t)(s.LRange("list", 0, -1)); !reflect.DeepEqual(got, []string{"x", "y", "a", "b"}) {
		t.Errorf("LRange(0, -1) = %v", got)
	}
	if got := texts(t)(s.LRange("list", 1, 2)); !reflect.DeepEqual(got, []string{"y", "a"}) {
		t.Errorf("LRange(1, 2) = %v", got)
	}
	if got := texts(t)(s.LRange("list", 10, 20)); len(got) != 0 {
		t.Errorf("LRange out of range should be empty, got %v", got)
	}
	if got := texts(t)(s.LRange("missing", 0, -1)); len(got) != 0 {
		t.Errorf("LRange on missing key should be empty, got %v", got)
	}

	tests := []struct {
		index int64
		want  string
		isNil bool
	}{
		{0, "x", false},
		{-1, "b", false},
		{3, "b", false},
		{4, "", true},
		{-5, "", true},
	}
	for _, tt := range tests {
		result, err := s.LIndex("list", tt.index)
		must(t, err)
		if result.IsNil() != tt.isNil || result.Text() != tt.want {
			t.Errorf("LIndex(%d) = %s, want %q (nil=%v)", tt.index, result, tt.want, tt.isNil)
		}
	}

	result, err := s.LPop("list")
	must(t, err)
	if result.Text() != "x" {
		t.Errorf("LPop = %s, want x", result)
	}
	result, err = s.RPop("list")
	must(t, err)
	if result.Text() != "b" {
		t.Errorf("RPop = %s, want b", result)
	}

	length, err := s.LLen("list")
	must(t, err)
	if length != 2 {
		t.Errorf("LLen = %d, want 2", length)
	}

	result, err = s.LPop("missing")
	must(t, err)
	if !result.IsNil() {
		t.Errorf("LPop on missing key should be nil, got %s", result)
	}
}

func testListMutation(t *testing.T, s store.IStore) {
	defer s.Close()

	_, err := s.RPush("list", codec.Texts("a", "b", "a", "c", "a")...)
	must(t, err)

	must(t, s.LSet("list", 1, codec.Text("B")))
	must(t, s.LSet("list", -2, codec.Text("C")))
	if got := texts(t)(s.LRange("list", 0, -1)); !reflect.DeepEqual(got, []string{"a", "B", "a", "C", "a"}) {
		t.Errorf("after LSet = %v", got)
	}

	err = s.LSet("list", 5, codec.Text("z"))
	requireCode(t, err, common.ErrCIndexOutOfRange)
	if !errors.Is(err, common.ErrIndexOutOfRange) {
		t.Errorf("Expected errors.Is(err, ErrIndexOutOfRange)")
	}

	err = s.LSet("missing", 0, codec.Text("z"))
	requireCode(t, err, common.ErrCRemote)

	removed, err := s.LRem("list", -1, codec.Text("a"))
	must(t, err)
	if removed != 1 {
		t.Errorf("LRem(-1) removed %d, want 1", removed)
	}
	if got := texts(t)(s.LRange("list", 0, -1)); !reflect.DeepEqual(got, []string{"a", "B", "a", "C"}) {
		t.Errorf("after LRem(-1) = %v", got)
	}

	removed, err = s.LRem("list", 0, codec.Text("a"))
	must(t, err)
	if removed != 2 {
		t.Errorf("LRem(0) removed %d, want 2", removed)
	}

	_, err = s.RPush("list", codec.Texts("d", "e")...)
	must(t, err)
	must(t, s.LTrim("list", 1, -2))
	if got := texts(t)(s.LRange("list", 0, -1)); !reflect.DeepEqual(got, []string{"C", "d"}) {
		t.Errorf("after LTrim = %v", got)
	}
}

func testSets(t *testing.T, s store.IStore) {
	defer s.Close()

	added, err := s.SAdd("set", codec.Texts("a", "b", "c", "a")...)
	must(t, err)
	if added != 3 {
		t.Errorf("SAdd added %d, want 3", added)
	}

	card, err := s.SCard("set")
	must(t, err)
	if card != 3 {
		t.Errorf("SCard = %d, want 3", card)
	}

	ok, err := s.SIsMember("set", codec.Text("b"))
	must(t, err)
	if !ok {
		t.Errorf("b should be a member")
	}
	ok, err = s.SIsMember("set", codec.Text("z"))
	must(t, err)
	if ok {
		t.Errorf("z should not be a member")
	}

	removed, err := s.SRem("set", codec.Texts("a", "z")...)
	must(t, err)
	if removed != 1 {
		t.Errorf("SRem removed %d, want 1", removed)
	}

	moved, err := s.SMove("set", "other", codec.Text("b"))
	must(t, err)
	if !moved {
		t.Errorf("SMove of a member should succeed")
	}
	moved, err = s.SMove("set", "other", codec.Text("b"))
	must(t, err)
	if moved {
		t.Errorf("SMove of a non member should fail")
	}

	if got := texts(t)(s.SMembers("set")); !reflect.DeepEqual(sorted(got), []string{"c"}) {
		t.Errorf("SMembers(set) = %v", got)
	}
	if got := texts(t)(s.SMembers("other")); !reflect.DeepEqual(sorted(got), []string{"b"}) {
		t.Errorf("SMembers(other) = %v", got)
	}
	if got := texts(t)(s.SMembers("missing")); len(got) != 0 {
		t.Errorf("SMembers(missing) = %v", got)
	}
}

func testSetAlgebra(t *testing.T, s store.IStore) {
	defer s.Close()

	_, err := s.SAdd("s1", codec.Texts("a", "b", "c")...)
	must(t, err)
	_, err = s.SAdd("s2", codec.Texts("b", "c", "d")...)
	must(t, err)

	tests := []struct {
		name  string
		query func() ([]codec.Result, error)
		store func() (int64, error)
		want  []string
	}{
		{
			name:  "Inter",
			query: func() ([]codec.Result, error) { return s.SInter("s1", "s2") },
			store: func() (int64, error) { return s.SInterStore("dst", "s1", "s2") },
			want:  []string{"b", "c"},
		},
		{
			name:  "Union",
			query: func() ([]codec.Result, error) { return s.SUnion("s1", "s2") },
			store: func() (int64, error) { return s.SUnionStore("dst", "s1", "s2") },
			want:  []string{"a", "b", "c", "d"},
		},
		{
			name:  "Diff",
			query: func() ([]codec.Result, error) { return s.SDiff("s1", "s2") },
			store: func() (int64, error) { return s.SDiffStore("dst", "s1", "s2") },
			want:  []string{"a"},
		},
		{
			name:  "InterMissing",
			query: func() ([]codec.Result, error) { return s.SInter("s1", "missing") },
			store: func() (int64, error) { return s.SInterStore("dst", "s1", "missing") },
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorted(texts(t)(tt.query()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("query = %v, want %v", got, tt.want)
			}

			n, err := tt.store()
			must(t, err)
			if n != int64(len(tt.want)) {
				t.Errorf("store count = %d, want %d", n, len(tt.want))
			}
			stored := sorted(texts(t)(s.SMembers("dst")))
			if !reflect.DeepEqual(stored, tt.want) {
				t.Errorf("stored = %v, want %v", stored, tt.want)
			}
		})
	}
}

func testWrongType(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("string", codec.Text("v")))
	_, err := s.RPush("list", codec.Text("v"))
	must(t, err)
	_, err = s.SAdd("set", codec.Text("v"))
	must(t, err)

	tests := []struct {
		name string
		op   func() error
	}{
		{"LPush on string", func() error { _, err := s.LPush("string", codec.Text("x")); return err }},
		{"LRange on string", func() error { _, err := s.LRange("string", 0, -1); return err }},
		{"SAdd on list", func() error { _, err := s.SAdd("list", codec.Text("x")); return err }},
		{"Get on list", func() error { _, err := s.Get("list"); return err }},
		{"Incr on list", func() error { _, err := s.Incr("list"); return err }},
		{"LPush on set", func() error { _, err := s.LPush("set", codec.Text("x")); return err }},
		{"LLen on set", func() error { _, err := s.LLen("set"); return err }},
		{"SMembers on list", func() error { _, err := s.SMembers("list"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			requireCode(t, err, common.ErrCTypeMismatch)
			if !errors.Is(err, common.ErrTypeMismatch) {
				t.Errorf("Expected errors.Is(err, ErrTypeMismatch)")
			}
		})
	}

	// error replies leave the connection usable
	must(t, s.Ping())
}

func testSort(t *testing.T, s store.IStore) {
	defer s.Close()

	_, err := s.RPush("numbers", codec.Texts("3", "10", "1", "2")...)
	must(t, err)
	_, err = s.RPush("words", codec.Texts("pear", "apple", "fig")...)
	must(t, err)

	tests := []struct {
		name  string
		query store.ISortQuery
		want  []string
	}{
		{"numeric", s.Sort("numbers"), []string{"1", "2", "3", "10"}},
		{"desc", s.Sort("numbers").Desc(), []string{"10", "3", "2", "1"}},
		{"last direction wins", s.Sort("numbers").Desc().Asc(), []string{"1", "2", "3", "10"}},
		{"alpha", s.Sort("numbers").Alpha(), []string{"1", "10", "2", "3"}},
		{"last mode wins", s.Sort("numbers").Alpha().Numeric(), []string{"1", "2", "3", "10"}},
		{"alpha words", s.Sort("words").Alpha().Desc(), []string{"pear", "fig", "apple"}},
		{"limit", s.Sort("numbers").Limit(1, 2), []string{"2", "3"}},
		{"missing key", s.Sort("missing"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(t)(tt.query.Exec())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Exec() = %v, want %v", got, tt.want)
			}
		})
	}

	q := s.Sort("numbers")
	_, err = q.Exec()
	must(t, err)
	_, err = q.Exec()
	requireCode(t, err, common.ErrCIllegalState)

	results, err := s.Sort("numbers").Desc().Store("sorted").Exec()
	must(t, err)
	if len(results) != 1 {
		t.Fatalf("Expected a single result with STORE, got %v", results)
	}
	if n, err := results[0].Number(); err != nil || n != 4 {
		t.Errorf("Expected stored count 4, got %d (%v)", n, err)
	}
	if got := texts(t)(s.LRange("sorted", 0, -1)); !reflect.DeepEqual(got, []string{"10", "3", "2", "1"}) {
		t.Errorf("stored list = %v", got)
	}

	_, err = s.Sort("words").Exec()
	requireCode(t, err, common.ErrCRemote)
}

func testSortPatterns(t *testing.T, s store.IStore) {
	defer s.Close()

	_, err := s.RPush("ids", codec.Texts("1", "2", "3")...)
	must(t, err)
	for id, weight := range map[string]string{"1": "30", "2": "10", "3": "20"} {
		must(t, s.Set("weight_"+id, codec.Text(weight)))
		must(t, s.Set("name_"+id, codec.Text(fmt.Sprintf("user%s", id))))
	}

	tests := []struct {
		name  string
		query store.ISortQuery
		want  []string
	}{
		{"by weight", s.Sort("ids").By("weight_*"), []string{"2", "3", "1"}},
		{"by weight get name", s.Sort("ids").By("weight_*").Get("name_*"), []string{"user2", "user3", "user1"}},
		{"get id and name", s.Sort("ids").Get("#").Get("name_*").Limit(0, 2), []string{"1", "user1", "2", "user2"}},
		{"missing get", s.Sort("ids").Get("nothing_*").Limit(0, 1), []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(t)(tt.query.Exec())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Exec() = %v, want %v", got, tt.want)
			}
		})
	}

	results, err := s.Sort("ids").Get("nothing_*").Exec()
	must(t, err)
	for i, r := range results {
		if !r.IsNil() {
			t.Errorf("result %d should be nil, got %s", i, r)
		}
	}
}

func testAdmin(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Ping())
	must(t, s.Set("a", codec.Text("1")))
	must(t, s.Set("b", codec.Text("2")))

	size, err := s.DBSize()
	must(t, err)
	if size != 2 {
		t.Errorf("DBSize = %d, want 2", size)
	}

	info, err := s.Info()
	must(t, err)
	if info["redis_version"] == "" {
		t.Errorf("Info should contain redis_version, got %v", info)
	}

	must(t, s.Save())
	lastSave, err := s.LastSave()
	must(t, err)
	if lastSave.IsZero() || lastSave.Unix() <= 0 {
		t.Errorf("LastSave should be a point in time, got %v", lastSave)
	}

	must(t, s.FlushDB())
	size, err = s.DBSize()
	must(t, err)
	if size != 0 {
		t.Errorf("DBSize after FlushDB = %d, want 0", size)
	}

	_, found, err := s.RandomKey()
	must(t, err)
	if found {
		t.Errorf("RandomKey on an empty database should find nothing")
	}
}
