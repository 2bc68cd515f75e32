package testserver

import (
	"bufio"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"net"
	"reflect"
	"testing"
	"time"
)

// rawClient sends commands over a plain socket and decodes the replies
type rawClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialRaw(t *testing.T, srv *Server) *rawClient {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &rawClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *rawClient) do(args ...string) *resp.Reply {
	c.t.Helper()
	if _, err := c.conn.Write(resp.NewStringCommand(args[0], args[1:]...).Encode()); err != nil {
		c.t.Fatalf("write: %v", err)
	}
	reply, err := resp.Decode(c.r)
	if err != nil {
		c.t.Fatalf("decode reply of %v: %v", args, err)
	}
	return reply
}

func TestServerCommands(t *testing.T) {
	srv := Run(t, Options{})
	c := dialRaw(t, srv)

	tests := []struct {
		args []string
		want *resp.Reply
	}{
		{[]string{"PING"}, resp.NewStatusReply("PONG")},
		{[]string{"SET", "a", "1"}, resp.NewStatusReply("OK")},
		{[]string{"GET", "a"}, resp.NewBulkReply([]byte("1"))},
		{[]string{"GET", "missing"}, resp.NewBulkReply(nil)},
		{[]string{"INCR", "a"}, resp.NewIntegerReply(2)},
		{[]string{"RPUSH", "l", "x", "y", "z"}, resp.NewIntegerReply(3)},
		{[]string{"LRANGE", "l", "0", "-1"}, resp.NewBulkArrayReply([][]byte{[]byte("x"), []byte("y"), []byte("z")})},
		{[]string{"LRANGE", "l", "-2", "100"}, resp.NewBulkArrayReply([][]byte{[]byte("y"), []byte("z")})},
		{[]string{"LSET", "l", "5", "v"}, resp.NewErrorReply(msgIndexOutOfRange)},
		{[]string{"SADD", "l", "m"}, resp.NewErrorReply(msgWrongType)},
		{[]string{"INCR", "l"}, resp.NewErrorReply(msgWrongType)},
		{[]string{"SET", "s", "abc"}, resp.NewStatusReply("OK")},
		{[]string{"INCR", "s"}, resp.NewErrorReply(msgNotInteger)},
		{[]string{"RENAME", "nope", "x"}, resp.NewErrorReply(msgNoSuchKey)},
		{[]string{"TYPE", "l"}, resp.NewStatusReply("list")},
		{[]string{"TYPE", "nope"}, resp.NewStatusReply("none")},
		{[]string{"MGET", "a", "l", "nope"}, resp.NewBulkArrayReply([][]byte{[]byte("2"), nil, nil})},
		{[]string{"KEYS", "?"}, resp.NewBulkArrayReply([][]byte{[]byte("a"), []byte("l"), []byte("s")})},
		{[]string{"NOSUCHCMD"}, resp.NewErrorReply("ERR unknown command 'nosuchcmd'")},
		{[]string{"GET"}, resp.NewErrorReply("ERR wrong number of arguments for 'get' command")},
	}

	for _, tt := range tests {
		if got := c.do(tt.args...); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestServerSort(t *testing.T) {
	srv := Run(t, Options{})
	c := dialRaw(t, srv)

	c.do("RPUSH", "n", "3", "1", "2")
	c.do("SET", "w_1", "30")
	c.do("SET", "w_2", "10")
	c.do("SET", "w_3", "20")
	c.do("SET", "o_1", "one")

	tests := []struct {
		args []string
		want [][]byte
	}{
		{[]string{"SORT", "n"}, [][]byte{[]byte("1"), []byte("2"), []byte("3")}},
		{[]string{"SORT", "n", "DESC"}, [][]byte{[]byte("3"), []byte("2"), []byte("1")}},
		{[]string{"SORT", "n", "LIMIT", "1", "1"}, [][]byte{[]byte("2")}},
		{[]string{"SORT", "n", "BY", "w_*"}, [][]byte{[]byte("2"), []byte("3"), []byte("1")}},
		{[]string{"SORT", "n", "BY", "nosort"}, [][]byte{[]byte("3"), []byte("1"), []byte("2")}},
		{[]string{"SORT", "n", "GET", "o_*", "GET", "#"}, [][]byte{[]byte("one"), []byte("1"), nil, []byte("2"), nil, []byte("3")}},
	}
	for _, tt := range tests {
		got, err := c.do(tt.args...).BulkArray()
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if got := c.do("SORT", "n", "STORE", "dst"); !reflect.DeepEqual(got, resp.NewIntegerReply(3)) {
		t.Errorf("SORT STORE = %v, want 3", got)
	}
	if got := c.do("LLEN", "dst"); got.Int != 3 {
		t.Errorf("LLEN dst = %v, want 3", got)
	}

	c.do("RPUSH", "words", "b", "a")
	if got := c.do("SORT", "words"); !got.IsError() {
		t.Errorf("numeric SORT of words should fail, got %v", got)
	}
}

func TestServerExpiry(t *testing.T) {
	srv := Run(t, Options{})
	c := dialRaw(t, srv)

	c.do("SET", "k", "v")
	if got := c.do("EXPIRE", "k", "10"); got.Int != 1 {
		t.Fatalf("EXPIRE = %v", got)
	}
	if got := c.do("TTL", "k"); got.Int != 10 {
		t.Errorf("TTL = %v, want 10", got)
	}

	srv.Advance(11 * time.Second)
	if got := c.do("EXISTS", "k"); got.Int != 0 {
		t.Errorf("EXISTS after expiry = %v, want 0", got)
	}
	if got := c.do("TTL", "k"); got.Int != -1 {
		t.Errorf("TTL after expiry = %v, want -1", got)
	}
}

func TestServerAuthAndSelect(t *testing.T) {
	srv := Run(t, Options{Password: "secret"})
	c := dialRaw(t, srv)

	if got := c.do("GET", "k"); !got.IsError() || got.Str != "NOAUTH Authentication required." {
		t.Errorf("GET before AUTH = %v", got)
	}
	if got := c.do("AUTH", "wrong"); !got.IsError() {
		t.Errorf("AUTH with wrong password = %v", got)
	}
	if got := c.do("AUTH", "secret"); got.Type != resp.ReplyTStatus {
		t.Errorf("AUTH = %v", got)
	}

	c.do("SET", "k", "db0")
	c.do("SELECT", "1")
	if got := c.do("GET", "k"); !got.Nil {
		t.Errorf("GET in db 1 = %v, want nil", got)
	}
	if got := c.do("SELECT", "99"); !got.IsError() {
		t.Errorf("SELECT 99 = %v, want error", got)
	}
}

func TestServerRawReply(t *testing.T) {
	srv := Run(t, Options{})
	c := dialRaw(t, srv)

	srv.SetRawReply("get", []byte(":42\r\n"))
	if got := c.do("GET", "x"); !reflect.DeepEqual(got, resp.NewIntegerReply(42)) {
		t.Errorf("GET with override = %v", got)
	}
	srv.ClearRawReply("GET")
	if got := c.do("GET", "x"); !got.Nil {
		t.Errorf("GET after clearing override = %v", got)
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, s string
		want       bool
	}{
		{"*", "", true},
		{"*", "a/b", true},
		{"h?llo", "hello", true},
		{"h?llo", "hllo", false},
		{"h*llo", "heeeello", true},
		{"h[ae]llo", "hallo", true},
		{"h[ae]llo", "hillo", false},
		{"h[^e]llo", "hallo", true},
		{"h[^e]llo", "hello", false},
		{"h[a-b]llo", "hbllo", true},
		{"h\\*llo", "h*llo", true},
		{"h\\*llo", "hello", false},
		{"key:*:name", "key:1:name", true},
		{"key:*:name", "key:1:age", false},
		{"[abc", "a", false},
	}
	for _, tt := range tests {
		if got := matchGlob(tt.pattern, tt.s); got != tt.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.s, got, tt.want)
		}
	}
}
