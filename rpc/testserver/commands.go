package testserver

import (
	"github.com/tidwall/resp"
	"math"
	"strconv"
	"time"
)

type handler func(s *Server, c *clientState, args [][]byte) resp.Value

// command describes one supported command. arity counts the command name, a negative
// arity is the minimum number of arguments.
type command struct {
	arity  int
	fn     handler
	noLock bool
}

var commandTable = map[string]command{
	// strings and keys
	"SET":      {arity: 3, fn: (*Server).cmdSet},
	"GET":      {arity: 2, fn: (*Server).cmdGet},
	"SETNX":    {arity: 3, fn: (*Server).cmdSetNX},
	"GETSET":   {arity: 3, fn: (*Server).cmdGetSet},
	"MGET":     {arity: -2, fn: (*Server).cmdMGet},
	"INCR":     {arity: 2, fn: (*Server).cmdIncr},
	"DECR":     {arity: 2, fn: (*Server).cmdDecr},
	"INCRBY":   {arity: 3, fn: (*Server).cmdIncrBy},
	"DECRBY":   {arity: 3, fn: (*Server).cmdDecrBy},
	"DEL":      {arity: -2, fn: (*Server).cmdDel},
	"EXISTS":   {arity: -2, fn: (*Server).cmdExists},
	"RENAME":   {arity: 3, fn: (*Server).cmdRename},
	"RENAMENX": {arity: 3, fn: (*Server).cmdRenameNX},
	"EXPIRE":   {arity: 3, fn: (*Server).cmdExpire},
	"TTL":      {arity: 2, fn: (*Server).cmdTTL},
	"TYPE":     {arity: 2, fn: (*Server).cmdType},
	"MOVE":     {arity: 3, fn: (*Server).cmdMove},

	// lists
	"LPUSH":  {arity: -3, fn: (*Server).cmdLPush},
	"RPUSH":  {arity: -3, fn: (*Server).cmdRPush},
	"LPOP":   {arity: 2, fn: (*Server).cmdLPop},
	"RPOP":   {arity: 2, fn: (*Server).cmdRPop},
	"LRANGE": {arity: 4, fn: (*Server).cmdLRange},
	"LINDEX": {arity: 3, fn: (*Server).cmdLIndex},
	"LSET":   {arity: 4, fn: (*Server).cmdLSet},
	"LREM":   {arity: 4, fn: (*Server).cmdLRem},
	"LTRIM":  {arity: 4, fn: (*Server).cmdLTrim},
	"LLEN":   {arity: 2, fn: (*Server).cmdLLen},

	// sets
	"SADD":        {arity: -3, fn: (*Server).cmdSAdd},
	"SREM":        {arity: -3, fn: (*Server).cmdSRem},
	"SMEMBERS":    {arity: 2, fn: (*Server).cmdSMembers},
	"SISMEMBER":   {arity: 3, fn: (*Server).cmdSIsMember},
	"SCARD":       {arity: 2, fn: (*Server).cmdSCard},
	"SMOVE":       {arity: 4, fn: (*Server).cmdSMove},
	"SINTER":      {arity: -2, fn: (*Server).cmdSInter},
	"SINTERSTORE": {arity: -3, fn: (*Server).cmdSInterStore},
	"SUNION":      {arity: -2, fn: (*Server).cmdSUnion},
	"SUNIONSTORE": {arity: -3, fn: (*Server).cmdSUnionStore},
	"SDIFF":       {arity: -2, fn: (*Server).cmdSDiff},
	"SDIFFSTORE":  {arity: -3, fn: (*Server).cmdSDiffStore},

	// sort
	"SORT": {arity: -2, fn: (*Server).cmdSort},

	// administration
	"PING":      {arity: -1, fn: (*Server).cmdPing},
	"ECHO":      {arity: 2, fn: (*Server).cmdEcho},
	"AUTH":      {arity: 2, fn: (*Server).cmdAuth},
	"SELECT":    {arity: 2, fn: (*Server).cmdSelect},
	"FLUSHDB":   {arity: 1, fn: (*Server).cmdFlushDB},
	"FLUSHALL":  {arity: 1, fn: (*Server).cmdFlushAll},
	"SAVE":      {arity: 1, fn: (*Server).cmdSave},
	"BGSAVE":    {arity: 1, fn: (*Server).cmdBgSave},
	"LASTSAVE":  {arity: 1, fn: (*Server).cmdLastSave},
	"DBSIZE":    {arity: 1, fn: (*Server).cmdDBSize},
	"RANDOMKEY": {arity: 1, fn: (*Server).cmdRandomKey},
	"KEYS":      {arity: 2, fn: (*Server).cmdKeys},
	"INFO":      {arity: -1, fn: (*Server).cmdInfo},
	"DEBUG":     {arity: -2, fn: (*Server).cmdDebug, noLock: true},
}

// --------------------------------------------------------------------------
// String Commands
// --------------------------------------------------------------------------

func (s *Server) cmdSet(c *clientState, args [][]byte) resp.Value {
	s.db(c).put(string(args[1]), newStringEntry(args[2]))
	return okValue()
}

func (s *Server) cmdGet(c *clientState, args [][]byte) resp.Value {
	e, wrongType := s.db(c).lookup(string(args[1]), kindString, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return resp.NullValue()
	}
	return bulkValue(e.str)
}

func (s *Server) cmdSetNX(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	if db.get(string(args[1]), s.now()) != nil {
		return boolValue(false)
	}
	db.put(string(args[1]), newStringEntry(args[2]))
	return boolValue(true)
}

func (s *Server) cmdGetSet(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	e, wrongType := db.lookup(string(args[1]), kindString, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	db.put(string(args[1]), newStringEntry(args[2]))
	if e == nil {
		return resp.NullValue()
	}
	return bulkValue(e.str)
}

func (s *Server) cmdMGet(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	now := s.now()
	out := make([][]byte, len(args)-1)
	for i, key := range args[1:] {
		// keys holding other kinds are reported as nil
		if e, _ := db.lookup(string(key), kindString, now); e != nil {
			out[i] = e.str
		}
	}
	return arrayValue(out)
}

func (s *Server) cmdIncr(c *clientState, args [][]byte) resp.Value {
	return s.incrBy(c, string(args[1]), 1)
}

func (s *Server) cmdDecr(c *clientState, args [][]byte) resp.Value {
	return s.incrBy(c, string(args[1]), -1)
}

func (s *Server) cmdIncrBy(c *clientState, args [][]byte) resp.Value {
	delta, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	return s.incrBy(c, string(args[1]), delta)
}

func (s *Server) cmdDecrBy(c *clientState, args [][]byte) resp.Value {
	delta, ok := parseInt(args[2])
	if !ok || delta == math.MinInt64 {
		return errorValue(msgNotInteger)
	}
	return s.incrBy(c, string(args[1]), -delta)
}

func (s *Server) incrBy(c *clientState, key string, delta int64) resp.Value {
	db := s.db(c)
	e, wrongType := db.lookup(key, kindString, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}

	var current int64
	if e != nil {
		n, ok := parseInt(e.str)
		if !ok {
			return errorValue(msgNotInteger)
		}
		current = n
	}

	if (delta > 0 && current > math.MaxInt64-delta) || (delta < 0 && current < math.MinInt64-delta) {
		return errorValue(msgOverflow)
	}
	current += delta

	value := strconv.AppendInt(nil, current, 10)
	if e != nil {
		e.str = value // keeps the expiry
	} else {
		db.put(key, newStringEntry(value))
	}
	return intValue(current)
}

// --------------------------------------------------------------------------
// Key Commands
// --------------------------------------------------------------------------

func (s *Server) cmdDel(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	now := s.now()
	var n int64
	for _, key := range args[1:] {
		if db.get(string(key), now) != nil {
			db.del(string(key))
			n++
		}
	}
	return intValue(n)
}

func (s *Server) cmdExists(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	now := s.now()
	var n int64
	for _, key := range args[1:] {
		if db.get(string(key), now) != nil {
			n++
		}
	}
	return intValue(n)
}

func (s *Server) cmdRename(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	src, dst := string(args[1]), string(args[2])
	e := db.get(src, s.now())
	if e == nil {
		return errorValue(msgNoSuchKey)
	}
	db.del(src)
	db.put(dst, e)
	return okValue()
}

func (s *Server) cmdRenameNX(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	now := s.now()
	src, dst := string(args[1]), string(args[2])
	e := db.get(src, now)
	if e == nil {
		return errorValue(msgNoSuchKey)
	}
	if db.get(dst, now) != nil {
		return boolValue(false)
	}
	db.del(src)
	db.put(dst, e)
	return boolValue(true)
}

func (s *Server) cmdExpire(c *clientState, args [][]byte) resp.Value {
	seconds, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	db := s.db(c)
	now := s.now()
	key := string(args[1])
	e := db.get(key, now)
	if e == nil {
		return boolValue(false)
	}
	if seconds <= 0 {
		db.del(key)
		return boolValue(true)
	}
	if seconds > int64(math.MaxInt64/time.Second) {
		return errorValue("ERR invalid expire time in 'expire' command")
	}
	e.expireAt = now.Add(time.Duration(seconds) * time.Second)
	return boolValue(true)
}

// cmdTTL returns the remaining time to live in seconds. Keys without expiry and
// missing (or expired) keys both report -1.
func (s *Server) cmdTTL(c *clientState, args [][]byte) resp.Value {
	now := s.now()
	e := s.db(c).get(string(args[1]), now)
	if e == nil || e.expireAt.IsZero() {
		return intValue(-1)
	}
	ms := e.expireAt.Sub(now).Milliseconds()
	return intValue((ms + 500) / 1000)
}

func (s *Server) cmdType(c *clientState, args [][]byte) resp.Value {
	e := s.db(c).get(string(args[1]), s.now())
	if e == nil {
		return resp.SimpleStringValue("none")
	}
	return resp.SimpleStringValue(e.kind.String())
}

func (s *Server) cmdMove(c *clientState, args [][]byte) resp.Value {
	target, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	if target < 0 || target >= int64(len(s.dbs)) {
		return errorValue(msgDBOutOfRange)
	}
	if int(target) == c.db {
		return errorValue(msgSameObject)
	}

	now := s.now()
	key := string(args[1])
	src, dst := s.db(c), s.dbs[target]
	e := src.get(key, now)
	if e == nil || dst.get(key, now) != nil {
		return boolValue(false)
	}
	src.del(key)
	dst.put(key, e)
	return boolValue(true)
}
