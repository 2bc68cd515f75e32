package testserver

import (
	"fmt"
	"github.com/tidwall/resp"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Connection Commands
// --------------------------------------------------------------------------

func (s *Server) cmdPing(_ *clientState, args [][]byte) resp.Value {
	switch len(args) {
	case 1:
		return resp.SimpleStringValue("PONG")
	case 2:
		return bulkValue(args[1])
	default:
		return errorValue("ERR wrong number of arguments for 'ping' command")
	}
}

func (s *Server) cmdEcho(_ *clientState, args [][]byte) resp.Value {
	return bulkValue(args[1])
}

func (s *Server) cmdAuth(c *clientState, args [][]byte) resp.Value {
	if s.opts.Password == "" {
		return errorValue("ERR Client sent AUTH, but no password is set")
	}
	if string(args[1]) != s.opts.Password {
		c.authed = false
		return errorValue("WRONGPASS invalid username-password pair or user is disabled.")
	}
	c.authed = true
	return okValue()
}

func (s *Server) cmdSelect(c *clientState, args [][]byte) resp.Value {
	n, ok := parseInt(args[1])
	if !ok {
		return errorValue(msgNotInteger)
	}
	if n < 0 || n >= int64(len(s.dbs)) {
		return errorValue(msgDBOutOfRange)
	}
	c.db = int(n)
	return okValue()
}

// cmdDebug supports DEBUG SLEEP <seconds>, used to provoke client timeouts
func (s *Server) cmdDebug(_ *clientState, args [][]byte) resp.Value {
	if strings.ToUpper(string(args[1])) != "SLEEP" || len(args) != 3 {
		return errorValue("ERR DEBUG subcommand not supported")
	}
	secs, err := strconv.ParseFloat(string(args[2]), 64)
	if err != nil {
		return errorValue("ERR value is not a valid float")
	}
	time.Sleep(time.Duration(secs * float64(time.Second)))
	return okValue()
}

// --------------------------------------------------------------------------
// Server Commands
// --------------------------------------------------------------------------

func (s *Server) cmdFlushDB(c *clientState, _ [][]byte) resp.Value {
	s.db(c).flush()
	return okValue()
}

func (s *Server) cmdFlushAll(_ *clientState, _ [][]byte) resp.Value {
	for _, db := range s.dbs {
		db.flush()
	}
	return okValue()
}

func (s *Server) cmdSave(_ *clientState, _ [][]byte) resp.Value {
	s.lastSave.Store(s.now().Unix())
	return okValue()
}

func (s *Server) cmdBgSave(_ *clientState, _ [][]byte) resp.Value {
	s.lastSave.Store(s.now().Unix())
	return resp.SimpleStringValue("Background saving started")
}

func (s *Server) cmdLastSave(_ *clientState, _ [][]byte) resp.Value {
	return intValue(s.lastSave.Load())
}

func (s *Server) cmdDBSize(c *clientState, _ [][]byte) resp.Value {
	return intValue(int64(len(s.db(c).keys(s.now()))))
}

func (s *Server) cmdRandomKey(c *clientState, _ [][]byte) resp.Value {
	keys := s.db(c).keys(s.now())
	if len(keys) == 0 {
		return resp.NullValue()
	}
	return bulkValue([]byte(keys[rand.Intn(len(keys))]))
}

func (s *Server) cmdKeys(c *clientState, args [][]byte) resp.Value {
	pattern := string(args[1])
	var out [][]byte
	for _, key := range s.db(c).keys(s.now()) {
		if matchGlob(pattern, key) {
			out = append(out, []byte(key))
		}
	}
	return arrayValue(out)
}

// cmdInfo returns a small subset of the server information in the key:value line format
func (s *Server) cmdInfo(_ *clientState, _ [][]byte) resp.Value {
	now := s.now()
	var sb strings.Builder

	sb.WriteString("# Server\r\n")
	sb.WriteString("redis_version:7.2.0\r\n")
	sb.WriteString("redis_mode:standalone\r\n")
	sb.WriteString(fmt.Sprintf("uptime_in_seconds:%d\r\n", int64(time.Since(s.started).Seconds())))
	sb.WriteString("\r\n# Clients\r\n")
	sb.WriteString(fmt.Sprintf("connected_clients:%d\r\n", s.conns.Size()))
	sb.WriteString("\r\n# Persistence\r\n")
	sb.WriteString(fmt.Sprintf("rdb_last_save_time:%d\r\n", s.lastSave.Load()))
	sb.WriteString("\r\n# Keyspace\r\n")
	for i, db := range s.dbs {
		if n := len(db.keys(now)); n > 0 {
			sb.WriteString(fmt.Sprintf("db%d:keys=%d,expires=%d,avg_ttl=0\r\n", i, n, db.volatile(now)))
		}
	}
	return resp.StringValue(sb.String())
}
