package testserver

import (
	"bytes"
	"github.com/tidwall/resp"
)

// --------------------------------------------------------------------------
// List Commands
// --------------------------------------------------------------------------

func (s *Server) cmdLPush(c *clientState, args [][]byte) resp.Value {
	return s.push(c, args, true)
}

func (s *Server) cmdRPush(c *clientState, args [][]byte) resp.Value {
	return s.push(c, args, false)
}

func (s *Server) push(c *clientState, args [][]byte, head bool) resp.Value {
	db := s.db(c)
	key := string(args[1])
	e, wrongType := db.lookup(key, kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		e = newListEntry()
		db.put(key, e)
	}
	for _, v := range args[2:] {
		if head {
			e.list = append([][]byte{v}, e.list...)
		} else {
			e.list = append(e.list, v)
		}
	}
	return intValue(int64(len(e.list)))
}

func (s *Server) cmdLPop(c *clientState, args [][]byte) resp.Value {
	return s.pop(c, string(args[1]), true)
}

func (s *Server) cmdRPop(c *clientState, args [][]byte) resp.Value {
	return s.pop(c, string(args[1]), false)
}

func (s *Server) pop(c *clientState, key string, head bool) resp.Value {
	db := s.db(c)
	e, wrongType := db.lookup(key, kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil || len(e.list) == 0 {
		return resp.NullValue()
	}

	var v []byte
	if head {
		v, e.list = e.list[0], e.list[1:]
	} else {
		v, e.list = e.list[len(e.list)-1], e.list[:len(e.list)-1]
	}
	if len(e.list) == 0 {
		db.del(key)
	}
	return bulkValue(v)
}

func (s *Server) cmdLRange(c *clientState, args [][]byte) resp.Value {
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return errorValue(msgNotInteger)
	}
	e, wrongType := s.db(c).lookup(string(args[1]), kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return arrayValue(nil)
	}
	lo, hi, ok := rangeBounds(start, stop, len(e.list))
	if !ok {
		return arrayValue(nil)
	}
	return arrayValue(e.list[lo : hi+1])
}

func (s *Server) cmdLIndex(c *clientState, args [][]byte) resp.Value {
	index, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	e, wrongType := s.db(c).lookup(string(args[1]), kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return resp.NullValue()
	}
	if index < 0 {
		index += int64(len(e.list))
	}
	if index < 0 || index >= int64(len(e.list)) {
		return resp.NullValue()
	}
	return bulkValue(e.list[index])
}

func (s *Server) cmdLSet(c *clientState, args [][]byte) resp.Value {
	index, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	e, wrongType := s.db(c).lookup(string(args[1]), kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return errorValue(msgNoSuchKey)
	}
	if index < 0 {
		index += int64(len(e.list))
	}
	if index < 0 || index >= int64(len(e.list)) {
		return errorValue(msgIndexOutOfRange)
	}
	e.list[index] = args[3]
	return okValue()
}

// cmdLRem removes count occurrences of value: count > 0 from the head, count < 0 from
// the tail, count = 0 all of them
func (s *Server) cmdLRem(c *clientState, args [][]byte) resp.Value {
	count, ok := parseInt(args[2])
	if !ok {
		return errorValue(msgNotInteger)
	}
	db := s.db(c)
	key := string(args[1])
	e, wrongType := db.lookup(key, kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return intValue(0)
	}

	value := args[3]
	limit := count
	if limit < 0 {
		limit = -limit
	}

	remove := make([]bool, len(e.list))
	var removed int64
	visit := func(i int) bool {
		if bytes.Equal(e.list[i], value) {
			remove[i] = true
			removed++
		}
		return limit == 0 || removed < limit
	}
	if count >= 0 {
		for i := 0; i < len(e.list); i++ {
			if !visit(i) {
				break
			}
		}
	} else {
		for i := len(e.list) - 1; i >= 0; i-- {
			if !visit(i) {
				break
			}
		}
	}

	kept := e.list[:0:0]
	for i, v := range e.list {
		if !remove[i] {
			kept = append(kept, v)
		}
	}
	e.list = kept
	if len(e.list) == 0 {
		db.del(key)
	}
	return intValue(removed)
}

func (s *Server) cmdLTrim(c *clientState, args [][]byte) resp.Value {
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return errorValue(msgNotInteger)
	}
	db := s.db(c)
	key := string(args[1])
	e, wrongType := db.lookup(key, kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return okValue()
	}
	lo, hi, ok := rangeBounds(start, stop, len(e.list))
	if !ok {
		db.del(key)
		return okValue()
	}
	e.list = append([][]byte{}, e.list[lo:hi+1]...)
	return okValue()
}

func (s *Server) cmdLLen(c *clientState, args [][]byte) resp.Value {
	e, wrongType := s.db(c).lookup(string(args[1]), kindList, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return intValue(0)
	}
	return intValue(int64(len(e.list)))
}
