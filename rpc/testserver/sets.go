package testserver

import (
	"github.com/tidwall/resp"
)

// --------------------------------------------------------------------------
// Set Commands
// --------------------------------------------------------------------------

func (s *Server) cmdSAdd(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	key := string(args[1])
	e, wrongType := db.lookup(key, kindSet, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		e = newSetEntry()
		db.put(key, e)
	}
	var added int64
	for _, m := range args[2:] {
		if _, ok := e.set[string(m)]; !ok {
			e.set[string(m)] = struct{}{}
			added++
		}
	}
	return intValue(added)
}

func (s *Server) cmdSRem(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	key := string(args[1])
	e, wrongType := db.lookup(key, kindSet, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return intValue(0)
	}
	var removed int64
	for _, m := range args[2:] {
		if _, ok := e.set[string(m)]; ok {
			delete(e.set, string(m))
			removed++
		}
	}
	if len(e.set) == 0 {
		db.del(key)
	}
	return intValue(removed)
}

func (s *Server) cmdSMembers(c *clientState, args [][]byte) resp.Value {
	e, wrongType := s.db(c).lookup(string(args[1]), kindSet, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return arrayValue(nil)
	}
	return arrayValue(e.members())
}

func (s *Server) cmdSIsMember(c *clientState, args [][]byte) resp.Value {
	e, wrongType := s.db(c).lookup(string(args[1]), kindSet, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return boolValue(false)
	}
	_, ok := e.set[string(args[2])]
	return boolValue(ok)
}

func (s *Server) cmdSCard(c *clientState, args [][]byte) resp.Value {
	e, wrongType := s.db(c).lookup(string(args[1]), kindSet, s.now())
	if wrongType {
		return errorValue(msgWrongType)
	}
	if e == nil {
		return intValue(0)
	}
	return intValue(int64(len(e.set)))
}

func (s *Server) cmdSMove(c *clientState, args [][]byte) resp.Value {
	db := s.db(c)
	now := s.now()
	srcKey, dstKey, member := string(args[1]), string(args[2]), string(args[3])

	src, wrongType := db.lookup(srcKey, kindSet, now)
	if wrongType {
		return errorValue(msgWrongType)
	}
	dst, wrongType := db.lookup(dstKey, kindSet, now)
	if wrongType {
		return errorValue(msgWrongType)
	}
	if src == nil {
		return boolValue(false)
	}
	if _, ok := src.set[member]; !ok {
		return boolValue(false)
	}
	if srcKey == dstKey {
		return boolValue(true)
	}

	delete(src.set, member)
	if len(src.set) == 0 {
		db.del(srcKey)
	}
	if dst == nil {
		dst = newSetEntry()
		db.put(dstKey, dst)
	}
	dst.set[member] = struct{}{}
	return boolValue(true)
}

// --------------------------------------------------------------------------
// Set Algebra
// --------------------------------------------------------------------------

type setOp uint8

const (
	opInter setOp = iota
	opUnion
	opDiff
)

// combine computes the set operation over keys. Missing keys are empty sets.
func (s *Server) combine(c *clientState, keys [][]byte, op setOp) (*entry, resp.Value, bool) {
	db := s.db(c)
	now := s.now()

	sets := make([]*entry, len(keys))
	for i, key := range keys {
		e, wrongType := db.lookup(string(key), kindSet, now)
		if wrongType {
			return nil, errorValue(msgWrongType), false
		}
		if e == nil {
			e = newSetEntry()
		}
		sets[i] = e
	}

	result := newSetEntry()
	switch op {
	case opUnion:
		for _, e := range sets {
			for m := range e.set {
				result.set[m] = struct{}{}
			}
		}
	case opInter:
		for m := range sets[0].set {
			inAll := true
			for _, e := range sets[1:] {
				if _, ok := e.set[m]; !ok {
					inAll = false
					break
				}
			}
			if inAll {
				result.set[m] = struct{}{}
			}
		}
	case opDiff:
		for m := range sets[0].set {
			inOther := false
			for _, e := range sets[1:] {
				if _, ok := e.set[m]; ok {
					inOther = true
					break
				}
			}
			if !inOther {
				result.set[m] = struct{}{}
			}
		}
	}
	return result, resp.Value{}, true
}

func (s *Server) setQuery(c *clientState, keys [][]byte, op setOp) resp.Value {
	result, errV, ok := s.combine(c, keys, op)
	if !ok {
		return errV
	}
	return arrayValue(result.members())
}

func (s *Server) setStore(c *clientState, args [][]byte, op setOp) resp.Value {
	result, errV, ok := s.combine(c, args[2:], op)
	if !ok {
		return errV
	}
	db := s.db(c)
	dst := string(args[1])
	if len(result.set) == 0 {
		db.del(dst)
	} else {
		db.put(dst, result)
	}
	return intValue(int64(len(result.set)))
}

func (s *Server) cmdSInter(c *clientState, args [][]byte) resp.Value {
	return s.setQuery(c, args[1:], opInter)
}

func (s *Server) cmdSInterStore(c *clientState, args [][]byte) resp.Value {
	return s.setStore(c, args, opInter)
}

func (s *Server) cmdSUnion(c *clientState, args [][]byte) resp.Value {
	return s.setQuery(c, args[1:], opUnion)
}

func (s *Server) cmdSUnionStore(c *clientState, args [][]byte) resp.Value {
	return s.setStore(c, args, opUnion)
}

func (s *Server) cmdSDiff(c *clientState, args [][]byte) resp.Value {
	return s.setQuery(c, args[1:], opDiff)
}

func (s *Server) cmdSDiffStore(c *clientState, args [][]byte) resp.Value {
	return s.setStore(c, args, opDiff)
}
