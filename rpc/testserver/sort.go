package testserver

import (
	"bytes"
	"github.com/tidwall/resp"
	"sort"
	"strconv"
	"strings"
	"time"
)

type sortItem struct {
	value  []byte
	weight []byte
	score  float64
}

// cmdSort implements SORT key [BY pattern] [LIMIT offset count] [GET pattern ...] [ASC|DESC] [ALPHA] [STORE dst]
func (s *Server) cmdSort(c *clientState, args [][]byte) resp.Value {
	var (
		by       string
		hasBy    bool
		gets     []string
		desc     bool
		alpha    bool
		offset   int64
		count    int64 = -1
		store    string
		hasStore bool
	)

	for i := 2; i < len(args); i++ {
		switch strings.ToUpper(string(args[i])) {
		case "ASC":
			desc = false
		case "DESC":
			desc = true
		case "ALPHA":
			alpha = true
		case "BY":
			if i+1 >= len(args) {
				return errorValue(msgSyntax)
			}
			by, hasBy = string(args[i+1]), true
			i++
		case "GET":
			if i+1 >= len(args) {
				return errorValue(msgSyntax)
			}
			gets = append(gets, string(args[i+1]))
			i++
		case "LIMIT":
			if i+2 >= len(args) {
				return errorValue(msgSyntax)
			}
			o, ok1 := parseInt(args[i+1])
			n, ok2 := parseInt(args[i+2])
			if !ok1 || !ok2 {
				return errorValue(msgNotInteger)
			}
			offset, count = o, n
			i += 2
		case "STORE":
			if i+1 >= len(args) {
				return errorValue(msgSyntax)
			}
			store, hasStore = string(args[i+1]), true
			i++
		default:
			return errorValue(msgSyntax)
		}
	}

	db := s.db(c)
	now := s.now()

	var elems [][]byte
	if e := db.get(string(args[1]), now); e != nil {
		switch e.kind {
		case kindList:
			elems = append(elems, e.list...)
		case kindSet:
			elems = e.members()
		default:
			return errorValue(msgWrongType)
		}
	}

	// a BY pattern without '*' skips sorting
	if !hasBy || strings.Contains(by, "*") {
		items := make([]sortItem, len(elems))
		for i, v := range elems {
			items[i] = sortItem{value: v, weight: v}
			if hasBy {
				items[i].weight = lookupPattern(db, by, v, now)
			}
			if !alpha && items[i].weight != nil {
				f, err := strconv.ParseFloat(string(items[i].weight), 64)
				if err != nil {
					return errorValue(msgNotDouble)
				}
				items[i].score = f
			}
		}

		less := func(a, b sortItem) bool {
			if alpha {
				if cmp := bytes.Compare(a.weight, b.weight); cmp != 0 {
					return cmp < 0
				}
				return bytes.Compare(a.value, b.value) < 0
			}
			if a.score != b.score {
				return a.score < b.score
			}
			return bytes.Compare(a.value, b.value) < 0
		}
		sort.SliceStable(items, func(i, j int) bool {
			if desc {
				return less(items[j], items[i])
			}
			return less(items[i], items[j])
		})

		for i, item := range items {
			elems[i] = item.value
		}
	}

	// apply LIMIT
	start := offset
	if start < 0 {
		start = 0
	}
	if start > int64(len(elems)) {
		start = int64(len(elems))
	}
	end := int64(len(elems))
	if count >= 0 && start+count < end {
		end = start + count
	}
	elems = elems[start:end]

	// apply GET
	result := elems
	if len(gets) > 0 {
		result = make([][]byte, 0, len(elems)*len(gets))
		for _, v := range elems {
			for _, pattern := range gets {
				if pattern == "#" {
					result = append(result, v)
				} else {
					result = append(result, lookupPattern(db, pattern, v, now))
				}
			}
		}
	}

	if hasStore {
		if len(result) == 0 {
			db.del(store)
			return intValue(0)
		}
		e := newListEntry()
		for _, v := range result {
			if v == nil {
				v = []byte{}
			}
			e.list = append(e.list, v)
		}
		db.put(store, e)
		return intValue(int64(len(e.list)))
	}
	return arrayValue(result)
}

// lookupPattern replaces the first '*' in pattern with subst and returns the string value
// stored at the resulting key (nil if missing or not a string)
func lookupPattern(db *keyspace, pattern string, subst []byte, now time.Time) []byte {
	key := strings.Replace(pattern, "*", string(subst), 1)
	e, _ := db.lookup(key, kindString, now)
	if e == nil {
		return nil
	}
	return e.str
}
