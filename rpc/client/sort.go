package client

import (
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"github.com/ValentinKolb/respkv/rpc/common"
	"github.com/ValentinKolb/respkv/rpc/resp"
	"strconv"
	"sync/atomic"
)

// sortQuery implements store.ISortQuery.
// State: configuring until Exec is called, then executed (terminal).
type sortQuery struct {
	adapter *rpcClientAdapter
	key     string

	order    string // "", "ASC" or "DESC"
	alpha    bool
	hasLimit bool
	offset   int64
	count    int64
	by       string
	gets     []string
	store    string

	executed atomic.Bool
}

// Sort starts a sort query (docu see the store package in interface.go)
func (i *rpcStore) Sort(key string) store.ISortQuery {
	return &sortQuery{adapter: &i.rpcClientAdapter, key: key}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store.ISortQuery)
// --------------------------------------------------------------------------

func (q *sortQuery) Asc() store.ISortQuery {
	q.order = "ASC"
	return q
}

func (q *sortQuery) Desc() store.ISortQuery {
	q.order = "DESC"
	return q
}

func (q *sortQuery) Alpha() store.ISortQuery {
	q.alpha = true
	return q
}

func (q *sortQuery) Numeric() store.ISortQuery {
	q.alpha = false
	return q
}

func (q *sortQuery) Limit(offset, count int64) store.ISortQuery {
	q.hasLimit, q.offset, q.count = true, offset, count
	return q
}

func (q *sortQuery) By(pattern string) store.ISortQuery {
	q.by = pattern
	return q
}

func (q *sortQuery) Get(pattern string) store.ISortQuery {
	q.gets = append(q.gets, pattern)
	return q
}

func (q *sortQuery) Store(dst string) store.ISortQuery {
	q.store = dst
	return q
}

// Command builds SORT key [BY p] [LIMIT o c] [GET p ...] [ASC|DESC] [ALPHA] [STORE dst]
func (q *sortQuery) Command() resp.Command {
	args := []string{q.key}
	if q.by != "" {
		args = append(args, "BY", q.by)
	}
	if q.hasLimit {
		args = append(args, "LIMIT", strconv.FormatInt(q.offset, 10), strconv.FormatInt(q.count, 10))
	}
	for _, g := range q.gets {
		args = append(args, "GET", g)
	}
	if q.order != "" {
		args = append(args, q.order)
	}
	if q.alpha {
		args = append(args, "ALPHA")
	}
	if q.store != "" {
		args = append(args, "STORE", q.store)
	}
	return resp.NewStringCommand("SORT", args...)
}

func (q *sortQuery) Exec() ([]codec.Result, error) {
	if !q.executed.CompareAndSwap(false, true) {
		return nil, common.NewError(common.ErrCIllegalState, "sort query was already executed")
	}

	cmd := q.Command()
	if q.store == "" {
		return q.adapter.multiBulk(cmd)
	}

	// with STORE the reply is the length of the stored list
	n, err := q.adapter.integer(cmd)
	if err != nil {
		return nil, err
	}
	return []codec.Result{codec.NewResult(strconv.AppendInt(nil, n, 10), q.adapter.codec)}, nil
}
