package chart

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/finvista-dev/finvista/internal/model"
)

// DefaultCacheSize is the number of results an Engine keeps when asked for zero.
const DefaultCacheSize = 32

// Engine memoizes Aggregate on identical (transactions, granularity, filter)
// inputs. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
	group   singleflight.Group

	hits   int
	misses int
}

type cacheEntry struct {
	key  string
	rows []Row
}

// NewEngine creates an Engine holding at most size results.
func NewEngine(size int) *Engine {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Engine{
		maxSize: size,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Aggregate returns the same rows as the package-level Aggregate. Results are
// copied out of the cache, so callers may modify them.
func (e *Engine) Aggregate(txns []model.Transaction, g Granularity, f Filter) ([]Row, error) {
	if f == nil {
		f = AllTime{}
	}
	key := fingerprint(txns, g, f)

	if rows, ok := e.get(key); ok {
		return rows, nil
	}

	v, err, _ := e.group.Do(key, func() (any, error) {
		if rows, ok := e.peek(key); ok {
			return rows, nil
		}
		rows, err := Aggregate(txns, g, f)
		if err != nil {
			return nil, err
		}
		e.put(key, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return copyRows(v.([]Row)), nil
}

// Stats returns cache hits and misses so far.
func (e *Engine) Stats() (hits, misses int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits, e.misses
}

// Len returns the number of cached results.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lru.Len()
}

func (e *Engine) get(key string) ([]Row, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	elem, ok := e.items[key]
	if !ok {
		e.misses++
		return nil, false
	}
	e.hits++
	e.lru.MoveToFront(elem)
	return copyRows(elem.Value.(*cacheEntry).rows), true
}

// peek is get without touching the counters or recency.
func (e *Engine) peek(key string) ([]Row, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	elem, ok := e.items[key]
	if !ok {
		return nil, false
	}
	return elem.Value.(*cacheEntry).rows, true
}

func (e *Engine) put(key string, rows []Row) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if elem, ok := e.items[key]; ok {
		elem.Value.(*cacheEntry).rows = rows
		e.lru.MoveToFront(elem)
		return
	}
	e.items[key] = e.lru.PushFront(&cacheEntry{key: key, rows: rows})
	for e.lru.Len() > e.maxSize {
		oldest := e.lru.Back()
		e.lru.Remove(oldest)
		delete(e.items, oldest.Value.(*cacheEntry).key)
	}
}

// fingerprint hashes every input field Aggregate reads.
func fingerprint(txns []model.Transaction, g Granularity, f Filter) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%T|%+v|%d\n", g, f, f, len(txns))
	for _, txn := range txns {
		fmt.Fprintf(h, "%s|%s|%s\n", txn.Date.Format("2006-01-02T15:04:05.999999999Z07:00"), txn.Kind, txn.Amount.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}

func copyRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].CrossoverPoint != nil {
			p := *out[i].CrossoverPoint
			out[i].CrossoverPoint = &p
		}
		if out[i].ZeroCrossingRatio != nil {
			r := *out[i].ZeroCrossingRatio
			out[i].ZeroCrossingRatio = &r
		}
	}
	return out
}
