package core

import (
	"sync"
	"time"
	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

type cacheEntry struct {
	view      *model.BeneficiaryView
	fetchedAt time.Time
	stale     bool
}

// ViewCache keeps the most recently viewed beneficiaries. Entries older than
// the TTL, or explicitly invalidated, are reported as not fresh.
type ViewCache struct {
	mu      sync.Mutex
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	signal  chan common.Address
}

func NewViewCache(size int, ttl time.Duration) *ViewCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	entries, _ := lru.New(size)
	return &ViewCache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
		signal:  make(chan common.Address, size),
	}
}

func (c *ViewCache) Get(addr common.Address) (*model.BeneficiaryView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries.Get(addr)
	if !ok {
		cacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	e := v.(*cacheEntry)
	fresh := !e.stale && c.now().Sub(e.fetchedAt) <= c.ttl
	if fresh {
		cacheRequests.WithLabelValues("hit").Inc()
	} else {
		cacheRequests.WithLabelValues("stale").Inc()
	}
	return e.view, fresh
}

func (c *ViewCache) Put(view *model.BeneficiaryView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(view.Beneficiary, &cacheEntry{view: view, fetchedAt: c.now()})
}

// Invalidate marks addr stale and asks the refresher to reload it.
func (c *ViewCache) Invalidate(addr common.Address) {
	c.mu.Lock()
	if v, ok := c.entries.Peek(addr); ok {
		v.(*cacheEntry).stale = true
	}
	c.mu.Unlock()

	select {
	case c.signal <- addr:
	default:
	}
}

// Invalidated delivers addresses passed to Invalidate.
func (c *ViewCache) Invalidated() <-chan common.Address {
	return c.signal
}

// Tracked lists the cached beneficiaries, oldest first.
func (c *ViewCache) Tracked() []common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.entries.Keys()
	res := make([]common.Address, 0, len(keys))
	for _, k := range keys {
		res = append(res, k.(common.Address))
	}
	return res
}

func (c *ViewCache) Len() int {
	return c.entries.Len()
}
