package client

import (
	"strings"
	"sync"
	"time"
)

// cachePolicy controls how long a cached read stays fresh and how long an
// unused entry survives before eviction.
type cachePolicy struct {
	staleAfter time.Duration
	evictAfter time.Duration
}

var policies = map[string]cachePolicy{
	opGetMedia:           {staleAfter: 5 * time.Minute, evictAfter: 10 * time.Minute},
	opGetUserMedia:       {staleAfter: 2 * time.Minute, evictAfter: 5 * time.Minute},
	opGetAssociatedMedia: {staleAfter: 2 * time.Minute, evictAfter: 5 * time.Minute},
	opGetVerifiedMedia:   {staleAfter: 3 * time.Minute, evictAfter: 5 * time.Minute},
}

type cacheEntry struct {
	value      any
	fetchedAt  time.Time
	lastAccess time.Time
}

type entryState int

const (
	entryMiss entryState = iota
	entryFresh
	entryStale
)

// swrCache is the stale-while-revalidate store backing the client's reads.
// Entries are keyed by (operation, params); a stale hit is still served
// while a single background refetch refreshes it.
type swrCache struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	inflight map[string]struct{}

	now func() time.Time
}

func newSWRCache() *swrCache {
	return &swrCache{
		entries:  make(map[string]*cacheEntry),
		inflight: make(map[string]struct{}),
		now:      time.Now,
	}
}

func cacheKey(operation string, params ...string) string {
	return operation + "|" + strings.Join(params, ":")
}

func (c *swrCache) get(key string, policy cachePolicy) (any, entryState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, entryMiss
	}

	now := c.now()
	if now.Sub(entry.lastAccess) > policy.evictAfter {
		delete(c.entries, key)
		return nil, entryMiss
	}
	entry.lastAccess = now

	if now.Sub(entry.fetchedAt) > policy.staleAfter {
		return entry.value, entryStale
	}
	return entry.value, entryFresh
}

func (c *swrCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &cacheEntry{value: value, fetchedAt: now, lastAccess: now}
}

// tryBeginRefetch claims the refetch slot for key. Only one background
// refetch runs per key at a time.
func (c *swrCache) tryBeginRefetch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *swrCache) endRefetch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inflight, key)
}

func (c *swrCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// invalidatePrefix drops every entry whose key starts with prefix, covering
// all pages and limits of a cached list.
func (c *swrCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
