package hooks

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Stale times per query family.
const (
	StaleUser        = 5 * time.Minute
	StaleClans       = 2 * time.Minute
	StaleClan        = 2 * time.Minute
	StaleLeaderboard = time.Minute
	StaleNFTs        = 2 * time.Minute
	StaleActivity    = 30 * time.Second
	StaleArena       = time.Minute
)

// Query keys. Parameterised keys append "/<id>".
const (
	KeyUser           = "user"
	KeyClans          = "clans"
	KeyClan           = "clan"
	KeyLeaderboard    = "leaderboard"
	KeyUserNFTs       = "nfts/user"
	KeyClanNFTs       = "nfts/clan"
	KeyGlobalActivity = "activity/global"
	KeyClanActivity   = "activity/clan"
	KeyArenaStats     = "arena/stats"
	KeyBattles        = "arena/battles"
	KeyTreasures      = "arena/treasures"
	KeyListings       = "arena/listings"
)

// FetchTimeout bounds a shared fetch once it no longer follows any caller.
const FetchTimeout = 30 * time.Second

type cacheEntry struct {
	value any
	at    time.Time
}

// Cache keeps successful query results until they go stale. Concurrent
// fetches of one key share a single call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
	now     func() time.Time
}

func NewCache(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{entries: map[string]cacheEntry{}, now: now}
}

func (c *Cache) get(key string, stale time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= stale {
		return nil, false
	}
	return e.value, true
}

// Invalidate drops every key equal to or nested under one of prefixes.
// An empty prefix drops everything.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range prefixes {
			if p == "" || key == p || strings.HasPrefix(key, p+"/") {
				delete(c.entries, key)
				break
			}
		}
	}
}

// cached returns the fresh value under key or fetches it. The fetch is shared
// by every concurrent caller, so it runs detached from ctx; each caller
// stops waiting when its own ctx ends.
func cached[T any](ctx context.Context, c *Cache, key string, stale time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.get(key, stale); ok {
		return v.(T), nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{value: v, at: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Val == nil {
			return zero, res.Err
		}
		return res.Val.(T), res.Err
	}
}
