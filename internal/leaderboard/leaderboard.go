// Package leaderboard ranks clans by 24h trade volume and tracks rank
// movement between snapshots.
package leaderboard

import (
	"slices"
	"sort"
	"sync"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/robfig/cron/v3"
)

const DefaultLimit = 10

type Tracker struct {
	mu   sync.RWMutex
	prev map[string]int // clan id -> rank at last snapshot
}

func NewTracker() *Tracker {
	return &Tracker{prev: map[string]int{}}
}

// Compute ranks clans and returns the top limit entries. Change is the number
// of places gained since the last snapshot.
func (t *Tracker) Compute(clans []model.Clan, limit int) []model.LeaderboardEntry {
	ranked := rank(clans)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, c := range ranked {
		e := model.LeaderboardEntry{
			Rank:     i + 1,
			ClanID:   c.ID,
			ClanName: c.Name,
			Metric:   c.TotalTrades24h,
			Trend:    model.TrendStable,
		}
		if prev, ok := t.prev[c.ID]; ok {
			e.Change = prev - e.Rank
		}
		switch {
		case e.Change > 0:
			e.Trend = model.TrendUp
		case e.Change < 0:
			e.Trend = model.TrendDown
		}
		out = append(out, e)
	}
	return out
}

// Snapshot records every clan's current rank as the baseline for Compute.
func (t *Tracker) Snapshot(clans []model.Clan) {
	ranks := make(map[string]int, len(clans))
	for i, c := range rank(clans) {
		ranks[c.ID] = i + 1
	}
	t.mu.Lock()
	t.prev = ranks
	t.mu.Unlock()
}

// Schedule registers a snapshot job on c using the given cron spec.
func (t *Tracker) Schedule(c *cron.Cron, spec string, clans func() []model.Clan) (cron.EntryID, error) {
	return c.AddFunc(spec, func() { t.Snapshot(clans()) })
}

func rank(clans []model.Clan) []model.Clan {
	out := slices.Clone(clans)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalTrades24h > out[j].TotalTrades24h })
	return out
}
