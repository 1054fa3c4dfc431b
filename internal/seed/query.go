package seed

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
)

// Clan queries never mutate their input and always return a fresh slice.

func ByMomentum(clans []model.Clan, m model.Momentum) []model.Clan {
	return filter(clans, func(c model.Clan) bool { return c.Momentum == m })
}

// ByCategory matches on the clan name prefix. Unknown categories match everything.
func ByCategory(clans []model.Clan, category string) []model.Clan {
	prefixes, ok := categoryPrefixes[category]
	if !ok {
		return filter(clans, func(model.Clan) bool { return true })
	}
	return filter(clans, func(c model.Clan) bool {
		first, _, _ := strings.Cut(c.Name, " ")
		return slices.Contains(prefixes, strings.ToLower(first))
	})
}

func ByPriceRange(clans []model.Clan, lo, hi float64) []model.Clan {
	return filter(clans, func(c model.Clan) bool { return c.FloorPrice >= lo && c.FloorPrice <= hi })
}

func Search(clans []model.Clan, term string) []model.Clan {
	term = strings.ToLower(term)
	return filter(clans, func(c model.Clan) bool {
		return strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Description), term)
	})
}

// Featured returns the top limit clans by 24h trades.
func Featured(clans []model.Clan, limit int) []model.Clan {
	out := byTrades(clans)
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// NewClans returns clans founded in the 30 days before now.
func NewClans(clans []model.Clan, now time.Time) []model.Clan {
	cutoff := now.AddDate(0, 0, -30)
	return filter(clans, func(c model.Clan) bool {
		f := c.FoundedAt()
		return !f.IsZero() && f.After(cutoff)
	})
}

// Trending returns hot clans ordered by 24h trades.
func Trending(clans []model.Clan) []model.Clan {
	return byTrades(ByMomentum(clans, model.MomentumHot))
}

func byTrades(clans []model.Clan) []model.Clan {
	out := slices.Clone(clans)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalTrades24h > out[j].TotalTrades24h })
	return out
}

func filter(clans []model.Clan, keep func(model.Clan) bool) []model.Clan {
	out := []model.Clan{}
	for _, c := range clans {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
