package store

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
)

// Visible is what the views render: every list with its filters applied.
type Visible struct {
	Clans  []model.Clan          `json:"clans"`
	NFTs   []model.NFT           `json:"nfts"`
	Events []model.ActivityEvent `json:"events"`
}

func VisibleState(s State, now time.Time) Visible {
	return Visible{
		Clans:  VisibleClans(s.Clans),
		NFTs:   VisibleNFTs(s.NFTs),
		Events: VisibleEvents(s.LiveFeed, now),
	}
}

// VisibleClans applies the search, momentum and sort filters.
func VisibleClans(cs ClansState) []model.Clan {
	f := cs.Filters
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := []model.Clan{}
	for _, c := range cs.Clans {
		if term != "" && !strings.Contains(strings.ToLower(c.Name), term) && !strings.Contains(strings.ToLower(c.Description), term) {
			continue
		}
		if len(f.Momentum) > 0 && !slices.Contains(f.Momentum, c.Momentum) {
			continue
		}
		out = append(out, c)
	}

	var by func(a, b model.Clan) int
	switch f.SortBy {
	case ClanSortMembers:
		by = func(a, b model.Clan) int { return cmp.Compare(a.Members, b.Members) }
	case ClanSortFloor:
		by = func(a, b model.Clan) int { return cmp.Compare(a.FloorPrice, b.FloorPrice) }
	case ClanSortName:
		by = func(a, b model.Clan) int { return strings.Compare(a.Name, b.Name) }
	default:
		by = func(a, b model.Clan) int { return cmp.Compare(a.TotalTrades24h, b.TotalTrades24h) }
	}
	slices.SortStableFunc(out, ordered(by, f.SortOrder))
	return out
}

// VisibleNFTs filters and sorts the user's NFTs.
func VisibleNFTs(ns NFTsState) []model.NFT {
	f := ns.Filters
	out := []model.NFT{}
	for _, n := range ns.UserNFTs {
		if len(f.Rarity) > 0 && !slices.Contains(f.Rarity, n.Rarity) {
			continue
		}
		if f.Staked == StakedOnly && !n.Staked || f.Staked == StakedNone && n.Staked {
			continue
		}
		if f.Clan != "" && n.ClanID != f.Clan {
			continue
		}
		out = append(out, n)
	}

	var by func(a, b model.NFT) int
	switch f.SortBy {
	case NFTSortRarity:
		by = func(a, b model.NFT) int { return cmp.Compare(a.Rarity.Rank(), b.Rarity.Rank()) }
	case NFTSortName:
		by = func(a, b model.NFT) int { return strings.Compare(a.Name, b.Name) }
	case NFTSortStaked:
		by = func(a, b model.NFT) int { return cmp.Compare(boolRank(a.Staked), boolRank(b.Staked)) }
	default:
		// RFC 3339 UTC timestamps sort lexically.
		by = func(a, b model.NFT) int { return strings.Compare(a.MintedAt, b.MintedAt) }
	}
	slices.SortStableFunc(out, ordered(by, f.SortOrder))
	return out
}

// VisibleEvents filters the feed by type, clan and time range relative to now.
func VisibleEvents(fs LiveFeedState, now time.Time) []model.ActivityEvent {
	f := fs.Filters
	var cutoff int64
	switch f.TimeRange {
	case Range1h:
		cutoff = now.Add(-time.Hour).UnixMilli()
	case Range24h:
		cutoff = now.Add(-24 * time.Hour).UnixMilli()
	case Range7d:
		cutoff = now.Add(-7 * 24 * time.Hour).UnixMilli()
	}

	out := []model.ActivityEvent{}
	for _, e := range fs.Events {
		if len(f.EventTypes) > 0 && !slices.Contains(f.EventTypes, e.Type) {
			continue
		}
		if len(f.Clans) > 0 && !slices.Contains(f.Clans, e.ClanID) {
			continue
		}
		if e.At < cutoff {
			continue
		}
		out = append(out, e)
	}
	return out
}

func ordered[T any](by func(a, b T) int, order SortOrder) func(a, b T) int {
	if order == Asc {
		return by
	}
	return func(a, b T) int { return by(b, a) }
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
