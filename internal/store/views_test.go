package store

import (
	"testing"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func ids[T any](items []T, id func(T) string) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func TestVisibleClans(t *testing.T) {
	cs := InitialClans()
	cs.Clans = []model.Clan{
		{ID: "a", Name: "Cyber Dragons", Members: 10, TotalTrades24h: 5, Momentum: model.MomentumHot},
		{ID: "b", Name: "Neon Wolves", Members: 30, TotalTrades24h: 50, Momentum: model.MomentumSteady},
		{ID: "c", Name: "Shadow Dragons", Members: 20, TotalTrades24h: 20, Momentum: model.MomentumHot},
	}
	clanID := func(c model.Clan) string { return c.ID }

	assert.Equal(t, []string{"b", "c", "a"}, ids(VisibleClans(cs), clanID))

	cs.Filters.Search = "DRAGON"
	assert.Equal(t, []string{"c", "a"}, ids(VisibleClans(cs), clanID))

	cs.Filters.Search = ""
	cs.Filters.Momentum = []model.Momentum{model.MomentumSteady}
	assert.Equal(t, []string{"b"}, ids(VisibleClans(cs), clanID))

	cs.Filters.Momentum = nil
	cs.Filters.SortBy = ClanSortName
	cs.Filters.SortOrder = Asc
	assert.Equal(t, []string{"a", "b", "c"}, ids(VisibleClans(cs), clanID))

	cs.Filters.SortBy = ClanSortMembers
	assert.Equal(t, []string{"a", "c", "b"}, ids(VisibleClans(cs), clanID))
}

func TestVisibleNFTs(t *testing.T) {
	ns := InitialNFTs()
	ns.UserNFTs = []model.NFT{
		{ID: "1", ClanID: "a", Rarity: model.RarityCommon, MintedAt: "2025-01-01T00:00:00Z"},
		{ID: "2", ClanID: "b", Rarity: model.RarityLegendary, Staked: true, MintedAt: "2025-03-01T00:00:00Z"},
		{ID: "3", ClanID: "a", Rarity: model.RarityEpic, Staked: true, MintedAt: "2025-02-01T00:00:00Z"},
	}
	nftID := func(n model.NFT) string { return n.ID }

	assert.Equal(t, []string{"2", "3", "1"}, ids(VisibleNFTs(ns), nftID))

	ns.Filters.Staked = StakedOnly
	ns.Filters.Clan = "a"
	assert.Equal(t, []string{"3"}, ids(VisibleNFTs(ns), nftID))

	ns.Filters = NFTFilters{SortBy: NFTSortRarity, SortOrder: Desc, Rarity: []model.Rarity{model.RarityCommon, model.RarityLegendary}}
	assert.Equal(t, []string{"2", "1"}, ids(VisibleNFTs(ns), nftID))

	ns.Filters = NFTFilters{SortBy: NFTSortStaked, SortOrder: Asc, Staked: StakedNone}
	assert.Equal(t, []string{"1"}, ids(VisibleNFTs(ns), nftID))
}

func TestVisibleEvents(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fs := InitialLiveFeed()
	fs.Events = []model.ActivityEvent{
		{Type: model.EventMint, ClanID: "a", At: now.Add(-time.Minute).UnixMilli()},
		{Type: model.EventTrade, ClanID: "b", At: now.Add(-2 * time.Hour).UnixMilli()},
		{Type: model.EventStake, ClanID: "a", At: now.Add(-48 * time.Hour).UnixMilli()},
	}
	typ := func(e model.ActivityEvent) string { return string(e.Type) }

	assert.Equal(t, []string{"MINT", "TRADE"}, ids(VisibleEvents(fs, now), typ))

	fs.Filters.TimeRange = RangeAll
	assert.Len(t, VisibleEvents(fs, now), 3)

	fs.Filters.TimeRange = Range1h
	assert.Equal(t, []string{"MINT"}, ids(VisibleEvents(fs, now), typ))

	fs.Filters = FeedFilters{TimeRange: Range7d, Clans: []string{"a"}, EventTypes: []model.EventType{model.EventStake}}
	assert.Equal(t, []string{"STAKE"}, ids(VisibleEvents(fs, now), typ))
}

func TestVisibleState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Initial()
	s.Clans.Clans = []model.Clan{{ID: "a", Name: "Cyber Dragons"}, {ID: "b", Name: "Neon Wolves"}}
	s.Clans.Filters.Search = "wolves"
	s.NFTs.UserNFTs = []model.NFT{{ID: "1", Staked: true}, {ID: "2"}}
	s.NFTs.Filters.Staked = StakedNone
	s.LiveFeed.Events = []model.ActivityEvent{model.NewTrade("u", "a", "n", 1, now.Add(-time.Minute))}

	v := VisibleState(s, now)
	assert.Equal(t, []string{"b"}, ids(v.Clans, func(c model.Clan) string { return c.ID }))
	assert.Equal(t, []string{"2"}, ids(v.NFTs, func(n model.NFT) string { return n.ID }))
	assert.Len(t, v.Events, 1)
}
