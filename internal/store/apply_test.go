package store

import (
	"testing"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUser() State {
	s := Initial()
	s, _, _ = Apply(s, SetUser{User: model.UserProfile{ID: "user-1", Username: "tester", XP: 100, NFTsOwned: 2, NFTsStaked: 1}})
	return s
}

func TestApply_UserActions(t *testing.T) {
	s := withUser()
	require.NotNil(t, s.User.User)
	assert.True(t, s.User.Connected)

	s2, entry, err := Apply(s, UpdateUser{Patch: model.UserPatch{ClanID: model.Ptr("neon-wolves")}})
	require.NoError(t, err)
	assert.Equal(t, StoreUser, entry.Store)
	assert.Equal(t, "updateUser", entry.Action)
	assert.Equal(t, "neon-wolves", s2.User.User.ClanID)
	assert.Empty(t, s.User.User.ClanID, "input state must not change")

	s3, _, err := Apply(s2, AdjustUserStats{XP: 15, NFTsStaked: -5})
	require.NoError(t, err)
	assert.Equal(t, 115, s3.User.User.XP)
	assert.Zero(t, s3.User.User.NFTsStaked)

	s4, _, err := Apply(s3, ClearUser{})
	require.NoError(t, err)
	assert.Nil(t, s4.User.User)
	assert.False(t, s4.User.Connected)
}

func TestApply_UpdateUserWithoutUser(t *testing.T) {
	s := Initial()
	for _, a := range []Action{UpdateUser{Patch: model.UserPatch{XP: model.Ptr(1)}}, AdjustUserStats{XP: 1}} {
		got, _, err := Apply(s, a)
		assert.ErrorIs(t, err, ErrNoUser)
		assert.Nil(t, got.User.User)
	}
}

func TestApply_GenericActions(t *testing.T) {
	for _, name := range Names {
		t.Run(string(name), func(t *testing.T) {
			s, _, err := Apply(Initial(), SetLoading{Store: name, Loading: true})
			require.NoError(t, err)

			s, entry, err := Apply(s, SetError{Store: name, Error: "boom"})
			require.NoError(t, err)
			assert.Equal(t, name, entry.Store)

			loading, msg := common(s, name)
			assert.False(t, loading, "setError clears loading")
			assert.Equal(t, "boom", msg)

			s, _, err = Apply(s, Reset{Store: name})
			require.NoError(t, err)
			loading, msg = common(s, name)
			assert.False(t, loading)
			assert.Empty(t, msg)
		})
	}

	_, _, err := Apply(Initial(), SetLoading{Store: "bogus", Loading: true})
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func common(s State, name Name) (bool, string) {
	switch name {
	case StoreUser:
		return s.User.Loading, s.User.Error
	case StoreClans:
		return s.Clans.Loading, s.Clans.Error
	case StoreNFTs:
		return s.NFTs.Loading, s.NFTs.Error
	case StoreArena:
		return s.Arena.Loading, s.Arena.Error
	default:
		return s.LiveFeed.Loading, s.LiveFeed.Error
	}
}

func TestApply_SetDataClearsError(t *testing.T) {
	s, _, _ := Apply(Initial(), SetError{Store: StoreClans, Error: "x"})
	s, _, _ = Apply(s, SetClans{Clans: []model.Clan{{ID: "a"}}})
	assert.Empty(t, s.Clans.Error)

	s, _, _ = Apply(s, SetError{Store: StoreNFTs, Error: "x"})
	s, _, _ = Apply(s, SetUserNFTs{NFTs: []model.NFT{{ID: "n"}}})
	assert.Empty(t, s.NFTs.Error)

	s, _, _ = Apply(s, SetError{Store: StoreLiveFeed, Error: "x"})
	s, _, _ = Apply(s, SetEvents{Events: []model.ActivityEvent{{Type: model.EventMint, At: 1}}})
	assert.Empty(t, s.LiveFeed.Error)
}

func TestApply_ClanActions(t *testing.T) {
	s, _, _ := Apply(Initial(), SetClans{Clans: []model.Clan{
		{ID: "a", Members: 5, MemberCount: 5},
		{ID: "b", Members: 1, MemberCount: 1},
	}})
	sel := s.Clans.Clans[0]
	s, _, _ = Apply(s, SelectClan{Clan: &sel})

	s2, _, err := Apply(s, JoinClan{ClanID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 6, s2.Clans.Clans[0].Members)
	assert.Equal(t, 6, s2.Clans.Selected.Members)
	assert.Equal(t, 5, s.Clans.Clans[0].Members, "input state must not change")

	s3, _, _ := Apply(s2, AdjustClanMembers{ClanID: "b", Delta: -5})
	assert.Zero(t, s3.Clans.Clans[1].Members)

	s4, _, _ := Apply(s3, UpdateClan{ID: "b", Patch: model.ClanPatch{Momentum: model.Ptr(model.MomentumHot)}})
	assert.Equal(t, model.MomentumHot, s4.Clans.Clans[1].Momentum)

	s5, _, _ := Apply(s4, SelectClan{})
	assert.Nil(t, s5.Clans.Selected)
	assert.NotNil(t, s4.Clans.Selected)
}

func TestApply_NFTActions(t *testing.T) {
	nft := model.NFT{ID: "n1", ClanID: "a"}
	s, _, _ := Apply(Initial(), SetUserNFTs{NFTs: []model.NFT{nft}})
	s, _, _ = Apply(s, SetClanNFTs{ClanID: "a", NFTs: []model.NFT{nft, {ID: "n2", ClanID: "a"}}})

	staked, _, err := Apply(s, StakeNFT{ID: "n1"})
	require.NoError(t, err)
	assert.True(t, staked.NFTs.UserNFTs[0].Staked)
	assert.True(t, staked.NFTs.ClanNFTs["a"][0].Staked)
	assert.False(t, s.NFTs.UserNFTs[0].Staked, "input state must not change")
	assert.False(t, s.NFTs.ClanNFTs["a"][0].Staked, "input map must not change")

	unstaked, _, _ := Apply(staked, UnstakeNFT{ID: "n1"})
	assert.False(t, unstaked.NFTs.UserNFTs[0].Staked)

	added, _, _ := Apply(unstaked, AddUserNFTs{NFTs: []model.NFT{{ID: "n3"}}})
	assert.Len(t, added.NFTs.UserNFTs, 2)
	assert.Len(t, unstaked.NFTs.UserNFTs, 1)
}

func TestApply_LiveFeedCap(t *testing.T) {
	s := Initial()
	for i := range MaxEvents + 10 {
		s, _, _ = Apply(s, AddEvent{Event: model.ActivityEvent{Type: model.EventTrade, At: int64(i)}})
	}
	require.Len(t, s.LiveFeed.Events, MaxEvents)
	assert.Equal(t, int64(MaxEvents+9), s.LiveFeed.Events[0].At)

	s, _, _ = Apply(s, AddEvents{Events: []model.ActivityEvent{{At: 100000}, {At: -1}}})
	require.Len(t, s.LiveFeed.Events, MaxEvents)
	assert.Equal(t, int64(100000), s.LiveFeed.Events[0].At)

	s, _, _ = Apply(s, ClearEvents{})
	assert.Empty(t, s.LiveFeed.Events)
}

func TestApply_SetEventsSorts(t *testing.T) {
	s, _, _ := Apply(Initial(), SetEvents{Events: []model.ActivityEvent{{At: 1}, {At: 3}, {At: 2}}})
	got := []int64{}
	for _, e := range s.LiveFeed.Events {
		got = append(got, e.At)
	}
	assert.Equal(t, []int64{3, 2, 1}, got)
}

func TestApply_Filters(t *testing.T) {
	cases := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"clan sort", SetClanFilters{Patch: ClanFilterPatch{SortBy: model.Ptr(ClanSortName)}}, false},
		{"clan bad sort", SetClanFilters{Patch: ClanFilterPatch{SortBy: model.Ptr(ClanSort("power"))}}, true},
		{"clan bad momentum", SetClanFilters{Patch: ClanFilterPatch{Momentum: []model.Momentum{"cold"}}}, true},
		{"nft staked", SetNFTFilters{Patch: NFTFilterPatch{Staked: model.Ptr(StakedOnly)}}, false},
		{"nft bad rarity", SetNFTFilters{Patch: NFTFilterPatch{Rarity: []model.Rarity{"mythic"}}}, true},
		{"nft bad order", SetNFTFilters{Patch: NFTFilterPatch{SortOrder: model.Ptr(SortOrder("up"))}}, true},
		{"feed range", SetFeedFilters{Patch: FeedFilterPatch{TimeRange: model.Ptr(Range1h)}}, false},
		{"feed bad range", SetFeedFilters{Patch: FeedFilterPatch{TimeRange: model.Ptr(TimeRange("30d"))}}, true},
		{"feed bad type", SetFeedFilters{Patch: FeedFilterPatch{EventTypes: []model.EventType{"BURN"}}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Initial()
			got, _, err := Apply(s, tc.action)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				assert.Equal(t, s, got)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApply_FilterMergeKeepsUnsetFields(t *testing.T) {
	s, _, err := Apply(Initial(), SetClanFilters{Patch: ClanFilterPatch{Search: model.Ptr("dragon")}})
	require.NoError(t, err)
	assert.Equal(t, "dragon", s.Clans.Filters.Search)
	assert.Equal(t, ClanSortTrades, s.Clans.Filters.SortBy)
	assert.Equal(t, Desc, s.Clans.Filters.SortOrder)
}

func TestApply_Arena(t *testing.T) {
	s := Initial()
	s, _, err := Apply(s, SetBattles{Week: 2, Battles: []model.Battle{{ID: 11, Week: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Arena.Week)
	require.Len(t, s.Arena.Battles, 1)

	s, _, _ = Apply(s, SetArenaStats{Stats: model.ArenaStats{TotalClans: 100}})
	assert.Equal(t, 100, s.Arena.Stats.TotalClans)

	s, _, _ = Apply(s, SetTreasures{Treasures: []model.Treasure{{ID: 1}, {ID: 2}}})
	before := s
	s, entry, err := Apply(s, ClaimTreasure{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, StoreArena, entry.Store)
	assert.Equal(t, "claimTreasure", entry.Action)
	assert.False(t, s.Arena.Treasures[0].Claimed)
	assert.True(t, s.Arena.Treasures[1].Claimed)
	assert.False(t, before.Arena.Treasures[1].Claimed, "input state untouched")

	s, _, _ = Apply(s, SetListings{Listings: []model.Listing{{ID: "l1", CurrentBid: 1}, {ID: "l2", CurrentBid: 2}}})
	s, _, _ = Apply(s, UpdateListing{Listing: model.Listing{ID: "l2", CurrentBid: 3, BidCount: 1}})
	assert.InDelta(t, 1, s.Arena.Listings[0].CurrentBid, 1e-9)
	assert.InDelta(t, 3, s.Arena.Listings[1].CurrentBid, 1e-9)

	s, _, _ = Apply(s, Reset{Store: StoreArena})
	assert.Empty(t, s.Arena.Battles)
	assert.Empty(t, s.Arena.Listings)
	assert.NotNil(t, s.Arena.Treasures)
}

func TestApply_ReplaceNFT(t *testing.T) {
	s := Initial()
	s, _, _ = Apply(s, SetUserNFTs{NFTs: []model.NFT{{ID: "n1", Level: 1}, {ID: "n2", Level: 1}}})
	s, _, _ = Apply(s, SetClanNFTs{ClanID: "c", NFTs: []model.NFT{{ID: "n1", Level: 1}}})

	s, _, err := Apply(s, ReplaceNFT{NFT: model.NFT{ID: "n1", Level: 2, UpgradeCost: 12}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.NFTs.UserNFTs[0].Level)
	assert.Equal(t, 1, s.NFTs.UserNFTs[1].Level)
	assert.Equal(t, 12, s.NFTs.ClanNFTs["c"][0].UpgradeCost)
}
