package repository

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arenaFixture() *Repository {
	return NewRepository(Dataset{
		User: model.UserProfile{ID: "user-1", NFTsOwned: 1},
		NFTs: []model.NFT{{ID: "a-nft-1", ClanID: "a"}, {ID: "a-nft-2", ClanID: "a"}},
		Battles: []model.Battle{
			{ID: 1, Week: 1}, {ID: 2, Week: 1}, {ID: 3, Week: 2},
		},
		Treasures: seed.Treasures(),
		Listings: []model.Listing{
			{ID: "listing-a-nft-1", NFTID: "a-nft-1", ClanID: "a", CurrentBid: 1},
			{ID: "listing-b-nft-1", NFTID: "b-nft-1", ClanID: "b", CurrentBid: 2},
		},
	})
}

func TestRepository_BattlesByWeek(t *testing.T) {
	r := arenaFixture()
	assert.Len(t, r.Battles(0), 3)
	assert.Len(t, r.Battles(1), 2)
	assert.Equal(t, 3, r.Battles(2)[0].ID)
	assert.Empty(t, r.Battles(9))
}

func TestRepository_UpdateTreasure(t *testing.T) {
	r := arenaFixture()
	errNope := errors.New("nope")

	_, err := r.UpdateTreasure(1, func(tr model.Treasure) (model.Treasure, error) {
		tr.Claimed = true
		return tr, errNope
	})
	require.ErrorIs(t, err, errNope)
	assert.False(t, r.Treasures()[0].Claimed)

	got, err := r.UpdateTreasure(1, func(tr model.Treasure) (model.Treasure, error) {
		tr.Claimed = true
		return tr, nil
	})
	require.NoError(t, err)
	assert.True(t, got.Claimed)
	assert.True(t, r.Treasures()[0].Claimed)

	_, err = r.UpdateTreasure(99, func(tr model.Treasure) (model.Treasure, error) { return tr, nil })
	assert.ErrorIs(t, err, ErrTreasureNotFound)
}

func TestRepository_ListingsAndOwnership(t *testing.T) {
	r := arenaFixture()
	require.Len(t, r.Listings("a"), 1)
	assert.Empty(t, r.Listings("ghost"))

	got, err := r.UpdateListing("listing-b-nft-1", func(l model.Listing) (model.Listing, error) {
		l.CurrentBid = 3
		return l, nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 3, got.CurrentBid, 1e-9)
	assert.InDelta(t, 3, r.Listings("b")[0].CurrentBid, 1e-9)

	_, err = r.UpdateListing("missing", func(l model.Listing) (model.Listing, error) { return l, nil })
	assert.ErrorIs(t, err, ErrListingNotFound)

	assert.True(t, r.Owns("a-nft-1"))
	assert.False(t, r.Owns("a-nft-2"))
}

func TestSeeded_FillsArena(t *testing.T) {
	r := Seeded(seed.New(3), SeedOptions{NFTsPerClan: 10, ActivityCount: 5})
	assert.Len(t, r.Battles(0), seed.BattleCount)
	assert.Len(t, r.Treasures(), 4)
	assert.Len(t, r.Listings(seed.DefaultUserClanID), seed.ListingsPerClan)
	assert.True(t, r.User().HasStarterCard)
}
