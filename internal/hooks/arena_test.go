package hooks

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArena(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.LoadArena(context.Background()))

	a := state(t, c).Arena
	assert.Equal(t, 1, a.Week)
	require.Len(t, a.Battles, 1)
	assert.Equal(t, 8000, a.Battles[0].PrizePool)
	assert.Len(t, a.Treasures, 4)
	assert.Equal(t, model.ArenaStats{TotalClans: 2, ActiveBattles: 1, WeeklyPrize: 8000, Warriors: 13}, a.Stats)
	assert.False(t, a.Loading)

	battles, err := c.Battles(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, battles, 1)
	assert.Equal(t, 2, state(t, c).Arena.Week)
}

func TestClaimTreasure(t *testing.T) {
	c, out := newTestClient(t)
	ctx := context.Background()
	_, err := c.Treasures(ctx)
	require.NoError(t, err)

	require.NoError(t, c.ClaimTreasure(ctx, 4))
	toast := recvToast(t, out, time.Second)
	assert.Equal(t, session.ToastSuccess, toast.Kind)
	assert.Equal(t, "Claimed Daily Login Streak worth 500 APT!", toast.Message)
	assert.True(t, state(t, c).Arena.Treasures[3].Claimed)

	err = c.ClaimTreasure(ctx, 4)
	assert.ErrorIs(t, err, ErrRequestFailed)
	toast = recvToast(t, out, time.Second)
	assert.Equal(t, session.ToastError, toast.Kind)
	assert.Equal(t, "Treasure already claimed", toast.Message)
}

func TestPlaceBid(t *testing.T) {
	c, out := newTestClient(t)
	ctx := context.Background()
	listings, err := c.Listings(ctx, "neon-wolves")
	require.NoError(t, err)
	require.Len(t, listings, 1)

	err = c.PlaceBid(ctx, "listing-neon-wolves-nft-1", 0.5)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "Bid must be higher than current bid", recvToast(t, out, time.Second).Message)

	require.NoError(t, c.PlaceBid(ctx, "listing-neon-wolves-nft-1", 2))
	assert.Equal(t, "Bid of 2.00 APT placed on Neon Wolves #2!", recvToast(t, out, time.Second).Message)
	l := state(t, c).Arena.Listings[0]
	assert.InDelta(t, 2, l.CurrentBid, 1e-9)
	assert.Equal(t, 3, l.BidCount)

	assert.ErrorIs(t, c.PlaceBid(ctx, "", 9), ErrMissingID)
	_, err = c.Listings(ctx, "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpgradeNFT(t *testing.T) {
	c, out := newTestClient(t)
	ctx := context.Background()
	_, err := c.UserNFTs(ctx)
	require.NoError(t, err)

	require.NoError(t, c.UpgradeNFT(ctx, "neon-wolves-nft-1"))
	toast := recvToast(t, out, time.Second)
	assert.Equal(t, session.ToastSuccess, toast.Kind)
	assert.Contains(t, toast.Message, "upgraded for")

	for _, n := range state(t, c).NFTs.UserNFTs {
		if n.ID == "neon-wolves-nft-1" {
			assert.Equal(t, 2, n.Level)
		}
	}
}

func TestBuyStarterCardUnlocksJoin(t *testing.T) {
	ds := testDataset()
	ds.User.HasStarterCard = false
	c, out := newClientWith(t, ds)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	err := c.JoinClan(ctx, "neon-wolves")
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "Starter card required (10 APT)", recvToast(t, out, time.Second).Message)

	require.NoError(t, c.BuyStarterCard(ctx))
	assert.Equal(t, "Starter card purchased for 10 APT!", recvToast(t, out, time.Second).Message)
	assert.True(t, state(t, c).User.User.HasStarterCard)

	require.NoError(t, c.JoinClan(ctx, "neon-wolves"))
	assert.Equal(t, "neon-wolves", state(t, c).User.User.ClanID)
}
