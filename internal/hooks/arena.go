package hooks

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"golang.org/x/sync/errgroup"
)

// Arena queries

func (c *Client) ArenaStats(ctx context.Context) (model.ArenaStats, error) {
	return query(ctx, c, queryOpts{KeyArenaStats, StaleArena, store.StoreArena, false, "Failed to fetch arena stats"},
		c.api.GetArenaStats,
		func(st model.ArenaStats) []store.Action { return []store.Action{store.SetArenaStats{Stats: st}} })
}

// Battles loads one week of the schedule; week 0 is the current week.
func (c *Client) Battles(ctx context.Context, week int) ([]model.Battle, error) {
	if week == 0 {
		week = seed.CurrentWeek
	}
	return query(ctx, c, queryOpts{fmt.Sprintf("%s/%d", KeyBattles, week), StaleArena, store.StoreArena, true, "Failed to fetch battles"},
		func(ctx context.Context) (mockapi.Response[[]model.Battle], error) {
			return c.api.GetBattles(ctx, week)
		},
		func(b []model.Battle) []store.Action { return []store.Action{store.SetBattles{Week: week, Battles: b}} })
}

func (c *Client) Treasures(ctx context.Context) ([]model.Treasure, error) {
	return query(ctx, c, queryOpts{KeyTreasures, StaleArena, store.StoreArena, false, "Failed to fetch treasures"},
		c.api.GetTreasures,
		func(t []model.Treasure) []store.Action { return []store.Action{store.SetTreasures{Treasures: t}} })
}

func (c *Client) Listings(ctx context.Context, clanID string) ([]model.Listing, error) {
	if clanID == "" {
		return nil, ErrMissingID
	}
	return query(ctx, c, queryOpts{KeyListings + "/" + clanID, StaleArena, store.StoreArena, true, "Failed to fetch listings"},
		func(ctx context.Context) (mockapi.Response[[]model.Listing], error) {
			return c.api.GetListings(ctx, clanID)
		},
		func(l []model.Listing) []store.Action { return []store.Action{store.SetListings{Listings: l}} })
}

// Arena mutations

func (c *Client) ClaimTreasure(ctx context.Context, id int) error {
	res, err := c.api.ClaimTreasure(ctx, id)
	if _, err = unwrap(res, err, "Failed to claim treasure"); err != nil {
		return c.failed(ctx, "claimTreasure", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.ClaimTreasure{ID: id})
	c.cache.Invalidate(KeyTreasures)
	c.toast(bg, session.ToastSuccess, res.Message)
	return nil
}

func (c *Client) PlaceBid(ctx context.Context, listingID string, amount float64) error {
	if listingID == "" {
		return c.failed(ctx, "placeBid", ErrMissingID)
	}
	res, err := c.api.PlaceBid(ctx, listingID, amount)
	listing, err := unwrap(res, err, "Failed to place bid")
	if err != nil {
		return c.failed(ctx, "placeBid", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.UpdateListing{Listing: listing})
	c.cache.Invalidate(KeyListings)
	c.toast(bg, session.ToastSuccess, res.Message)
	return nil
}

func (c *Client) UpgradeNFT(ctx context.Context, nftID string) error {
	if nftID == "" {
		return c.failed(ctx, "upgradeNFT", ErrMissingID)
	}
	res, err := c.api.UpgradeNFT(ctx, nftID)
	nft, err := unwrap(res, err, "Failed to upgrade NFT")
	if err != nil {
		return c.failed(ctx, "upgradeNFT", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.ReplaceNFT{NFT: nft})
	c.cache.Invalidate(KeyUserNFTs, KeyClanNFTs+"/"+nft.ClanID)
	c.toast(bg, session.ToastSuccess, res.Message)
	return nil
}

func (c *Client) BuyStarterCard(ctx context.Context) error {
	res, err := c.api.BuyStarterCard(ctx)
	if _, err = unwrap(res, err, "Failed to buy starter card"); err != nil {
		return c.failed(ctx, "buyStarterCard", err)
	}
	bg := context.WithoutCancel(ctx)
	c.dispatch(bg, store.UpdateUser{Patch: model.UserPatch{HasStarterCard: model.Ptr(true)}})
	c.cache.Invalidate(KeyUser)
	c.toast(bg, session.ToastSuccess, res.Message)
	return nil
}

// LoadArena fetches the lobby counters, this week's battles and the
// treasures concurrently.
func (c *Client) LoadArena(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { _, err := c.ArenaStats(ctx); return err })
	g.Go(func() error { _, err := c.Battles(ctx, 0); return err })
	g.Go(func() error { _, err := c.Treasures(ctx); return err })
	return g.Wait()
}
