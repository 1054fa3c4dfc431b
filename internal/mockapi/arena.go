package mockapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	errAlreadyClaimed = errors.New("already claimed")
	errBidTooLow      = errors.New("bid too low")
)

// Arena

func (a *API) GetArenaStats(ctx context.Context) (Response[model.ArenaStats], error) {
	a.log.Info("fetching arena stats")
	if err := a.wait(ctx, false); err != nil {
		return Response[model.ArenaStats]{}, err
	}
	return ok(a, seed.ArenaStats(a.repo.Clans(), a.repo.Battles(0)), ""), nil
}

// GetBattles serves one week of the schedule; week 0 means the current week.
func (a *API) GetBattles(ctx context.Context, week int) (Response[[]model.Battle], error) {
	a.log.Info("fetching battles", zap.Int("week", week))
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.Battle]{}, err
	}
	if week < 0 {
		return fail[[]model.Battle](a, ErrBadRequest, "Week must be positive"), nil
	}
	if week == 0 {
		week = seed.CurrentWeek
	}
	return ok(a, a.repo.Battles(week), ""), nil
}

func (a *API) GetTreasures(ctx context.Context) (Response[[]model.Treasure], error) {
	a.log.Info("fetching treasures")
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.Treasure]{}, err
	}
	return ok(a, a.repo.Treasures(), ""), nil
}

func (a *API) ClaimTreasure(ctx context.Context, id int) (Response[model.Treasure], error) {
	a.log.Info("claiming treasure", zap.Int("treasure", id))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.Treasure]{}, err
	}
	t, err := a.repo.UpdateTreasure(id, func(t model.Treasure) (model.Treasure, error) {
		if t.Claimed {
			return t, errAlreadyClaimed
		}
		t.Claimed = true
		return t, nil
	})
	switch {
	case errors.Is(err, errAlreadyClaimed):
		return fail[model.Treasure](a, ErrBadRequest, "Treasure already claimed"), nil
	case err != nil:
		return fail[model.Treasure](a, ErrNotFound, "Treasure not found"), nil
	}
	return ok(a, t, fmt.Sprintf("Claimed %s worth %d APT!", t.Name, t.Value)), nil
}

// Trading

func (a *API) GetListings(ctx context.Context, clanID string) (Response[[]model.Listing], error) {
	a.log.Info("fetching listings", zap.String("clan", clanID))
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.Listing]{}, err
	}
	if _, err := a.repo.Clan(clanID); err != nil {
		return fail[[]model.Listing](a, ErrNotFound, "Clan not found"), nil
	}
	return ok(a, a.repo.Listings(clanID), ""), nil
}

// PlaceBid raises a listing's current bid. The amount must beat it strictly.
func (a *API) PlaceBid(ctx context.Context, listingID string, amount float64) (Response[model.Listing], error) {
	a.log.Info("placing bid", zap.String("listing", listingID), zap.Float64("amount", amount))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.Listing]{}, err
	}
	bid := decimal.NewFromFloat(amount).Round(2)
	bidder := a.repo.User().Username
	l, err := a.repo.UpdateListing(listingID, func(l model.Listing) (model.Listing, error) {
		if !bid.GreaterThan(decimal.NewFromFloat(l.CurrentBid)) {
			return l, errBidTooLow
		}
		l.CurrentBid = bid.InexactFloat64()
		l.BidCount++
		l.HighBidder = bidder
		return l, nil
	})
	switch {
	case errors.Is(err, errBidTooLow):
		return fail[model.Listing](a, ErrBadRequest, "Bid must be higher than current bid"), nil
	case err != nil:
		return fail[model.Listing](a, ErrNotFound, "Listing not found"), nil
	}
	return ok(a, l, fmt.Sprintf("Bid of %s APT placed on %s!", bid.StringFixed(2), l.Name)), nil
}

// Progression

// UpgradeNFT raises one of the user's NFTs a level for its upgrade cost.
func (a *API) UpgradeNFT(ctx context.Context, id string) (Response[model.NFT], error) {
	a.log.Info("upgrading nft", zap.String("nft", id))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.NFT]{}, err
	}
	if _, err := a.repo.NFT(id); err != nil {
		return fail[model.NFT](a, ErrNotFound, "NFT not found"), nil
	}
	if !a.repo.Owns(id) {
		return fail[model.NFT](a, ErrBadRequest, "You do not own this NFT"), nil
	}

	maxed := false
	before, after, err := a.repo.UpdateNFT(id, func(n model.NFT) model.NFT {
		up, ok := seed.Upgrade(n)
		maxed = !ok
		return up
	})
	if err != nil {
		return fail[model.NFT](a, ErrNotFound, "NFT not found"), nil
	}
	if maxed {
		return fail[model.NFT](a, ErrBadRequest, "NFT is already at max level"), nil
	}
	cost := before.UpgradeCost
	if cost == 0 {
		cost = seed.UpgradeCost(max(before.Level, 1), before.Rarity)
	}
	name := after.Name
	if name == "" {
		name = after.ID
	}
	return ok(a, after, fmt.Sprintf("%s upgraded for %d APT! Level increased!", name, cost)), nil
}

// BuyStarterCard grants the card that joining a clan requires.
func (a *API) BuyStarterCard(ctx context.Context) (Response[model.UserProfile], error) {
	a.log.Info("buying starter card")
	if err := a.wait(ctx, false); err != nil {
		return Response[model.UserProfile]{}, err
	}
	already := false
	u := a.repo.UpdateUser(func(u model.UserProfile) model.UserProfile {
		already = u.HasStarterCard
		u.HasStarterCard = true
		return u
	})
	if already {
		return fail[model.UserProfile](a, ErrBadRequest, "Starter card already owned"), nil
	}
	return ok(a, u, fmt.Sprintf("Starter card purchased for %d APT!", seed.StarterCardPrice)), nil
}
