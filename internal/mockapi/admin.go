package mockapi

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"go.uber.org/zap"
)

var (
	mockMinters = []string{"TestUser1", "TestUser2", "TestUser3"}
	mockTraders = []string{"TraderA", "TraderB", "TraderC"}
)

// MomentumDelta is the score change recorded when a clan is moved to m.
func MomentumDelta(m model.Momentum) float64 {
	switch m {
	case model.MomentumHot:
		return 50
	case model.MomentumNew:
		return 25
	case model.MomentumValue:
		return 10
	default:
		return 0
	}
}

func (a *API) TriggerMockMint(ctx context.Context, clanID string, qty int) (Response[bool], error) {
	a.log.Info("admin: triggering mock mint", zap.String("clan", clanID))
	if err := a.wait(ctx, true); err != nil {
		return Response[bool]{}, err
	}
	if _, err := a.repo.Clan(clanID); err != nil {
		return fail[bool](a, ErrNotFound, "Clan not found"), nil
	}
	if qty > MaxMintQuantity {
		return fail[bool](a, ErrBadRequest, fmt.Sprintf("Quantity must be at most %d", MaxMintQuantity)), nil
	}
	if qty < 1 {
		qty = 1
	}
	user := seed.Pick(a.gen.Rand(), mockMinters)
	a.record(model.NewMint(user, clanID, qty, nil, a.now()))
	return ok(a, true, "Mock mint event triggered!"), nil
}

func (a *API) TriggerMockTrade(ctx context.Context, clanID string) (Response[bool], error) {
	a.log.Info("admin: triggering mock trade", zap.String("clan", clanID))
	if err := a.wait(ctx, true); err != nil {
		return Response[bool]{}, err
	}
	if _, err := a.repo.Clan(clanID); err != nil {
		return fail[bool](a, ErrNotFound, "Clan not found"), nil
	}
	rng := a.gen.Rand()
	now := a.now()
	price := seed.Round(rng.Between(0.5, 10.5), 2)
	a.record(model.NewTrade(seed.Pick(rng, mockTraders), clanID, fmt.Sprintf("nft-%d", now.UnixMilli()), price, now))
	return ok(a, true, "Mock trade event triggered!"), nil
}

func (a *API) SetClanMomentum(ctx context.Context, clanID, momentum string) (Response[bool], error) {
	a.log.Info("admin: setting clan momentum", zap.String("clan", clanID), zap.String("momentum", momentum))
	if err := a.wait(ctx, true); err != nil {
		return Response[bool]{}, err
	}
	m, err := model.ParseMomentum(momentum)
	if err != nil {
		return fail[bool](a, ErrBadRequest, err.Error()), nil
	}
	if _, err := a.repo.UpdateClan(clanID, model.ClanPatch{Momentum: &m}.Apply); err != nil {
		return fail[bool](a, ErrNotFound, "Clan not found"), nil
	}
	a.record(model.NewClanMomentum(clanID, MomentumDelta(m), "Admin set momentum to "+string(m), a.now()))
	return ok(a, true, fmt.Sprintf("Clan momentum set to %s!", m)), nil
}
