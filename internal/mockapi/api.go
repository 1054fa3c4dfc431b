// Package mockapi is the simulated backend. Every call waits an injected
// latency, then answers with a Response envelope; domain failures are
// reported as success:false, and Go errors mean the call was cancelled.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/leaderboard"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/repository"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"go.uber.org/zap"
)

// Failure classes carried on Response.Err so transports can pick a status.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

type Response[T any] struct {
	Data      T      `json:"data"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Err       error  `json:"-"`
}

// Latency returns how long a call should take. admin is set for admin calls.
type Latency func(admin bool) time.Duration

// AdminLatency is the fixed delay of admin calls under RandomLatency.
const AdminLatency = 100 * time.Millisecond

// MaxMintQuantity bounds a single mint, matching the quantity picker.
const MaxMintQuantity = 10

func RandomLatency(rng *seed.Rand, lo, hi time.Duration) Latency {
	return func(admin bool) time.Duration {
		if admin {
			return AdminLatency
		}
		return rng.Duration(lo, hi)
	}
}

func NoLatency(bool) time.Duration { return 0 }

type Option func(*API)

func WithLatency(l Latency) Option {
	return func(a *API) { a.latency = l }
}

// WithPublisher pushes the activity of every successful mutation to p.
func WithPublisher(p feed.Publisher) Option {
	return func(a *API) { a.pub = p }
}

type API struct {
	repo    *repository.Repository
	gen     *seed.Generator
	board   *leaderboard.Tracker
	log     *zap.Logger
	latency Latency
	pub     feed.Publisher

	mintMu sync.Mutex
}

func New(repo *repository.Repository, gen *seed.Generator, board *leaderboard.Tracker, log *zap.Logger, opts ...Option) *API {
	a := &API{
		repo:    repo,
		gen:     gen,
		board:   board,
		log:     log.With(zap.String("component", "mockapi")),
		latency: RandomLatency(gen.Rand(), 300*time.Millisecond, time.Second),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *API) Repository() *repository.Repository { return a.repo }

func (a *API) wait(ctx context.Context, admin bool) error {
	d := a.latency(admin)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *API) now() time.Time { return a.gen.Now() }

func ok[T any](a *API, data T, msg string) Response[T] {
	return Response[T]{Data: data, Success: true, Message: msg, Timestamp: a.now().UnixMilli()}
}

func fail[T any](a *API, class error, msg string) Response[T] {
	var zero T
	return Response[T]{Data: zero, Success: false, Message: msg, Timestamp: a.now().UnixMilli(), Err: fmt.Errorf("%w: %s", class, msg)}
}

func (a *API) record(e model.ActivityEvent) {
	a.repo.PrependActivity(e)
	if a.pub != nil {
		a.pub.Publish(feed.Event{Type: feed.EventActivity, Data: e, Timestamp: e.At})
	}
}

// Clans

func (a *API) GetClans(ctx context.Context) (Response[[]model.Clan], error) {
	a.log.Info("fetching all clans")
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.Clan]{}, err
	}
	return ok(a, a.repo.Clans(), ""), nil
}

func (a *API) GetClan(ctx context.Context, id string) (Response[*model.Clan], error) {
	a.log.Info("fetching clan", zap.String("clan", id))
	if err := a.wait(ctx, false); err != nil {
		return Response[*model.Clan]{}, err
	}
	c, err := a.repo.Clan(id)
	if err != nil {
		return fail[*model.Clan](a, ErrNotFound, "Clan not found"), nil
	}
	return ok(a, &c, ""), nil
}

func (a *API) JoinClan(ctx context.Context, id string) (Response[bool], error) {
	a.log.Info("joining clan", zap.String("clan", id))
	if err := a.wait(ctx, false); err != nil {
		return Response[bool]{}, err
	}
	if _, err := a.repo.Clan(id); err != nil {
		return fail[bool](a, ErrNotFound, "Clan not found"), nil
	}
	if !a.repo.User().HasStarterCard {
		return fail[bool](a, ErrBadRequest, fmt.Sprintf("Starter card required (%d APT)", seed.StarterCardPrice)), nil
	}
	_, err := a.repo.UpdateClan(id, func(c model.Clan) model.Clan {
		return model.ClanPatch{Members: model.Ptr(c.Members + 1)}.Apply(c)
	})
	if err != nil {
		return fail[bool](a, ErrNotFound, "Clan not found"), nil
	}
	a.repo.UpdateUser(func(u model.UserProfile) model.UserProfile {
		u.ClanID = id
		return u
	})
	return ok(a, true, "Successfully joined clan!"), nil
}

func (a *API) GetLeaderboard(ctx context.Context) (Response[[]model.LeaderboardEntry], error) {
	a.log.Info("fetching clan leaderboard")
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.LeaderboardEntry]{}, err
	}
	return ok(a, a.board.Compute(a.repo.Clans(), leaderboard.DefaultLimit), ""), nil
}

// User

func (a *API) GetProfile(ctx context.Context) (Response[model.UserProfile], error) {
	a.log.Info("fetching user profile")
	if err := a.wait(ctx, false); err != nil {
		return Response[model.UserProfile]{}, err
	}
	return ok(a, a.repo.User(), ""), nil
}

func (a *API) UpdateProfile(ctx context.Context, patch model.UserPatch) (Response[model.UserProfile], error) {
	a.log.Info("updating user profile")
	if err := a.wait(ctx, false); err != nil {
		return Response[model.UserProfile]{}, err
	}
	return ok(a, a.repo.UpdateUser(patch.Apply), ""), nil
}

func (a *API) ConnectWallet(ctx context.Context, username string) (Response[model.UserProfile], error) {
	a.log.Info("connecting wallet", zap.String("username", username))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.UserProfile]{}, err
	}
	if username == "" {
		return fail[model.UserProfile](a, ErrBadRequest, "Username is required"), nil
	}
	return ok(a, a.repo.UpdateUser(model.UserPatch{Username: &username}.Apply), ""), nil
}

// NFTs

func (a *API) GetUserNFTs(ctx context.Context) (Response[[]model.NFT], error) {
	a.log.Info("fetching user nfts")
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.NFT]{}, err
	}
	return ok(a, a.repo.OwnedNFTs(a.repo.User().NFTsOwned), ""), nil
}

func (a *API) GetClanNFTs(ctx context.Context, clanID string) (Response[[]model.NFT], error) {
	a.log.Info("fetching clan nfts", zap.String("clan", clanID))
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.NFT]{}, err
	}
	return ok(a, a.repo.NFTsByClan(clanID), ""), nil
}

func (a *API) MintNFT(ctx context.Context, clanID string, qty int) (Response[[]model.NFT], error) {
	a.log.Info("minting nfts", zap.String("clan", clanID), zap.Int("qty", qty))
	if err := a.wait(ctx, false); err != nil {
		return Response[[]model.NFT]{}, err
	}
	if qty < 1 || qty > MaxMintQuantity {
		return fail[[]model.NFT](a, ErrBadRequest, fmt.Sprintf("Quantity must be between 1 and %d", MaxMintQuantity)), nil
	}
	clan, err := a.repo.Clan(clanID)
	if err != nil {
		return fail[[]model.NFT](a, ErrNotFound, "Clan not found"), nil
	}

	a.mintMu.Lock()
	minted := a.gen.MintNFTs(clan, qty, a.repo.NextTokenID())
	a.repo.AddNFTs(minted...)
	a.mintMu.Unlock()

	user := a.repo.UpdateUser(func(u model.UserProfile) model.UserProfile {
		u.NFTsOwned += qty
		return u
	})
	ids := make([]string, len(minted))
	for i, n := range minted {
		ids[i] = n.ID
	}
	a.record(model.NewMint(user.Username, clanID, qty, ids, a.now()))

	cost := seed.MintCost(clan.MintPrice, qty)
	return ok(a, minted, fmt.Sprintf("Successfully minted %d NFT(s) for %s ETH!", qty, cost.StringFixed(2))), nil
}

// StakeNFT stakes the NFT. Data reports whether anything changed; staking an
// already staked NFT succeeds without counting it twice.
func (a *API) StakeNFT(ctx context.Context, id string) (Response[bool], error) {
	return a.setStaked(ctx, id, true)
}

func (a *API) UnstakeNFT(ctx context.Context, id string) (Response[bool], error) {
	return a.setStaked(ctx, id, false)
}

func (a *API) setStaked(ctx context.Context, id string, staked bool) (Response[bool], error) {
	verb := "staked"
	if !staked {
		verb = "unstaked"
	}
	a.log.Info("updating nft stake", zap.String("nft", id), zap.Bool("staked", staked))
	if err := a.wait(ctx, false); err != nil {
		return Response[bool]{}, err
	}

	before, after, err := a.repo.UpdateNFT(id, model.NFTPatch{Staked: &staked}.Apply)
	if err != nil {
		return fail[bool](a, ErrNotFound, "NFT not found"), nil
	}
	if before.Staked == staked {
		return ok(a, false, "NFT already "+verb), nil
	}

	user := a.repo.UpdateUser(func(u model.UserProfile) model.UserProfile {
		if staked {
			u.NFTsStaked++
		} else {
			u.NFTsStaked = max(0, u.NFTsStaked-1)
		}
		return u
	})
	if staked {
		a.record(model.NewStake(user.Username, after.ClanID, id, a.now()))
	} else {
		a.record(model.NewUnstake(user.Username, after.ClanID, id, a.now()))
	}
	return ok(a, true, "NFT "+verb+" successfully!"), nil
}

// Activity

func (a *API) GetGlobalActivity(ctx context.Context, page, limit int) (Response[model.Page[model.ActivityEvent]], error) {
	a.log.Info("fetching global activity", zap.Int("page", page), zap.Int("limit", limit))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.Page[model.ActivityEvent]]{}, err
	}
	return ok(a, model.Paginate(a.repo.Activity(), page, limit), ""), nil
}

func (a *API) GetClanActivity(ctx context.Context, clanID string, page, limit int) (Response[model.Page[model.ActivityEvent]], error) {
	a.log.Info("fetching clan activity", zap.String("clan", clanID))
	if err := a.wait(ctx, false); err != nil {
		return Response[model.Page[model.ActivityEvent]]{}, err
	}
	return ok(a, model.Paginate(a.repo.ClanActivity(clanID), page, limit), ""), nil
}
