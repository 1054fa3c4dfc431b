// Package hooks binds a player session to the mock API: queries load data
// into the session's stores through a stale-time cache, and mutations call
// the API, update the stores and raise toasts.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrRequestFailed wraps the message of a success:false response.
var ErrRequestFailed = errors.New("request failed")
var ErrMissingID = errors.New("id is required")

const (
	GlobalActivityLimit = 50
	ClanActivityLimit   = 20
)

type Client struct {
	api   *mockapi.API
	sess  *session.Session
	cache *Cache
	log   *zap.Logger
}

func NewClient(api *mockapi.API, sess *session.Session, cache *Cache, log *zap.Logger) *Client {
	if cache == nil {
		cache = NewCache(nil)
	}
	return &Client{
		api:   api,
		sess:  sess,
		cache: cache,
		log:   log.With(zap.String("component", "hooks"), zap.String("session", sess.ID())),
	}
}

func (c *Client) Session() *session.Session { return c.sess }

func (c *Client) Cache() *Cache { return c.cache }

// unwrap turns a failed envelope into an error carrying its message.
func unwrap[T any](res mockapi.Response[T], err error, fallback string) (T, error) {
	if err != nil {
		return res.Data, err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = fallback
		}
		return res.Data, fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}
	return res.Data, nil
}

// Message is the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if errors.Is(err, ErrRequestFailed) {
		msg, _ = strings.CutPrefix(msg, ErrRequestFailed.Error()+": ")
	}
	return msg
}

func (c *Client) dispatch(ctx context.Context, actions ...store.Action) {
	for _, a := range actions {
		if err := c.sess.Dispatch(ctx, a); err != nil && !errors.Is(err, store.ErrNoUser) {
			c.log.Warn("dispatch failed", zap.String("action", a.Kind()), zap.Error(err))
		}
	}
}

type queryOpts struct {
	key      string
	stale    time.Duration
	store    store.Name
	loading  bool
	fallback string
}

// query runs one cached fetch and mirrors its outcome into the session.
func query[T any](ctx context.Context, c *Client, o queryOpts, call func(context.Context) (mockapi.Response[T], error), onData func(T) []store.Action) (T, error) {
	// Store updates must land even if the caller gives up mid-flight.
	bg := context.WithoutCancel(ctx)
	if o.loading {
		c.dispatch(bg, store.SetLoading{Store: o.store, Loading: true})
		defer c.dispatch(bg, store.SetLoading{Store: o.store, Loading: false})
	}
	data, err := cached(ctx, c.cache, o.key, o.stale, func(ctx context.Context) (T, error) {
		res, err := call(ctx)
		return unwrap(res, err, o.fallback)
	})
	if errors.Is(err, context.Canceled) {
		return data, err
	}
	if err != nil {
		c.log.Info("query failed", zap.String("key", o.key), zap.Error(err))
		c.dispatch(bg, store.SetError{Store: o.store, Error: Message(err)})
		return data, err
	}
	c.dispatch(bg, onData(data)...)
	return data, nil
}

func (c *Client) User(ctx context.Context) (model.UserProfile, error) {
	return query(ctx, c, queryOpts{KeyUser, StaleUser, store.StoreUser, true, "Failed to fetch user"},
		c.api.GetProfile,
		func(u model.UserProfile) []store.Action { return []store.Action{store.SetUser{User: u}} })
}

func (c *Client) Clans(ctx context.Context) ([]model.Clan, error) {
	return query(ctx, c, queryOpts{KeyClans, StaleClans, store.StoreClans, true, "Failed to fetch clans"},
		c.api.GetClans,
		func(cs []model.Clan) []store.Action { return []store.Action{store.SetClans{Clans: cs}} })
}

func (c *Client) Clan(ctx context.Context, id string) (*model.Clan, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return query(ctx, c, queryOpts{KeyClan + "/" + id, StaleClan, store.StoreClans, false, "Failed to fetch clan"},
		func(ctx context.Context) (mockapi.Response[*model.Clan], error) { return c.api.GetClan(ctx, id) },
		func(cl *model.Clan) []store.Action { return []store.Action{store.SelectClan{Clan: cl}} })
}

func (c *Client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return query(ctx, c, queryOpts{KeyLeaderboard, StaleLeaderboard, store.StoreClans, false, "Failed to fetch leaderboard"},
		c.api.GetLeaderboard,
		func(es []model.LeaderboardEntry) []store.Action {
			return []store.Action{store.SetLeaderboard{Entries: es}}
		})
}

func (c *Client) UserNFTs(ctx context.Context) ([]model.NFT, error) {
	return query(ctx, c, queryOpts{KeyUserNFTs, StaleNFTs, store.StoreNFTs, true, "Failed to fetch user NFTs"},
		c.api.GetUserNFTs,
		func(ns []model.NFT) []store.Action { return []store.Action{store.SetUserNFTs{NFTs: ns}} })
}

func (c *Client) ClanNFTs(ctx context.Context, clanID string) ([]model.NFT, error) {
	if clanID == "" {
		return nil, ErrMissingID
	}
	return query(ctx, c, queryOpts{KeyClanNFTs + "/" + clanID, StaleNFTs, store.StoreNFTs, false, "Failed to fetch clan NFTs"},
		func(ctx context.Context) (mockapi.Response[[]model.NFT], error) {
			return c.api.GetClanNFTs(ctx, clanID)
		},
		func(ns []model.NFT) []store.Action {
			return []store.Action{store.SetClanNFTs{ClanID: clanID, NFTs: ns}}
		})
}

func (c *Client) GlobalActivity(ctx context.Context) ([]model.ActivityEvent, error) {
	page, err := query(ctx, c, queryOpts{KeyGlobalActivity, StaleActivity, store.StoreLiveFeed, true, "Failed to fetch activity"},
		func(ctx context.Context) (mockapi.Response[model.Page[model.ActivityEvent]], error) {
			return c.api.GetGlobalActivity(ctx, 1, GlobalActivityLimit)
		},
		func(p model.Page[model.ActivityEvent]) []store.Action {
			return []store.Action{store.SetEvents{Events: p.Data}}
		})
	return page.Data, err
}

// MoreActivity appends an older page of global activity to the feed.
func (c *Client) MoreActivity(ctx context.Context, page int) ([]model.ActivityEvent, error) {
	page = max(page, 2)
	key := fmt.Sprintf("%s/page/%d", KeyGlobalActivity, page)
	p, err := query(ctx, c, queryOpts{key, StaleActivity, store.StoreLiveFeed, false, "Failed to fetch activity"},
		func(ctx context.Context) (mockapi.Response[model.Page[model.ActivityEvent]], error) {
			return c.api.GetGlobalActivity(ctx, page, GlobalActivityLimit)
		},
		func(p model.Page[model.ActivityEvent]) []store.Action {
			return []store.Action{store.AddEvents{Events: p.Data}}
		})
	return p.Data, err
}

// ClearFeed empties the live feed without touching the server log.
func (c *Client) ClearFeed(ctx context.Context) error {
	return c.sess.Dispatch(ctx, store.ClearEvents{})
}

// ClanActivity is not mirrored into any store.
func (c *Client) ClanActivity(ctx context.Context, clanID string) ([]model.ActivityEvent, error) {
	if clanID == "" {
		return nil, ErrMissingID
	}
	page, err := cached(ctx, c.cache, KeyClanActivity+"/"+clanID, StaleActivity, func(ctx context.Context) (model.Page[model.ActivityEvent], error) {
		res, err := c.api.GetClanActivity(ctx, clanID, 1, ClanActivityLimit)
		return unwrap(res, err, "Failed to fetch clan activity")
	})
	return page.Data, err
}

// Refresh drops the cache and reloads every store concurrently.
func (c *Client) Refresh(ctx context.Context) error {
	c.cache.Invalidate("")
	var g errgroup.Group
	g.Go(func() error { _, err := c.User(ctx); return err })
	g.Go(func() error { _, err := c.Clans(ctx); return err })
	g.Go(func() error { _, err := c.Leaderboard(ctx); return err })
	g.Go(func() error { _, err := c.UserNFTs(ctx); return err })
	g.Go(func() error { _, err := c.GlobalActivity(ctx); return err })
	return g.Wait()
}
