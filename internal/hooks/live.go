package hooks

import (
	"context"

	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"go.uber.org/zap"
)

// FeedBuffer is the outbox size of a session's feed subscription.
const FeedBuffer = 64

// BindLiveFeed subscribes the session to src and folds pushed events into
// its stores until ctx ends, the session closes or src drops the outbox.
func (c *Client) BindLiveFeed(ctx context.Context, src feed.Source) {
	id := "session-" + c.sess.ID()
	out := make(chan feed.Event, FeedBuffer)
	src.Subscribe(id, nil, out)
	c.dispatch(ctx, store.SetFeedConnected{Connected: src.IsConnected()})

	go func() {
		defer src.Unsubscribe(id)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.sess.Done():
				return
			case evt, ok := <-out:
				if !ok {
					c.log.Info("live feed closed")
					c.dispatch(context.WithoutCancel(ctx), store.SetFeedConnected{Connected: false})
					return
				}
				a := eventAction(evt)
				if a == nil {
					c.log.Debug("ignoring feed event", zap.String("type", string(evt.Type)))
					continue
				}
				c.dispatch(ctx, a)
			}
		}
	}()
}

// eventAction maps a pushed event to the store action it implies, or nil.
func eventAction(evt feed.Event) store.Action {
	switch data := evt.Data.(type) {
	case model.ActivityEvent:
		if data.Validate() != nil {
			return nil
		}
		return store.AddEvent{Event: data}
	case feed.ClanUpdate:
		return store.AdjustClanMembers{ClanID: data.ClanID, Delta: data.Change}
	case feed.UserUpdate:
		if data.Field == "xp" {
			return store.AdjustUserStats{XP: data.Change}
		}
	case feed.ConnectionStatus:
		return store.SetFeedConnected{Connected: data.Status == "connected"}
	}
	return nil
}
