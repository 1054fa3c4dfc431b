package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hooks"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hub"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"github.com/DoyleJ11/clan-vaults-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 2 * time.Minute
	outboxSize   = 32
)

var errUnknownType = errors.New("unknown type")

type Deps struct {
	Hub     *hub.Hub
	Clients *hooks.Registry
	Feed    feed.Source // optional; raw events are forwarded as FeedEvent frames
	Log     *zap.Logger
	// OriginPatterns loosens the same-origin check, e.g. "localhost:*".
	OriginPatterns []string
}

// codec frames ServerMessages and parses ClientMessages for one connection.
type codec struct {
	kind   websocket.MessageType
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

var jsonCodec = codec{kind: websocket.MessageText, encode: json.Marshal, decode: json.Unmarshal}

var msgpackCodec = codec{
	kind: websocket.MessageBinary,
	encode: func(v any) ([]byte, error) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	},
	decode: func(data []byte, v any) error {
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		return dec.Decode(v)
	},
}

func codecFor(encoding string) codec {
	if encoding == "msgpack" {
		return msgpackCodec
	}
	return jsonCodec
}

func Handler(d Deps) http.HandlerFunc {
	log := d.Log.With(zap.String("component", "ws"))
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var sess *session.Session
		if id := q.Get("session"); id != "" {
			sess = d.Hub.Ensure(id)
		} else {
			sess = d.Hub.Create()
		}
		if sess == nil {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		}
		cd := codecFor(q.Get("encoding"))

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: d.OriginPatterns})
		if err != nil {
			log.Info("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("session", sess.ID()), zap.String("client", clientID))
		log.Info("client connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan session.Update, outboxSize)
		select {
		case sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}:
		case <-sess.Done():
			conn.Close(websocket.StatusTryAgainLater, "session closed")
			return
		}
		defer func() {
			select {
			case sess.Inbox() <- session.Leave{ClientID: clientID}:
			case <-sess.Done():
			}
		}()

		var events chan feed.Event
		if d.Feed != nil {
			events = make(chan feed.Event, outboxSize)
			d.Feed.Subscribe("ws-"+clientID, nil, events)
			defer d.Feed.Unsubscribe("ws-" + clientID)
		}

		send := func(msg types.ServerMessage) error {
			payload, err := cd.encode(msg)
			if err != nil {
				return err
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			defer wcancel()
			return conn.Write(wctx, cd.kind, payload)
		}
		sendError := func(msg string) {
			if err := send(types.ServerMessage{Type: types.MsgError, Error: msg}); err != nil {
				log.Debug("error frame not sent", zap.Error(err))
			}
		}

		// Writer goroutine
		go func() {
			defer cancel()
			for {
				var msg types.ServerMessage
				select {
				case <-ctx.Done():
					return
				case u, ok := <-out:
					if !ok {
						// Dropped by the session or the session closed.
						conn.Close(websocket.StatusTryAgainLater, "session closed")
						return
					}
					msg = toServerMessage(sess.ID(), u)
				case evt, ok := <-events:
					if !ok {
						// Feed dropped us; keep serving snapshots.
						events = nil
						continue
					}
					msg = types.ServerMessage{Type: types.MsgFeedEvent, Event: &evt}
				}
				if err := send(msg); err != nil {
					log.Debug("write failed", zap.Error(err))
					return
				}
			}
		}()

		client := d.Clients.For(sess)

		// Reader loop
		for {
			rctx, rcancel := context.WithTimeout(ctx, readTimeout)
			_, data, err := conn.Read(rctx)
			rcancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Info("client disconnected")
				default:
					log.Debug("read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := cd.decode(data, &cm); err != nil {
				sendError("bad json")
				continue
			}
			if err := handle(ctx, client, cm); err != nil {
				sendError(err.Error())
			}
		}
	}
}

func toServerMessage(sessionID string, u session.Update) types.ServerMessage {
	if u.Toast != nil {
		return types.ServerMessage{Type: types.MsgToast, Toast: u.Toast}
	}
	visible := store.VisibleState(u.Snapshot.State, time.Now())
	return types.ServerMessage{
		Type:    types.MsgStateSnapshot,
		Session: sessionID,
		Version: u.Snapshot.Version,
		State:   &u.Snapshot.State,
		Visible: &visible,
	}
}

// handle routes one intent. Calls against the mock API run in the
// background and report through toasts and snapshots; filter changes apply
// synchronously so a bad filter can be rejected with an Error frame.
func handle(ctx context.Context, c *hooks.Client, m types.ClientMessage) error {
	switch m.Type {
	case types.MsgConnectWallet:
		go c.ConnectWallet(ctx, m.Username)
	case types.MsgDisconnectWallet:
		go c.DisconnectWallet(ctx)
	case types.MsgJoinClan:
		go c.JoinClan(ctx, m.ClanID)
	case types.MsgSelectClan:
		if m.ClanID == "" {
			return c.Session().Dispatch(ctx, store.SelectClan{})
		}
		go func() {
			if _, err := c.Clan(ctx, m.ClanID); err == nil {
				_, _ = c.ClanNFTs(ctx, m.ClanID)
			}
		}()
	case types.MsgMintNFT:
		qty := m.Quantity
		if qty == 0 {
			qty = 1
		}
		go c.MintNFT(ctx, m.ClanID, qty)
	case types.MsgStakeNFT:
		go c.StakeNFT(ctx, m.NFTID)
	case types.MsgUnstakeNFT:
		go c.UnstakeNFT(ctx, m.NFTID)
	case types.MsgRefresh:
		go c.Refresh(ctx)
	case types.MsgLoadMoreActivity:
		go c.MoreActivity(ctx, m.Page)
	case types.MsgClearFeed:
		return c.ClearFeed(ctx)
	case types.MsgLoadArena:
		go c.LoadArena(ctx)
	case types.MsgLoadBattles:
		go c.Battles(ctx, m.Week)
	case types.MsgLoadListings:
		if m.ClanID == "" {
			return errors.New("missing clanId")
		}
		go c.Listings(ctx, m.ClanID)
	case types.MsgClaimTreasure:
		go c.ClaimTreasure(ctx, m.TreasureID)
	case types.MsgPlaceBid:
		go c.PlaceBid(ctx, m.ListingID, m.Amount)
	case types.MsgUpgradeNFT:
		go c.UpgradeNFT(ctx, m.NFTID)
	case types.MsgBuyStarterCard:
		go c.BuyStarterCard(ctx)
	case types.MsgSetClanFilters:
		if m.ClanFilters == nil {
			return errors.New("missing clanFilters")
		}
		return c.Session().Dispatch(ctx, store.SetClanFilters{Patch: *m.ClanFilters})
	case types.MsgSetNFTFilters:
		if m.NFTFilters == nil {
			return errors.New("missing nftFilters")
		}
		return c.Session().Dispatch(ctx, store.SetNFTFilters{Patch: *m.NFTFilters})
	case types.MsgSetFeedFilters:
		if m.FeedFilters == nil {
			return errors.New("missing feedFilters")
		}
		return c.Session().Dispatch(ctx, store.SetFeedFilters{Patch: *m.FeedFilters})
	default:
		return errUnknownType
	}
	return nil
}
