package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/hooks"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hub"
	"github.com/DoyleJ11/clan-vaults-backend/internal/journal"
	"github.com/DoyleJ11/clan-vaults-backend/internal/leaderboard"
	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/repository"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, opts ...hub.Option) (*httptest.Server, *hub.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	repo := repository.NewRepository(repository.Dataset{
		Clans:     []model.Clan{{ID: "neon-wolves", Name: "Neon Wolves", Members: 3, MintPrice: 0.2}},
		User:      model.UserProfile{ID: "user-1", Username: "tester"},
		Activity:  []model.ActivityEvent{model.NewTrade("whale", "neon-wolves", "neon-wolves-nft-1", 1, time.Now())},
		Battles:   []model.Battle{{ID: 1, Clan1ID: "neon-wolves", Clan2ID: "neon-wolves", Status: model.BattleLive, Week: 1, PrizePool: 5000}},
		Treasures: seed.Treasures(),
		Listings: []model.Listing{
			{ID: "listing-neon-wolves-nft-1", NFTID: "neon-wolves-nft-1", ClanID: "neon-wolves", Name: "Neon Wolves #1", CurrentBid: 1},
		},
	})
	api := mockapi.New(repo, seed.New(3), leaderboard.NewTracker(), zap.NewNop(), mockapi.WithLatency(mockapi.NoLatency))
	h := hub.NewHub(ctx, journal.Discard, zap.NewNop(), opts...)

	srv := httptest.NewServer(Handler(Deps{Hub: h, Clients: hooks.NewRegistry(api, zap.NewNop()), Log: zap.NewNop()}))
	t.Cleanup(srv.Close)
	return srv, h
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// readUntil reads frames until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "waiting for %s", typ)
		var msg types.ServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

// readSnapshot reads until a snapshot satisfying ok arrives.
func readSnapshot(t *testing.T, conn *websocket.Conn, ok func(types.ServerMessage) bool) types.ServerMessage {
	t.Helper()
	for {
		msg := readUntil(t, conn, types.MsgStateSnapshot)
		if ok(msg) {
			return msg
		}
	}
}

func write(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(payload)))
}

func TestHandler_SnapshotOnJoin(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")

	msg := readUntil(t, conn, types.MsgStateSnapshot)
	assert.NotEmpty(t, msg.Session)
	require.NotNil(t, msg.State)
	assert.Empty(t, msg.State.Clans.Clans)

	// A second client joins the same session by id.
	other := dial(t, srv, "?session="+msg.Session)
	again := readUntil(t, other, types.MsgStateSnapshot)
	assert.Equal(t, msg.Session, again.Session)
}

func TestHandler_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, types.MsgStateSnapshot)

	write(t, conn, `{not json`)
	assert.Equal(t, "bad json", readUntil(t, conn, types.MsgError).Error)

	write(t, conn, `{"type":"DoABarrelRoll"}`)
	assert.Equal(t, "unknown type", readUntil(t, conn, types.MsgError).Error)

	write(t, conn, `{"type":"SetNFTFilters","nftFilters":{"staked":"sometimes"}}`)
	assert.Contains(t, readUntil(t, conn, types.MsgError).Error, "invalid filter")
}

func TestHandler_FilterIntentUpdatesState(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	first := readUntil(t, conn, types.MsgStateSnapshot)

	write(t, conn, `{"type":"SetClanFilters","clanFilters":{"search":"wolves"}}`)
	msg := readUntil(t, conn, types.MsgStateSnapshot)
	assert.Equal(t, first.Version+1, msg.Version)
	assert.Equal(t, "wolves", msg.State.Clans.Filters.Search)
}

func TestHandler_MintRaisesToast(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, types.MsgStateSnapshot)

	write(t, conn, `{"type":"MintNFT","clanId":"neon-wolves","quantity":2}`)
	msg := readUntil(t, conn, types.MsgToast)
	require.NotNil(t, msg.Toast)
	assert.Equal(t, "Successfully minted 2 NFT(s) for 0.40 ETH!", msg.Toast.Message)

	write(t, conn, `{"type":"MintNFT","clanId":"ghost"}`)
	msg = readUntil(t, conn, types.MsgToast)
	assert.Equal(t, "Clan not found", msg.Toast.Message)
}

func TestHandler_Msgpack(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "?encoding=msgpack")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	kind, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageBinary, kind)

	var msg types.ServerMessage
	require.NoError(t, msgpackCodec.decode(data, &msg))
	assert.Equal(t, types.MsgStateSnapshot, msg.Type)
	assert.NotEmpty(t, msg.Session)

	payload, err := msgpackCodec.encode(types.ClientMessage{Type: "Nope"})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageBinary, payload))
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, msgpackCodec.decode(data, &msg))
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "unknown type", msg.Error)
}

func TestHandler_FiltersShapeVisibleLists(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	first := readUntil(t, conn, types.MsgStateSnapshot)
	require.NotNil(t, first.Visible)
	assert.Empty(t, first.Visible.Clans)

	write(t, conn, `{"type":"Refresh"}`)
	loaded := readSnapshot(t, conn, func(m types.ServerMessage) bool { return len(m.State.Clans.Clans) == 1 })
	require.NotNil(t, loaded.Visible)
	require.Len(t, loaded.Visible.Clans, 1)
	assert.Equal(t, "neon-wolves", loaded.Visible.Clans[0].ID)

	write(t, conn, `{"type":"SetClanFilters","clanFilters":{"search":"dragons"}}`)
	filtered := readSnapshot(t, conn, func(m types.ServerMessage) bool { return m.State.Clans.Filters.Search == "dragons" })
	assert.Len(t, filtered.State.Clans.Clans, 1)
	assert.Empty(t, filtered.Visible.Clans)
}

func TestHandler_ClosedConnectionsFreeTheirSession(t *testing.T) {
	srv, h := newTestServer(t, hub.IdleTimeout(20*time.Millisecond))

	for range 5 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
		conn, _, err := websocket.Dial(ctx, url, nil)
		require.NoError(t, err)
		_, _, err = conn.Read(ctx)
		require.NoError(t, err)
		conn.Close(websocket.StatusNormalClosure, "")
		cancel()
	}

	require.Eventually(t, func() bool { return len(h.List()) == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestHandler_WalletAndFeedIntents(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, types.MsgStateSnapshot)

	write(t, conn, `{"type":"Refresh"}`)
	readSnapshot(t, conn, func(m types.ServerMessage) bool {
		return m.State.User.User != nil && len(m.State.LiveFeed.Events) == 1
	})

	write(t, conn, `{"type":"LoadMoreActivity","page":2}`)
	write(t, conn, `{"type":"ClearFeed"}`)
	msg := readSnapshot(t, conn, func(m types.ServerMessage) bool { return len(m.State.LiveFeed.Events) == 0 })
	assert.Empty(t, msg.Visible.Events)

	// State frames precede the toast that reports them.
	write(t, conn, `{"type":"DisconnectWallet"}`)
	msg = readSnapshot(t, conn, func(m types.ServerMessage) bool { return m.State.User.User == nil })
	assert.False(t, msg.State.User.Connected)
	assert.Equal(t, "Wallet disconnected", readUntil(t, conn, types.MsgToast).Toast.Message)
}

func TestHandler_ArenaIntents(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, types.MsgStateSnapshot)

	write(t, conn, `{"type":"LoadArena"}`)
	msg := readSnapshot(t, conn, func(m types.ServerMessage) bool {
		return len(m.State.Arena.Treasures) == 4 && len(m.State.Arena.Battles) == 1 && m.State.Arena.Stats.TotalClans == 1
	})
	assert.Equal(t, 1, msg.State.Arena.Week)

	write(t, conn, `{"type":"ClaimTreasure","treasureId":1}`)
	readSnapshot(t, conn, func(m types.ServerMessage) bool { return m.State.Arena.Treasures[0].Claimed })
	assert.Equal(t, "Claimed Weekly Champion Chest worth 50000 APT!", readUntil(t, conn, types.MsgToast).Toast.Message)

	write(t, conn, `{"type":"LoadListings"}`)
	assert.Equal(t, "missing clanId", readUntil(t, conn, types.MsgError).Error)
	write(t, conn, `{"type":"LoadListings","clanId":"neon-wolves"}`)
	readSnapshot(t, conn, func(m types.ServerMessage) bool { return len(m.State.Arena.Listings) == 1 })

	write(t, conn, `{"type":"PlaceBid","listingId":"listing-neon-wolves-nft-1","amount":1}`)
	assert.Equal(t, "Bid must be higher than current bid", readUntil(t, conn, types.MsgToast).Toast.Message)
	write(t, conn, `{"type":"PlaceBid","listingId":"listing-neon-wolves-nft-1","amount":3.5}`)
	readSnapshot(t, conn, func(m types.ServerMessage) bool {
		return len(m.State.Arena.Listings) == 1 && m.State.Arena.Listings[0].CurrentBid == 3.5
	})
	assert.Equal(t, "Bid of 3.50 APT placed on Neon Wolves #1!", readUntil(t, conn, types.MsgToast).Toast.Message)

	write(t, conn, `{"type":"JoinClan","clanId":"neon-wolves"}`)
	assert.Equal(t, "Starter card required (10 APT)", readUntil(t, conn, types.MsgToast).Toast.Message)
	write(t, conn, `{"type":"BuyStarterCard"}`)
	assert.Equal(t, "Starter card purchased for 10 APT!", readUntil(t, conn, types.MsgToast).Toast.Message)
	write(t, conn, `{"type":"JoinClan","clanId":"neon-wolves"}`)
	assert.Equal(t, "Successfully joined clan!", readUntil(t, conn, types.MsgToast).Toast.Message)

	write(t, conn, `{"type":"UpgradeNFT","nftId":"ghost"}`)
	assert.Equal(t, "NFT not found", readUntil(t, conn, types.MsgToast).Toast.Message)
}
