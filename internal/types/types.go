package types

import (
	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
)

// Client intents.
const (
	MsgConnectWallet    = "ConnectWallet"
	MsgDisconnectWallet = "DisconnectWallet"
	MsgJoinClan         = "JoinClan"
	MsgSelectClan       = "SelectClan"
	MsgMintNFT          = "MintNFT"
	MsgStakeNFT         = "StakeNFT"
	MsgUnstakeNFT       = "UnstakeNFT"
	MsgRefresh          = "Refresh"
	MsgLoadMoreActivity = "LoadMoreActivity"
	MsgClearFeed        = "ClearFeed"
	MsgSetClanFilters   = "SetClanFilters"
	MsgSetNFTFilters    = "SetNFTFilters"
	MsgSetFeedFilters   = "SetFeedFilters"

	MsgLoadArena      = "LoadArena"
	MsgLoadBattles    = "LoadBattles"
	MsgLoadListings   = "LoadListings"
	MsgClaimTreasure  = "ClaimTreasure"
	MsgPlaceBid       = "PlaceBid"
	MsgUpgradeNFT     = "UpgradeNFT"
	MsgBuyStarterCard = "BuyStarterCard"
)

// Server frames.
const (
	MsgStateSnapshot = "StateSnapshot"
	MsgToast         = "Toast"
	MsgFeedEvent     = "FeedEvent"
	MsgError         = "Error"
)

type ClientMessage struct {
	Type        string                 `json:"type"`
	Username    string                 `json:"username,omitempty"`
	ClanID      string                 `json:"clanId,omitempty"`
	NFTID       string                 `json:"nftId,omitempty"`
	Quantity    int                    `json:"quantity,omitempty"`
	Page        int                    `json:"page,omitempty"`
	Week        int                    `json:"week,omitempty"`
	TreasureID  int                    `json:"treasureId,omitempty"`
	ListingID   string                 `json:"listingId,omitempty"`
	Amount      float64                `json:"amount,omitempty"`
	ClanFilters *store.ClanFilterPatch `json:"clanFilters,omitempty"`
	NFTFilters  *store.NFTFilterPatch  `json:"nftFilters,omitempty"`
	FeedFilters *store.FeedFilterPatch `json:"feedFilters,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"` // "StateSnapshot" | "Toast" | "FeedEvent" | "Error"
	Session string         `json:"session,omitempty"`
	Version int            `json:"version,omitempty"`
	State   *store.State   `json:"state,omitempty"`
	Visible *store.Visible `json:"visible,omitempty"`
	Toast   *session.Toast `json:"toast,omitempty"`
	Event   *feed.Event    `json:"event,omitempty"`
	Error   string         `json:"error,omitempty"`
}
