// Package store holds the client-side state containers and the pure reducer
// that applies actions to them.
package store

import "github.com/DoyleJ11/clan-vaults-backend/internal/model"

// MaxEvents caps the live feed; older events fall off the end.
const MaxEvents = 500

// Name identifies one of the stores.
type Name string

const (
	StoreUser     Name = "user"
	StoreClans    Name = "clans"
	StoreNFTs     Name = "nfts"
	StoreLiveFeed Name = "liveFeed"
	StoreArena    Name = "arena"
)

var Names = []Name{StoreUser, StoreClans, StoreNFTs, StoreLiveFeed, StoreArena}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type ClanSort string

const (
	ClanSortMembers ClanSort = "members"
	ClanSortTrades  ClanSort = "trades"
	ClanSortFloor   ClanSort = "floor"
	ClanSortName    ClanSort = "name"
)

type NFTSort string

const (
	NFTSortRarity NFTSort = "rarity"
	NFTSortName   NFTSort = "name"
	NFTSortMinted NFTSort = "minted"
	NFTSortStaked NFTSort = "staked"
)

// StakedFilter narrows NFTs by stake status; the empty value matches all.
type StakedFilter string

const (
	StakedAny  StakedFilter = ""
	StakedOnly StakedFilter = "staked"
	StakedNone StakedFilter = "unstaked"
)

type TimeRange string

const (
	Range1h  TimeRange = "1h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
	RangeAll TimeRange = "all"
)

type UserState struct {
	User      *model.UserProfile `json:"user"`
	Loading   bool               `json:"isLoading"`
	Error     string             `json:"error,omitempty"`
	Connected bool               `json:"isConnected"`
}

type ClanFilters struct {
	Search    string           `json:"search"`
	Momentum  []model.Momentum `json:"momentum"`
	SortBy    ClanSort         `json:"sortBy"`
	SortOrder SortOrder        `json:"sortOrder"`
}

type ClansState struct {
	Clans       []model.Clan             `json:"clans"`
	Selected    *model.Clan              `json:"selectedClan"`
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	Loading     bool                     `json:"isLoading"`
	Error       string                   `json:"error,omitempty"`
	Filters     ClanFilters              `json:"filters"`
}

type NFTFilters struct {
	Rarity    []model.Rarity `json:"rarity"`
	Staked    StakedFilter   `json:"staked"`
	Clan      string         `json:"clan"`
	SortBy    NFTSort        `json:"sortBy"`
	SortOrder SortOrder      `json:"sortOrder"`
}

type NFTsState struct {
	UserNFTs []model.NFT            `json:"userNFTs"`
	ClanNFTs map[string][]model.NFT `json:"clanNFTs"`
	Loading  bool                   `json:"isLoading"`
	Error    string                 `json:"error,omitempty"`
	Filters  NFTFilters             `json:"filters"`
}

type FeedFilters struct {
	EventTypes []model.EventType `json:"eventTypes"`
	Clans      []string          `json:"clans"`
	TimeRange  TimeRange         `json:"timeRange"`
}

type LiveFeedState struct {
	Events    []model.ActivityEvent `json:"events"`
	Connected bool                  `json:"isConnected"`
	Loading   bool                  `json:"isLoading"`
	Error     string                `json:"error,omitempty"`
	Filters   FeedFilters           `json:"filters"`
}

// ArenaState mirrors the weekly battle arena. Listings belong to the clan
// last asked for.
type ArenaState struct {
	Stats     model.ArenaStats `json:"stats"`
	Week      int              `json:"week"`
	Battles   []model.Battle   `json:"battles"`
	Treasures []model.Treasure `json:"treasures"`
	Listings  []model.Listing  `json:"listings"`
	Loading   bool             `json:"isLoading"`
	Error     string           `json:"error,omitempty"`
}

type State struct {
	User     UserState     `json:"user"`
	Clans    ClansState    `json:"clans"`
	NFTs     NFTsState     `json:"nfts"`
	LiveFeed LiveFeedState `json:"liveFeed"`
	Arena    ArenaState    `json:"arena"`
}

func InitialUser() UserState { return UserState{} }

func InitialClans() ClansState {
	return ClansState{
		Clans:       []model.Clan{},
		Leaderboard: []model.LeaderboardEntry{},
		Filters: ClanFilters{
			Momentum:  []model.Momentum{},
			SortBy:    ClanSortTrades,
			SortOrder: Desc,
		},
	}
}

func InitialNFTs() NFTsState {
	return NFTsState{
		UserNFTs: []model.NFT{},
		ClanNFTs: map[string][]model.NFT{},
		Filters: NFTFilters{
			Rarity:    []model.Rarity{},
			SortBy:    NFTSortMinted,
			SortOrder: Desc,
		},
	}
}

func InitialLiveFeed() LiveFeedState {
	return LiveFeedState{
		Events: []model.ActivityEvent{},
		Filters: FeedFilters{
			EventTypes: []model.EventType{},
			Clans:      []string{},
			TimeRange:  Range24h,
		},
	}
}

func InitialArena() ArenaState {
	return ArenaState{
		Battles:   []model.Battle{},
		Treasures: []model.Treasure{},
		Listings:  []model.Listing{},
	}
}

func Initial() State {
	return State{
		User:     InitialUser(),
		Clans:    InitialClans(),
		NFTs:     InitialNFTs(),
		LiveFeed: InitialLiveFeed(),
		Arena:    InitialArena(),
	}
}
