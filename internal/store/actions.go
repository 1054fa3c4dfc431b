package store

import "github.com/DoyleJ11/clan-vaults-backend/internal/model"

// Action is a sealed set of state changes. Target names the store it
// changes and Kind the action, for the log.
type Action interface {
	Target() Name
	Kind() string
	isAction()
}

type userAction struct{}

func (userAction) Target() Name { return StoreUser }
func (userAction) isAction()    {}

type clansAction struct{}

func (clansAction) Target() Name { return StoreClans }
func (clansAction) isAction()    {}

type nftsAction struct{}

func (nftsAction) Target() Name { return StoreNFTs }
func (nftsAction) isAction()    {}

type feedAction struct{}

func (feedAction) Target() Name { return StoreLiveFeed }
func (feedAction) isAction()    {}

type arenaAction struct{}

func (arenaAction) Target() Name { return StoreArena }
func (arenaAction) isAction()    {}

// User

type SetUser struct {
	userAction
	User model.UserProfile
}

type UpdateUser struct {
	userAction
	Patch model.UserPatch
}

// AdjustUserStats adds deltas to the counters; NFTsStaked never goes below 0.
type AdjustUserStats struct {
	userAction
	XP         int
	NFTsOwned  int
	NFTsStaked int
}

type ClearUser struct{ userAction }

func (SetUser) Kind() string         { return "setUser" }
func (UpdateUser) Kind() string      { return "updateUser" }
func (AdjustUserStats) Kind() string { return "adjustUserStats" }
func (ClearUser) Kind() string       { return "clearUser" }

// Clans

type SetClans struct {
	clansAction
	Clans []model.Clan
}

type UpdateClan struct {
	clansAction
	ID    string
	Patch model.ClanPatch
}

// SelectClan sets the selected clan; nil clears it.
type SelectClan struct {
	clansAction
	Clan *model.Clan
}

type SetLeaderboard struct {
	clansAction
	Entries []model.LeaderboardEntry
}

// ClanFilterPatch merges into ClanFilters; nil fields are left unchanged.
type ClanFilterPatch struct {
	Search    *string          `json:"search,omitempty"`
	Momentum  []model.Momentum `json:"momentum,omitempty"`
	SortBy    *ClanSort        `json:"sortBy,omitempty"`
	SortOrder *SortOrder       `json:"sortOrder,omitempty"`
}

type SetClanFilters struct {
	clansAction
	Patch ClanFilterPatch
}

// JoinClan bumps the member count of the joined clan locally.
type JoinClan struct {
	clansAction
	ClanID string
}

type AdjustClanMembers struct {
	clansAction
	ClanID string
	Delta  int
}

func (SetClans) Kind() string          { return "setClans" }
func (UpdateClan) Kind() string        { return "updateClan" }
func (SelectClan) Kind() string        { return "setSelectedClan" }
func (SetLeaderboard) Kind() string    { return "setLeaderboard" }
func (SetClanFilters) Kind() string    { return "setFilters" }
func (JoinClan) Kind() string          { return "joinClan" }
func (AdjustClanMembers) Kind() string { return "adjustClanMembers" }

// NFTs

type SetUserNFTs struct {
	nftsAction
	NFTs []model.NFT
}

type SetClanNFTs struct {
	nftsAction
	ClanID string
	NFTs   []model.NFT
}

type AddUserNFTs struct {
	nftsAction
	NFTs []model.NFT
}

type UpdateNFT struct {
	nftsAction
	ID    string
	Patch model.NFTPatch
}

type StakeNFT struct {
	nftsAction
	ID string
}

type UnstakeNFT struct {
	nftsAction
	ID string
}

// ReplaceNFT swaps in a server copy of the NFT wherever it is listed.
type ReplaceNFT struct {
	nftsAction
	NFT model.NFT
}

type NFTFilterPatch struct {
	Rarity    []model.Rarity `json:"rarity,omitempty"`
	Staked    *StakedFilter  `json:"staked,omitempty"`
	Clan      *string        `json:"clan,omitempty"`
	SortBy    *NFTSort       `json:"sortBy,omitempty"`
	SortOrder *SortOrder     `json:"sortOrder,omitempty"`
}

type SetNFTFilters struct {
	nftsAction
	Patch NFTFilterPatch
}

func (SetUserNFTs) Kind() string   { return "setUserNFTs" }
func (SetClanNFTs) Kind() string   { return "setClanNFTs" }
func (AddUserNFTs) Kind() string   { return "addUserNFTs" }
func (UpdateNFT) Kind() string     { return "updateNFT" }
func (StakeNFT) Kind() string      { return "stakeNFT" }
func (UnstakeNFT) Kind() string    { return "unstakeNFT" }
func (ReplaceNFT) Kind() string    { return "replaceNFT" }
func (SetNFTFilters) Kind() string { return "setFilters" }

// Live feed

type AddEvent struct {
	feedAction
	Event model.ActivityEvent
}

type AddEvents struct {
	feedAction
	Events []model.ActivityEvent
}

type SetEvents struct {
	feedAction
	Events []model.ActivityEvent
}

type SetFeedConnected struct {
	feedAction
	Connected bool
}

type FeedFilterPatch struct {
	EventTypes []model.EventType `json:"eventTypes,omitempty"`
	Clans      []string          `json:"clans,omitempty"`
	TimeRange  *TimeRange        `json:"timeRange,omitempty"`
}

type SetFeedFilters struct {
	feedAction
	Patch FeedFilterPatch
}

type ClearEvents struct{ feedAction }

func (AddEvent) Kind() string         { return "addEvent" }
func (AddEvents) Kind() string        { return "addEvents" }
func (SetEvents) Kind() string        { return "setEvents" }
func (SetFeedConnected) Kind() string { return "setConnected" }
func (SetFeedFilters) Kind() string   { return "setFilters" }
func (ClearEvents) Kind() string      { return "clearEvents" }

// Arena

type SetArenaStats struct {
	arenaAction
	Stats model.ArenaStats
}

type SetBattles struct {
	arenaAction
	Week    int
	Battles []model.Battle
}

type SetTreasures struct {
	arenaAction
	Treasures []model.Treasure
}

type ClaimTreasure struct {
	arenaAction
	ID int
}

type SetListings struct {
	arenaAction
	Listings []model.Listing
}

// UpdateListing replaces the listing with the same ID, if it is shown.
type UpdateListing struct {
	arenaAction
	Listing model.Listing
}

func (SetArenaStats) Kind() string { return "setArenaStats" }
func (SetBattles) Kind() string    { return "setBattles" }
func (SetTreasures) Kind() string  { return "setTreasures" }
func (ClaimTreasure) Kind() string { return "claimTreasure" }
func (SetListings) Kind() string   { return "setListings" }
func (UpdateListing) Kind() string { return "updateListing" }

// Generic actions addressed to any store by name.

type SetLoading struct {
	Store   Name
	Loading bool
}

type SetError struct {
	Store Name
	Error string
}

type Reset struct{ Store Name }

func (a SetLoading) Target() Name { return a.Store }
func (a SetError) Target() Name   { return a.Store }
func (a Reset) Target() Name      { return a.Store }
func (SetLoading) Kind() string   { return "setLoading" }
func (SetError) Kind() string     { return "setError" }
func (Reset) Kind() string        { return "reset" }
func (SetLoading) isAction()      {}
func (SetError) isAction()        {}
func (Reset) isAction()           {}
