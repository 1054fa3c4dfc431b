package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownMomentum = errors.New("unknown momentum")
var ErrUnknownRarity = errors.New("unknown rarity")
var ErrUnknownEventType = errors.New("unknown event type")

type Momentum string

const (
	MomentumHot    Momentum = "hot"
	MomentumNew    Momentum = "new"
	MomentumValue  Momentum = "value"
	MomentumSteady Momentum = "steady"
)

var Momentums = []Momentum{MomentumHot, MomentumNew, MomentumValue, MomentumSteady}

func ParseMomentum(s string) (Momentum, error) {
	for _, m := range Momentums {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMomentum, s)
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities is ordered from most to least common.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func ParseRarity(s string) (Rarity, error) {
	for _, r := range Rarities {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRarity, s)
}

// Rank orders rarities for sorting; common is 0.
func (r Rarity) Rank() int {
	for i, x := range Rarities {
		if x == r {
			return i
		}
	}
	return -1
}

type Clan struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	Emoji          string   `json:"emoji"`
	BannerURL      string   `json:"bannerUrl,omitempty"`
	Members        int      `json:"members"`
	MemberCount    int      `json:"memberCount"`
	TotalPower     int      `json:"totalPower"`
	TotalTrades24h int      `json:"totalTrades24h"`
	FloorPrice     float64  `json:"floorPrice"`
	Momentum       Momentum `json:"momentum"`
	Description    string   `json:"description,omitempty"`
	Founded        string   `json:"founded,omitempty"`
	TotalSupply    int      `json:"totalSupply,omitempty"`
	MintPrice      float64  `json:"mintPrice,omitempty"`
	PoolValue      float64  `json:"poolValue,omitempty"`
}

// FoundedAt parses Founded; the zero time is returned when it is unset or malformed.
func (c Clan) FoundedAt() time.Time {
	t, err := time.Parse(time.DateOnly, c.Founded)
	if err != nil {
		return time.Time{}
	}
	return t
}

type UserProfile struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	ClanID         string   `json:"clanId,omitempty"`
	XP             int      `json:"xp"`
	Streak         int      `json:"streak"`
	NFTsOwned      int      `json:"nftsOwned"`
	NFTsStaked     int      `json:"nftsStaked"`
	Avatar         string   `json:"avatar,omitempty"`
	JoinedAt       string   `json:"joinedAt,omitempty"`
	Achievements   []string `json:"achievements,omitempty"`
	HasStarterCard bool     `json:"hasStarterCard"`
}

type NFT struct {
	ID          string  `json:"id"`
	ClanID      string  `json:"clanId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Rarity      Rarity  `json:"rarity"`
	Staked      bool    `json:"staked"`
	Name        string  `json:"name,omitempty"`
	MintedAt    string  `json:"mintedAt,omitempty"`
	TokenID     int64   `json:"tokenId,omitempty"`
	Level       int     `json:"level,omitempty"`
	Power       int     `json:"power,omitempty"`
	Experience  int     `json:"experience,omitempty"`
	UpgradeCost int     `json:"upgradeCost,omitempty"`
	PoolShare   float64 `json:"poolShare,omitempty"`
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	ClanID   string `json:"clanId"`
	ClanName string `json:"clanName"`
	Metric   int    `json:"metric"`
	Change   int    `json:"change"`
	Trend    Trend  `json:"trend"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// MaxPageLimit caps the page size a caller can ask for.
const MaxPageLimit = 100

// Paginate slices items for a 1-based page. Out-of-range pages yield an empty slice.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	limit = min(limit, MaxPageLimit)

	// Compare page counts before multiplying so huge pages cannot overflow.
	start, end := len(items), len(items)
	if pages := (len(items) + limit - 1) / limit; page <= pages {
		start = (page - 1) * limit
		end = min(start+limit, len(items))
	}
	data := append([]T{}, items[start:end]...)
	return Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   len(items),
			HasNext: end < len(items),
			HasPrev: page > 1,
		},
	}
}
