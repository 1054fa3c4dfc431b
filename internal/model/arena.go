package model

import (
	"errors"
	"fmt"
)

var ErrUnknownBattleStatus = errors.New("unknown battle status")

type BattleStatus string

const (
	BattleUpcoming  BattleStatus = "upcoming"
	BattleLive      BattleStatus = "live"
	BattleCompleted BattleStatus = "completed"
)

var BattleStatuses = []BattleStatus{BattleUpcoming, BattleLive, BattleCompleted}

func ParseBattleStatus(s string) (BattleStatus, error) {
	for _, b := range BattleStatuses {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBattleStatus, s)
}

// Battle is one scheduled clan-versus-clan contest of the weekly arena.
type Battle struct {
	ID         int          `json:"id"`
	Clan1ID    string       `json:"clan1Id"`
	Clan2ID    string       `json:"clan2Id"`
	Status     BattleStatus `json:"status"`
	Week       int          `json:"week"`
	PrizePool  int          `json:"prizePool"`
	Clan1Score int          `json:"clan1Score"`
	Clan2Score int          `json:"clan2Score"`
}

type Treasure struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Rarity  Rarity `json:"rarity"`
	Claimed bool   `json:"claimed"`
}

// Listing is an NFT up for auction. Bids are in APT.
type Listing struct {
	ID         string  `json:"id"`
	NFTID      string  `json:"nftId"`
	ClanID     string  `json:"clanId"`
	Name       string  `json:"name"`
	Rarity     Rarity  `json:"rarity"`
	CurrentBid float64 `json:"currentBid"`
	MinBid     float64 `json:"minBid"`
	BidCount   int     `json:"bidCount"`
	TimeLeft   int     `json:"timeLeft"` // seconds
	Seller     string  `json:"seller"`
	HighBidder string  `json:"highBidder,omitempty"`
	Level      int     `json:"level"`
	Power      int     `json:"power"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
}

// ArenaStats are the headline counters of the arena lobby.
type ArenaStats struct {
	TotalClans    int `json:"totalClans"`
	ActiveBattles int `json:"activeBattles"`
	WeeklyPrize   int `json:"weeklyPrize"`
	Warriors      int `json:"warriors"`
}
