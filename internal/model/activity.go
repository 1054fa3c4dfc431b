package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidEvent = errors.New("invalid activity event")

type EventType string

const (
	EventMint         EventType = "MINT"
	EventTrade        EventType = "TRADE"
	EventStake        EventType = "STAKE"
	EventUnstake      EventType = "UNSTAKE"
	EventClanMomentum EventType = "CLAN_MOMENTUM"
)

var EventTypes = []EventType{EventMint, EventTrade, EventStake, EventUnstake, EventClanMomentum}

func ParseEventType(s string) (EventType, error) {
	for _, t := range EventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}

// ActivityEvent is a tagged union keyed by Type. Only the fields of the
// active variant are set; At is unix milliseconds.
type ActivityEvent struct {
	Type   EventType `json:"type"`
	User   string    `json:"user,omitempty"`
	ClanID string    `json:"clanId"`
	Qty    int       `json:"qty,omitempty"`
	NFTIDs []string  `json:"nftIds,omitempty"`
	NFTID  string    `json:"nftId,omitempty"`
	Price  float64   `json:"price,omitempty"`
	Delta  float64   `json:"delta,omitempty"`
	Reason string    `json:"reason,omitempty"`
	At     int64     `json:"at"`
}

func NewMint(user, clanID string, qty int, nftIDs []string, at time.Time) ActivityEvent {
	return ActivityEvent{Type: EventMint, User: user, ClanID: clanID, Qty: qty, NFTIDs: nftIDs, At: at.UnixMilli()}
}

func NewTrade(user, clanID, nftID string, price float64, at time.Time) ActivityEvent {
	return ActivityEvent{Type: EventTrade, User: user, ClanID: clanID, NFTID: nftID, Price: price, At: at.UnixMilli()}
}

func NewStake(user, clanID, nftID string, at time.Time) ActivityEvent {
	return ActivityEvent{Type: EventStake, User: user, ClanID: clanID, NFTID: nftID, At: at.UnixMilli()}
}

func NewUnstake(user, clanID, nftID string, at time.Time) ActivityEvent {
	return ActivityEvent{Type: EventUnstake, User: user, ClanID: clanID, NFTID: nftID, At: at.UnixMilli()}
}

func NewClanMomentum(clanID string, delta float64, reason string, at time.Time) ActivityEvent {
	return ActivityEvent{Type: EventClanMomentum, ClanID: clanID, Delta: delta, Reason: reason, At: at.UnixMilli()}
}

func (e ActivityEvent) Time() time.Time { return time.UnixMilli(e.At) }

// Validate checks that the fields required by the event's variant are present.
func (e ActivityEvent) Validate() error {
	if e.ClanID == "" {
		return fmt.Errorf("%w: missing clanId", ErrInvalidEvent)
	}
	switch e.Type {
	case EventMint:
		if e.User == "" || e.Qty < 1 {
			return fmt.Errorf("%w: mint needs user and qty", ErrInvalidEvent)
		}
	case EventTrade, EventStake, EventUnstake:
		if e.User == "" || e.NFTID == "" {
			return fmt.Errorf("%w: %s needs user and nftId", ErrInvalidEvent, e.Type)
		}
	case EventClanMomentum:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidEvent, e.Type)
	}
	return nil
}
