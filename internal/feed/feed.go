// Package feed is the push-event channel players subscribe to. Source is the
// transport-neutral contract; Simulator is a timer-driven implementation that
// fabricates marketplace activity.
package feed

import (
	"errors"
	"slices"
	"time"
)

var ErrClosed = errors.New("feed closed")
var ErrDisconnected = errors.New("feed disconnected before connect completed")

type EventType string

const (
	EventConnection EventType = "connection"
	EventActivity   EventType = "activity"
	EventClanUpdate EventType = "clan_update"
	EventUserUpdate EventType = "user_update"
)

var EventTypes = []EventType{EventConnection, EventActivity, EventClanUpdate, EventUserUpdate}

// Event is one pushed message. Data holds a model.ActivityEvent, ClanUpdate,
// UserUpdate or ConnectionStatus depending on Type. Timestamp is unix ms.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp int64     `json:"timestamp"`
}

func NewEvent(t EventType, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UnixMilli()}
}

type ConnectionStatus struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type ClanUpdate struct {
	ClanID    string `json:"clanId"`
	Field     string `json:"field"`
	Change    int    `json:"change"`
	Timestamp int64  `json:"timestamp"`
}

type UserUpdate struct {
	UserID    string `json:"userId"`
	Field     string `json:"field"`
	Change    int    `json:"change"`
	Timestamp int64  `json:"timestamp"`
}

// Source delivers events to subscriber outboxes. An outbox is closed by the
// source when the subscriber is dropped, disconnected or the source closes.
type Source interface {
	// Subscribe registers out under id for the given types; no types means all.
	Subscribe(id string, types []EventType, out chan Event)
	Unsubscribe(id string)
	IsConnected() bool
	Close()
}

type Publisher interface {
	Publish(Event)
}

type subscriber struct {
	types []EventType
	out   chan Event
}

func (s subscriber) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}
