package feed

import (
	"context"
	"sync"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"go.uber.org/zap"
)

type Config struct {
	ConnectMin       time.Duration
	ConnectMax       time.Duration
	TickMin          time.Duration
	TickMax          time.Duration
	ClanUpdateChance float64
	UserUpdateChance float64
}

func DefaultConfig() Config {
	return Config{
		ConnectMin:       500 * time.Millisecond,
		ConnectMax:       1500 * time.Millisecond,
		TickMin:          3 * time.Second,
		TickMax:          10 * time.Second,
		ClanUpdateChance: 0.3,
		UserUpdateChance: 0.1,
	}
}

// Fixtures is the dataset the simulator draws clan and user ids from.
type Fixtures interface {
	Clans() []model.Clan
	User() model.UserProfile
}

type msg interface{ isFeedMsg() }

type subscribeMsg struct {
	id  string
	sub subscriber
}

type unsubscribeMsg struct{ id string }

type beginConnectMsg struct{ reply chan uint64 }

type connectMsg struct {
	epoch uint64
	reply chan bool
}

type disconnectMsg struct{ done chan struct{} }

type tickMsg struct{ gen uint64 }

type publishMsg struct{ evt Event }

type statusMsg struct{ reply chan Status }

func (subscribeMsg) isFeedMsg()    {}
func (unsubscribeMsg) isFeedMsg()  {}
func (beginConnectMsg) isFeedMsg() {}
func (connectMsg) isFeedMsg()      {}
func (disconnectMsg) isFeedMsg()   {}
func (tickMsg) isFeedMsg()         {}
func (publishMsg) isFeedMsg()      {}
func (statusMsg) isFeedMsg()       {}

type Status struct {
	Connected   bool
	Subscribers int
}

// Simulator fabricates activity on a jittered timer. All state is owned by
// its loop goroutine.
type Simulator struct {
	inbox chan msg
	cfg   Config
	gen   *seed.Generator
	data  Fixtures
	log   *zap.Logger
	ctx   context.Context
	stop  context.CancelFunc

	// closed is set by the loop on shutdown; senders hold mu for reading so
	// nothing is queued after the final drain.
	mu     sync.RWMutex
	closed bool

	connected bool
	epoch     uint64 // bumped on disconnect to void pending connects
	timerGen  uint64 // bumped whenever the tick timer is re-armed or stopped
	timer     *time.Timer
	subs      map[string]subscriber
}

func NewSimulator(parent context.Context, cfg Config, gen *seed.Generator, data Fixtures, log *zap.Logger) *Simulator {
	ctx, cancel := context.WithCancel(parent)
	s := &Simulator{
		inbox: make(chan msg, 64),
		cfg:   cfg,
		gen:   gen,
		data:  data,
		log:   log.With(zap.String("component", "feed")),
		ctx:   ctx,
		stop:  cancel,
		subs:  make(map[string]subscriber),
	}
	go s.loop()
	return s
}

// Connect waits the simulated handshake delay, then starts emitting. It
// returns ErrDisconnected if Disconnect ran while it was waiting.
func (s *Simulator) Connect(ctx context.Context) error {
	epochReply := make(chan uint64, 1)
	if !s.send(beginConnectMsg{reply: epochReply}) {
		return ErrClosed
	}
	epoch := <-epochReply

	s.log.Info("connecting")
	wait := time.NewTimer(s.gen.Rand().Duration(s.cfg.ConnectMin, s.cfg.ConnectMax))
	defer wait.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	case <-wait.C:
	}

	ok := make(chan bool, 1)
	if !s.send(connectMsg{epoch: epoch, reply: ok}) {
		return ErrClosed
	}
	if !<-ok {
		if s.ctx.Err() != nil {
			return ErrClosed
		}
		return ErrDisconnected
	}
	return nil
}

// Disconnect stops emission and drops every subscriber. It blocks until the
// loop has applied it, so no event is delivered afterwards.
func (s *Simulator) Disconnect() {
	done := make(chan struct{})
	if s.send(disconnectMsg{done: done}) {
		<-done
	}
}

// Subscribe registers out. After Close, out is closed straight away.
func (s *Simulator) Subscribe(id string, types []EventType, out chan Event) {
	if !s.send(subscribeMsg{id: id, sub: subscriber{types: types, out: out}}) {
		close(out)
	}
}

func (s *Simulator) Unsubscribe(id string) {
	s.send(unsubscribeMsg{id: id})
}

// Publish broadcasts evt to subscribers if connected.
func (s *Simulator) Publish(evt Event) {
	s.send(publishMsg{evt: evt})
}

// Trigger emits a manual event of the given type.
func (s *Simulator) Trigger(t EventType, data any) {
	s.log.Info("manual trigger", zap.String("type", string(t)))
	s.Publish(NewEvent(t, data))
}

func (s *Simulator) IsConnected() bool {
	return s.Status().Connected
}

func (s *Simulator) Status() Status {
	reply := make(chan Status, 1)
	if !s.send(statusMsg{reply: reply}) {
		return Status{}
	}
	return <-reply
}

// Close shuts the loop down and closes every outbox.
func (s *Simulator) Close() {
	s.stop()
}

func (s *Simulator) send(m msg) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.inbox <- m:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Simulator) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			if s.ctx.Err() != nil {
				s.shutdown(m)
				return
			}
			switch msg := m.(type) {
			case subscribeMsg:
				if old, ok := s.subs[msg.id]; ok && old.out != msg.sub.out {
					close(old.out)
				}
				s.subs[msg.id] = msg.sub
				s.log.Debug("listener registered", zap.String("id", msg.id))

			case unsubscribeMsg:
				if sub, ok := s.subs[msg.id]; ok {
					close(sub.out)
					delete(s.subs, msg.id)
					s.log.Debug("listener removed", zap.String("id", msg.id))
				}

			case beginConnectMsg:
				msg.reply <- s.epoch

			case connectMsg:
				if msg.epoch != s.epoch {
					msg.reply <- false
					break
				}
				if !s.connected {
					s.connected = true
					s.log.Info("connected")
					now := time.Now().UnixMilli()
					s.emit(Event{Type: EventConnection, Data: ConnectionStatus{Status: "connected", Timestamp: now}, Timestamp: now})
					s.armTick()
				}
				msg.reply <- true

			case disconnectMsg:
				s.disconnect()
				close(msg.done)

			case tickMsg:
				if msg.gen != s.timerGen || !s.connected {
					// stale fire from a timer that was stopped or replaced
					break
				}
				s.simulate()
				s.armTick()

			case publishMsg:
				s.emit(msg.evt)

			case statusMsg:
				msg.reply <- Status{Connected: s.connected, Subscribers: len(s.subs)}
			}
		}
	}
}

func (s *Simulator) armTick() {
	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}
	d := s.gen.Rand().Duration(s.cfg.TickMin, s.cfg.TickMax)
	s.timer = time.AfterFunc(d, func() { s.send(tickMsg{gen: gen}) })
}

// shutdown stops accepting messages, then answers pending and whatever is
// still queued so no caller waits on a reply or an outbox forever.
func (s *Simulator) shutdown(pending ...msg) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	closed := make(map[chan Event]struct{}, len(s.subs))
	for _, sub := range s.subs {
		closed[sub.out] = struct{}{}
	}
	s.disconnect()

	refuse := func(m msg) {
		switch msg := m.(type) {
		case subscribeMsg:
			if _, ok := closed[msg.sub.out]; !ok {
				close(msg.sub.out)
				closed[msg.sub.out] = struct{}{}
			}
		case beginConnectMsg:
			msg.reply <- s.epoch
		case connectMsg:
			msg.reply <- false
		case disconnectMsg:
			close(msg.done)
		case statusMsg:
			msg.reply <- Status{}
		}
	}
	for _, m := range pending {
		refuse(m)
	}
	for {
		select {
		case m := <-s.inbox:
			refuse(m)
		default:
			return
		}
	}
}

func (s *Simulator) disconnect() {
	if s.connected {
		s.log.Info("disconnecting")
	}
	s.connected = false
	s.epoch++
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	for id, sub := range s.subs {
		close(sub.out)
		delete(s.subs, id)
	}
}

func (s *Simulator) simulate() {
	rng := s.gen.Rand()
	clans := s.data.Clans()

	for _, a := range s.gen.FreshActivity(clans, seed.ActivityUsers, rng.IntN(3)+1) {
		s.log.Debug("broadcasting activity", zap.String("type", string(a.Type)), zap.String("clan", a.ClanID))
		s.emit(Event{Type: EventActivity, Data: a, Timestamp: time.Now().UnixMilli()})
	}

	if len(clans) > 0 && rng.Chance(s.cfg.ClanUpdateChance) {
		now := time.Now().UnixMilli()
		clan := seed.Pick(rng, clans)
		s.emit(Event{Type: EventClanUpdate, Timestamp: now, Data: ClanUpdate{
			ClanID:    clan.ID,
			Field:     "members",
			Change:    rng.IntN(10) - 5,
			Timestamp: now,
		}})
		s.log.Debug("broadcasting clan update", zap.String("clan", clan.ID))
	}

	if rng.Chance(s.cfg.UserUpdateChance) {
		now := time.Now().UnixMilli()
		s.emit(Event{Type: EventUserUpdate, Timestamp: now, Data: UserUpdate{
			UserID:    s.data.User().ID,
			Field:     "xp",
			Change:    rng.IntN(100) + 10,
			Timestamp: now,
		}})
		s.log.Debug("broadcasting user xp update")
	}
}

func (s *Simulator) emit(evt Event) {
	if !s.connected {
		return
	}
	for id, sub := range s.subs {
		if !sub.wants(evt.Type) {
			continue
		}
		select {
		case sub.out <- evt:
		default:
			// Subscriber is slow/full - drop them.
			s.log.Warn("dropping slow listener", zap.String("id", id))
			close(sub.out)
			delete(s.subs, id)
		}
	}
}
