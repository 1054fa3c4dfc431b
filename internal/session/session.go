package session

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/journal"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("session closed")

// LogSize bounds the in-memory action log.
const LogSize = 256

type Msg interface{ isSessionMsg() }

type Dispatch struct {
	Action store.Action
	Reply  chan error // optional
}

func (Dispatch) isSessionMsg() {}

type Notify struct{ Toast Toast }

func (Notify) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Update // where this client wants to receive updates
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
	At      int64     `json:"at"`
}

type Snapshot struct {
	Version int
	State   store.State
}

// Update is one message to a client: exactly one field is set.
type Update struct {
	Snapshot *Snapshot
	Toast    *Toast
}

type View struct {
	Version    int
	NumClients int
	State      store.State
	Log        []store.Entry
}

type Session struct {
	id      string
	inbox   chan Msg
	state   store.State
	version int
	log     []store.Entry
	clients map[string]chan Update
	sink    journal.Sink
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	idleAfter time.Duration
	idleTimer *time.Timer
	onIdle    func(*Session)
}

type Option func(*Session)

// IdleAfter shuts the session down once it has had no clients for d, then
// calls fn from the session goroutine. A zero d keeps idle sessions alive.
func IdleAfter(d time.Duration, fn func(*Session)) Option {
	return func(s *Session) {
		s.idleAfter = d
		s.onIdle = fn
	}
}

func New(parent context.Context, id string, sink journal.Sink, logger *zap.Logger, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(parent)
	if sink == nil {
		sink = journal.Discard
	}

	s := &Session{
		id:      id,
		inbox:   make(chan Msg, 64),
		state:   store.Initial(),
		clients: make(map[string]chan Update),
		sink:    sink,
		logger:  logger.With(zap.String("component", "session"), zap.String("session", id)),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, o := range opts {
		o(s)
	}

	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

// Inbox exposes the loop's inbox to the ws layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) send(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}
}

// Dispatch applies a and waits for the result.
func (s *Session) Dispatch(ctx context.Context, a store.Action) error {
	reply := make(chan error, 1)
	if err := s.send(ctx, Dispatch{Action: a, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}
}

func (s *Session) Notify(ctx context.Context, kind ToastKind, message string) error {
	return s.send(ctx, Notify{Toast: Toast{Kind: kind, Message: message, At: time.Now().UnixMilli()}})
}

func (s *Session) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.ctx.Done():
		return View{}, ErrClosed
	}
}

func (s *Session) loop() {
	s.watchIdle()
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-s.idleC():
			s.idleTimer = nil
			if len(s.clients) > 0 {
				continue
			}
			s.logger.Info("session idle, shutting down", zap.Duration("idle", s.idleAfter))
			s.shutdown()
			if s.onIdle != nil {
				s.onIdle(s)
			}
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				s.deliver(msg.ClientID, msg.Outbox, Update{Snapshot: &Snapshot{Version: s.version, State: s.state}})

			case Leave:
				delete(s.clients, msg.ClientID)

			case Dispatch:
				err := s.apply(msg.Action)
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case Notify:
				t := msg.Toast
				s.broadcast(Update{Toast: &t})

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
					Log:        append([]store.Entry(nil), s.log...),
				}

			case Shutdown:
				s.shutdown()
				return
			}
			s.watchIdle()
		}
	}
}

// watchIdle arms the idle timer while there are no clients and disarms it
// once one joins.
func (s *Session) watchIdle() {
	if s.idleAfter <= 0 {
		return
	}
	switch {
	case len(s.clients) == 0 && s.idleTimer == nil:
		s.idleTimer = time.NewTimer(s.idleAfter)
	case len(s.clients) > 0 && s.idleTimer != nil:
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

func (s *Session) idleC() <-chan time.Time {
	if s.idleTimer == nil {
		return nil
	}
	return s.idleTimer.C
}

func (s *Session) apply(a store.Action) error {
	next, entry, err := store.Apply(s.state, a)
	if err != nil {
		s.logger.Debug("action rejected", zap.String("store", string(entry.Store)), zap.String("action", entry.Action), zap.Error(err))
		return err
	}
	s.state = next
	s.version++

	s.log = append(s.log, entry)
	if len(s.log) > LogSize {
		s.log = append([]store.Entry(nil), s.log[len(s.log)-LogSize:]...)
	}

	if err := s.sink.Write(s.ctx, journal.Entry{
		SessionID: s.id,
		Seq:       s.version,
		Store:     string(entry.Store),
		Action:    entry.Action,
		Payload:   entry.Payload,
		At:        time.Now(),
	}); err != nil {
		s.logger.Warn("journal write failed", zap.Error(err))
	}

	s.broadcast(Update{Snapshot: &Snapshot{Version: s.version, State: s.state}})
	return nil
}

func (s *Session) shutdown() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	for id, ch := range s.clients {
		close(ch) // Tell client no more updates
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(u Update) {
	for id, ch := range s.clients {
		s.deliver(id, ch, u)
	}
}

func (s *Session) deliver(id string, ch chan Update, u Update) {
	select {
	case ch <- u:
		//ok
	default:
		// Client is slow/full - drop them.
		s.logger.Warn("dropping slow client", zap.String("client", id))
		close(ch)
		delete(s.clients, id)
	}
}
