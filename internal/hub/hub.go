package hub

import (
	"context"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/journal"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

// CreateSession starts a session; an empty ID gets a generated one.
type CreateSession struct {
	ID    string
	Reply chan *session.Session
}

type GetSession struct {
	ID    string
	Reply chan *session.Session
}

type EnsureSession struct {
	ID    string
	Reply chan *session.Session
}

// RemoveSession stops and forgets a session. When Session is set, the entry
// is only removed if it still points at that session.
type RemoveSession struct {
	ID      string
	Session *session.Session
}

type ListSessions struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

// DefaultIdleTimeout is how long a session lives without clients.
const DefaultIdleTimeout = time.Minute

type Hub struct {
	inbox     chan HubMsg
	sessions  map[string]*session.Session
	sink      journal.Sink
	log       *zap.Logger
	onCreate  func(context.Context, *session.Session)
	idleAfter time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

type Option func(*Hub)

// IdleTimeout sets how long a session may go without clients before the hub
// removes it. Zero keeps sessions until shutdown.
func IdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idleAfter = d }
}

// OnCreate runs fn once for every new session, on the hub goroutine. fn must
// not block.
func OnCreate(fn func(context.Context, *session.Session)) Option {
	return func(h *Hub) { h.onCreate = fn }
}

func NewHub(parent context.Context, sink journal.Sink, log *zap.Logger, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		sessions:  make(map[string]*session.Session),
		sink:      sink,
		log:       log,
		idleAfter: DefaultIdleTimeout,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, o := range opts {
		o(h)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Create starts a new session, or returns nil if the hub has shut down.
func (h *Hub) Create() *session.Session {
	return h.ask(func(reply chan *session.Session) HubMsg { return CreateSession{Reply: reply} })
}

// Get returns the session with id, or nil.
func (h *Hub) Get(id string) *session.Session {
	return h.ask(func(reply chan *session.Session) HubMsg { return GetSession{ID: id, Reply: reply} })
}

func (h *Hub) Ensure(id string) *session.Session {
	return h.ask(func(reply chan *session.Session) HubMsg { return EnsureSession{ID: id, Reply: reply} })
}

// List returns the ids of live sessions.
func (h *Hub) List() []string {
	reply := make(chan []string, 1)
	select {
	case h.inbox <- ListSessions{Reply: reply}:
	case <-h.ctx.Done():
		return nil
	}
	select {
	case ids := <-reply:
		return ids
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) ask(build func(chan *session.Session) HubMsg) *session.Session {
	reply := make(chan *session.Session, 1)
	select {
	case h.inbox <- build(reply):
	case <-h.ctx.Done():
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				id := msg.ID
				if id == "" {
					id = uuid.NewString()
				}
				if s := h.live(id); s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.start(id)

			case GetSession:
				msg.Reply <- h.live(msg.ID) // May be nil

			case EnsureSession:
				if s := h.live(msg.ID); s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.start(msg.ID)

			case RemoveSession:
				s := h.sessions[msg.ID]
				if s == nil || (msg.Session != nil && msg.Session != s) {
					break
				}
				stop(s)
				delete(h.sessions, msg.ID)
				h.log.Info("session removed", zap.String("session", msg.ID))

			case ListSessions:
				ids := make([]string, 0, len(h.sessions))
				for id := range h.sessions {
					if h.live(id) != nil {
						ids = append(ids, id)
					}
				}
				msg.Reply <- ids

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// live returns the session under id unless it is missing or has already
// shut itself down, in which case the stale entry is dropped.
func (h *Hub) live(id string) *session.Session {
	s := h.sessions[id]
	if s == nil {
		return nil
	}
	select {
	case <-s.Done():
		delete(h.sessions, id)
		return nil
	default:
		return s
	}
}

func (h *Hub) start(id string) *session.Session {
	s := session.New(h.ctx, id, h.sink, h.log, session.IdleAfter(h.idleAfter, h.reap))
	h.sessions[id] = s
	h.log.Info("session created", zap.String("session", id))
	if h.onCreate != nil {
		h.onCreate(h.ctx, s)
	}
	return s
}

// reap runs on an idle session's goroutine after it has shut down.
func (h *Hub) reap(s *session.Session) {
	select {
	case h.inbox <- RemoveSession{ID: s.ID(), Session: s}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		stop(s)
	}
	clear(h.sessions)
	h.cancel()
}

func stop(s *session.Session) {
	select {
	case s.Inbox() <- session.Shutdown{}:
	case <-s.Done():
	}
}
