package hooks

import (
	"sync"

	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"go.uber.org/zap"
)

// Registry hands out one Client per session so every connection to a
// session shares its query cache.
type Registry struct {
	api *mockapi.API
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(api *mockapi.API, log *zap.Logger) *Registry {
	return &Registry{api: api, log: log, clients: map[string]*Client{}}
}

func (r *Registry) For(sess *session.Session) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.clients[sess.ID()]; c != nil && c.sess == sess {
		return c
	}
	c := NewClient(r.api, sess, nil, r.log)
	r.clients[sess.ID()] = c
	go func() {
		<-sess.Done()
		r.mu.Lock()
		if r.clients[sess.ID()] == c {
			delete(r.clients, sess.ID())
		}
		r.mu.Unlock()
	}()
	return c
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
