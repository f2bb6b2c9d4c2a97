// Package journey keeps the live per-client objects (session manager, flow
// machine, toast queue) and serializes commands of the same client.
package journey

import (
	"context"
	"sync"
	"time"

	"dietpix/database/store"
	"dietpix/services/flow"
	"dietpix/services/session"

	"go.uber.org/zap"
)

// API is everything the journey needs from the backend.
type API interface {
	session.AuthAPI
	flow.DietAPI
}

// Client is the journey of one browser. Use it only between Acquire and
// the returned release.
type Client struct {
	State   *store.ClientState
	Session *session.Manager
	Flow    *flow.Machine
	Toasts  *flow.ToastQueue

	mu       sync.Mutex
	lastUsed time.Time
}

type Registry struct {
	store  store.Store
	api    API
	logger *zap.Logger
	opts   flow.Options
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(s store.Store, api API, logger *zap.Logger, opts flow.Options) *Registry {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		store:   s,
		api:     api,
		logger:  logger,
		opts:    opts,
		now:     now,
		clients: make(map[string]*Client),
	}
}

func (r *Registry) client(clientID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[clientID]
	if !ok {
		logger := r.logger.With(zap.String("clientID", clientID))
		state := store.NewClientState(r.store, clientID, logger)
		toasts := &flow.ToastQueue{}
		sess := session.NewManager(state, r.api, logger)
		c = &Client{
			State:   state,
			Session: sess,
			Toasts:  toasts,
			Flow:    flow.New(state, sess, r.api, toasts, logger, r.opts),
		}
		r.clients[clientID] = c
	}
	c.lastUsed = r.now()
	return c
}

// Acquire locks the journey of clientID and resolves its session. Callers
// must call release when done.
func (r *Registry) Acquire(ctx context.Context, clientID string) (*Client, func(), error) {
	if clientID == "" {
		return nil, nil, store.ErrEmptyClientID
	}
	c := r.client(clientID)
	c.mu.Lock()
	c.Session.Restore(ctx)
	return c, c.mu.Unlock, nil
}

// Sweep forgets clients idle for longer than maxIdle. Their durable state is
// untouched and is picked up again on the next request.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.clients {
		if c.lastUsed.After(cutoff) || !c.mu.TryLock() {
			continue
		}
		delete(r.clients, id)
		c.mu.Unlock()
		removed++
	}
	return removed
}

// Len is the number of live journeys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
