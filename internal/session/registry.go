package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry tracks live sessions by identifier
type Registry struct {
	mu         sync.Mutex
	sessions   map[string]*Manager
	loginRoute string
	now        func() time.Time
	log        *logrus.Logger
}

// NewRegistry creates an empty registry. Denied callers are sent to loginRoute.
func NewRegistry(loginRoute string, log *logrus.Logger) *Registry {
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	return &Registry{
		sessions:   make(map[string]*Manager),
		loginRoute: loginRoute,
		now:        time.Now,
		log:        log,
	}
}

// LoginRoute returns the route denied callers are redirected to
func (r *Registry) LoginRoute() string {
	return r.loginRoute
}

// Open starts a new authenticated session holding token. persistent may be nil.
func (r *Registry) Open(token string, persistent PersistentStore) (string, *Manager) {
	opts := []Option{
		WithLoginRoute(r.loginRoute),
		WithLogger(r.log),
		WithClock(r.now),
	}
	if persistent != nil {
		opts = append(opts, WithPersistentStore(persistent))
	}
	m := NewManager(NewMemoryStore(), opts...)
	m.Login(token)

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = m
	r.mu.Unlock()
	return id, m
}

// Get looks up a session
func (r *Registry) Get(id string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.sessions[id]
	return m, ok
}

// Close logs a session out and forgets it
func (r *Registry) Close(id string) {
	r.mu.Lock()
	m, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		m.Logout()
	}
}

// Len returns the number of tracked sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than idle and returns how many were
// removed. Only inactivity is considered; a session whose flag and token
// disagree stays until it times out.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var expired []*Manager
	for id, m := range r.sessions {
		if m.LastSeen().Before(cutoff) {
			expired = append(expired, m)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, m := range expired {
		m.Logout()
	}
	if len(expired) > 0 {
		r.log.Infof("Swept %d idle sessions", len(expired))
	}
	return len(expired)
}
