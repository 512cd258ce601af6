// Package session guards protected views behind two independent truth
// sources: a token held in session storage and an in-memory authenticated
// flag. Access requires both.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLoginRoute is where denied callers are sent
const DefaultLoginRoute = "/login"

// Location is the destination a caller asked for
type Location struct {
	Path     string `json:"path"`
	RawQuery string `json:"query,omitempty"`
}

// LocationFromURL captures the path and query of u
func LocationFromURL(u *url.URL) Location {
	return Location{Path: u.Path, RawQuery: u.RawQuery}
}

func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// Decision is the outcome of Authorize. A denied decision carries the login
// route and the originally requested location; the caller navigates there
// replacing the current history entry.
type Decision struct {
	Allowed        bool
	RedirectTarget string
	PreservedState *Location
	Replace        bool
}

// Allow grants access
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny sends the caller to loginRoute, remembering where they wanted to go
func Deny(loginRoute string, from Location) Decision {
	return Decision{
		RedirectTarget: loginRoute,
		PreservedState: &from,
		Replace:        true,
	}
}

// RedirectURL is the login route with the preserved location attached as the
// "from" query parameter.
func (d Decision) RedirectURL() string {
	if d.Allowed || d.PreservedState == nil {
		return d.RedirectTarget
	}
	return d.RedirectTarget + "?" + url.Values{"from": {d.PreservedState.String()}}.Encode()
}

// Manager owns one session's token and authenticated flag. Callers never read
// either source directly.
type Manager struct {
	mu            sync.RWMutex
	store         Store
	persistent    PersistentStore
	authenticated bool
	loginRoute    string
	lastSeen      time.Time
	now           func() time.Time
	log           *logrus.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithPersistentStore attaches the remember-me store cleared by LogoutEverywhere
func WithPersistentStore(p PersistentStore) Option {
	return func(m *Manager) { m.persistent = p }
}

// WithLoginRoute overrides DefaultLoginRoute
func WithLoginRoute(route string) Option {
	return func(m *Manager) { m.loginRoute = route }
}

// WithLogger sets the logger used for best-effort cleanup failures
func WithLogger(log *logrus.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a logged-out session backed by store
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		loginRoute: DefaultLoginRoute,
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSeen = m.now()
	return m
}

// Login records a successful authentication: the token goes to session
// storage and the flag is raised.
func (m *Manager) Login(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Set(TokenKey, token)
	m.authenticated = true
	m.lastSeen = m.now()
}

// Authorize decides whether a caller whose authenticated flag is
// authenticated may see loc. It allows only when the flag is true and the
// stored token is non-empty. It has no side effects.
func (m *Manager) Authorize(authenticated bool, loc Location) Decision {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.store.Get(TokenKey)
	if authenticated && ok && token != "" {
		return Allow()
	}
	return Deny(m.loginRoute, loc)
}

// IsAuthorized evaluates the guard against the manager's own flag
func (m *Manager) IsAuthorized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.store.Get(TokenKey)
	return m.authenticated && ok && token != ""
}

// Authenticated reports the in-memory flag alone
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Token returns the stored session token
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Get(TokenKey)
}

// Reset lowers the authenticated flag without touching the token
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = false
}

// Logout clears the flag and removes the token. Once it returns every
// Authorize call denies.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = false
	m.store.Remove(TokenKey)
}

// LogoutEverywhere performs Logout and also clears the remembered auth token
// and user profile. Failures to clear persistent storage are logged, never
// returned.
func (m *Manager) LogoutEverywhere(ctx context.Context) {
	m.Logout()

	m.mu.RLock()
	persistent := m.persistent
	m.mu.RUnlock()
	if persistent == nil {
		return
	}
	for _, key := range []string{RememberedTokenKey, RememberedUserKey} {
		if err := persistent.Remove(ctx, key); err != nil {
			m.log.Warnf("Failed to clear remembered %s: %v", key, err)
		}
	}
}

// Touch records activity on the session
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeen = m.now()
}

// LastSeen returns the time of the last login or Touch
func (m *Manager) LastSeen() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSeen
}
