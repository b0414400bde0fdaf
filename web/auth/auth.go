// Package auth holds the session manager. Sessions replace the ambient
// browser storage flags of the original client: they are created at
// login, carried by cookie, and torn down at logout or expiry.
package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token.
const CookieName = "smu_session"

// ContextKey is used to store the session in the request context.
type ContextKey string

const sessionKey ContextKey = "session"

var ErrNoSession = errors.New("no session")

// Session is an authenticated browsing context: either a user session
// bound to an email, or the admin flag session.
type Session struct {
	Token     string
	Email     string
	Admin     bool
	ExpiresAt time.Time
}

// Manager issues and tracks sessions in memory.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IssueUser creates a session for the given email.
func (m *Manager) IssueUser(email string) Session {
	return m.issue(Session{Email: email})
}

// IssueAdmin creates an admin session.
func (m *Manager) IssueAdmin() Session {
	return m.issue(Session{Admin: true})
}

func (m *Manager) issue(s Session) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Token = uuid.New().String()
	s.ExpiresAt = m.now().Add(m.ttl)

	m.sessions[s.Token] = s

	return s
}

// Get returns the session for a token if it exists and has not expired.
func (m *Manager) Get(token string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok || m.now().After(s.ExpiresAt) {
		return Session{}, false
	}

	return s, true
}

// Revoke removes a session. Unknown tokens are a no-op.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
}

// Sweep evicts expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int

	for token, s := range m.sessions {
		if m.now().After(s.ExpiresAt) {
			delete(m.sessions, token)

			removed++
		}
	}

	return removed
}

// Run sweeps expired sessions periodically until the context ends.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// SetCookie attaches the session cookie to a response.
func SetCookie(w http.ResponseWriter, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the request's session via its cookie.
func (m *Manager) FromRequest(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, false
	}

	return m.Get(cookie.Value)
}

// RequireUser rejects requests without a valid user session and adds
// the session to the request context.
func (m *Manager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := m.FromRequest(r)
		if !ok || s.Admin {
			http.Error(w, "Unauthorized: login required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests without a valid admin session.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := m.FromRequest(r)
		if !ok || !s.Admin {
			http.Error(w, "Unauthorized: admin access required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext extracts the session stored by the middlewares.
func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey).(Session)
	if !ok {
		return Session{}, ErrNoSession
	}

	return s, nil
}
