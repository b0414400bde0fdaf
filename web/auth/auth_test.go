package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndGet(t *testing.T) {
	m := NewManager(time.Hour)

	s := m.IssueUser("alice@example.com")
	require.NotEmpty(t, s.Token)

	got, ok := m.Get(s.Token)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.False(t, got.Admin)

	admin := m.IssueAdmin()
	got, ok = m.Get(admin.Token)
	require.True(t, ok)
	assert.True(t, got.Admin)
	assert.Empty(t, got.Email)
}

func TestManager_ExpiryAndSweep(t *testing.T) {
	m := NewManager(time.Hour)

	current := time.Now().UTC()
	m.now = func() time.Time { return current }

	s := m.IssueUser("bob@example.com")

	_, ok := m.Get(s.Token)
	require.True(t, ok)

	current = current.Add(2 * time.Hour)

	_, ok = m.Get(s.Token)
	assert.False(t, ok)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Sweep())
}

func TestManager_Revoke(t *testing.T) {
	m := NewManager(time.Hour)

	s := m.IssueUser("carol@example.com")
	m.Revoke(s.Token)

	_, ok := m.Get(s.Token)
	assert.False(t, ok)

	m.Revoke("unknown-token")
}

func TestManager_RequireUser(t *testing.T) {
	m := NewManager(time.Hour)

	var gotEmail string

	h := m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := SessionFromContext(r.Context())
		require.NoError(t, err)

		gotEmail = s.Email
	}))

	// no cookie
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// admin session does not pass the user gate
	admin := m.IssueAdmin()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: admin.Token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// user session passes
	s := m.IssueUser("dora@example.com")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dora@example.com", gotEmail)
}

func TestManager_RequireAdmin(t *testing.T) {
	m := NewManager(time.Hour)

	h := m.RequireAdmin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	user := m.IssueUser("eve@example.com")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: user.Token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := m.IssueAdmin()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: admin.Token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionFromContext_Missing(t *testing.T) {
	_, err := SessionFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
