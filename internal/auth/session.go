package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued at login.
const CookieName = "portaria_session"

// Session is one authenticated login. Sessions live only in process memory
// and disappear at restart; the cookie carries the id inside a signed token.
type Session struct {
	ID        string
	Username  string
	IsAdmin   bool
	Address   string
	ExpiresAt time.Time
}

// SessionStore holds the active sessions. It is the only shared mutable
// state in the process.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session), ttl: sessionTTL()}
}

// Create registers a session and returns it with the signed cookie value.
func (s *SessionStore) Create(username string, isAdmin bool, address string) (Session, string, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Username:  username,
		IsAdmin:   isAdmin,
		Address:   address,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	token, err := Sign(sess.ID)
	if err != nil {
		return Session{}, "", err
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, token, nil
}

// Resolve maps a cookie value back to a live session.
func (s *SessionStore) Resolve(token string) (Session, bool) {
	id, err := Verify(token)
	if err != nil {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, false
	}
	return sess, true
}

// Delete drops the session named by a cookie value, if any.
func (s *SessionStore) Delete(token string) {
	id, err := Verify(token)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}
