package auth

import (
	"net/http"
	"strings"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/models"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session"

// Guard resolves the caller of a request from its session evidence.
// It only reads the request; it never touches the store.
type Guard struct {
	sessions *SessionAuthority
}

// NewGuard creates a guard validating tokens with sessions.
func NewGuard(sessions *SessionAuthority) *Guard {
	return &Guard{sessions: sessions}
}

// Session returns the validated session of the caller. The session cookie is
// consulted first, then an Authorization: Bearer header.
func (g *Guard) Session(r *http.Request) (*models.Session, bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if s, err := g.sessions.Validate(cookie.Value); err == nil {
			return s, true
		}
	}
	if token, ok := bearerToken(r); ok {
		if s, err := g.sessions.Validate(token); err == nil {
			return s, true
		}
	}
	return nil, false
}

// ResolveCallerID returns the caller's user id, or false when the request
// carries no valid session.
func (g *Guard) ResolveCallerID(r *http.Request) (string, bool) {
	s, ok := g.Session(r)
	if !ok {
		return "", false
	}
	return s.UserID, true
}

// RequireCallerID is ResolveCallerID for call sites that cannot proceed
// anonymously.
func (g *Guard) RequireCallerID(r *http.Request) (string, error) {
	id, ok := g.ResolveCallerID(r)
	if !ok {
		return "", apperr.ErrUnauthenticated
	}
	return id, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
