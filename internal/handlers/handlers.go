package handlers

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"finance-ledger/internal/auth"
	"finance-ledger/internal/log"
	"finance-ledger/internal/models"
)

// Context key type to avoid collisions.
type contextKey string

// SessionContextKey is the context key for the caller's session on page routes.
const SessionContextKey contextKey = "session"

// Store is the persistence surface the handlers depend on.
type Store interface {
	auth.UserStore
	CreateTransaction(ctx context.Context, userID string, in models.NewTransaction) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	Ping(ctx context.Context) error
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store        Store
	accounts     *auth.Accounts
	sessions     *auth.SessionAuthority
	guard        *auth.Guard
	templates    fs.FS
	secureCookie bool
	logger       *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store, sessions *auth.SessionAuthority, templates fs.FS, secureCookie bool, logger *log.Logger) *Handlers {
	return &Handlers{
		store:        store,
		accounts:     auth.NewAccounts(store, logger),
		sessions:     sessions,
		guard:        auth.NewGuard(sessions),
		templates:    templates,
		secureCookie: secureCookie,
		logger:       logger.WithComponent(log.ComponentHTTP),
	}
}

// GetSessionFromContext retrieves the caller's session stored by PageAuth.
func GetSessionFromContext(r *http.Request) *models.Session {
	if s, ok := r.Context().Value(SessionContextKey).(*models.Session); ok {
		return s
	}
	return nil
}

// PageAuth guards browser pages. Callers without a valid session are sent
// to the login page and any stale cookie is cleared.
func (h *Handlers) PageAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.guard.Session(r)
		if !ok {
			if _, err := r.Cookie(auth.SessionCookieName); err == nil {
				h.clearSessionCookie(w)
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
