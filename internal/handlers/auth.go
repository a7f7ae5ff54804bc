package handlers

import (
	"net/http"
	"time"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/log"
)

// MsgUserCreated is the registration success message.
const MsgUserCreated = "User created"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

type meResponse struct {
	User    userView `json:"user"`
	Expires string   `json:"expires"`
}

// Register creates an account. It never echoes the password or its hash.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.accounts.Register(r.Context(), in.Email, in.Password); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": MsgUserCreated})
}

// Login checks credentials, sets the session cookie and returns the token
// for clients that prefer a bearer header.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.sessions.Issue(user)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	log.FromContext(r.Context()).Info("user logged in",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, user.ID,
	)

	writeJSON(w, http.StatusOK, loginResponse{
		User:  userView{ID: user.ID, Email: user.Email},
		Token: token,
	})
}

// Logout clears the session cookie. Issued tokens stay valid until they expire.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the identity carried by the caller's session.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard.Session(r)
	if !ok {
		writeError(w, r, apperr.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User:    userView{ID: session.UserID, Email: session.Email},
		Expires: session.ExpiresAt.Format(time.RFC3339),
	})
}
