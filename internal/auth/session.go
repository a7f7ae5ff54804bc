package auth

import (
	"errors"
	"fmt"
	"time"

	"finance-ledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for any token that does not resolve to a caller.
var ErrInvalidSession = errors.New("invalid session token")

// Claims is the payload of a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionAuthority issues and validates HS256 session tokens.
type SessionAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionAuthority creates an authority signing with secret. Tokens expire after ttl.
func NewSessionAuthority(secret []byte, ttl time.Duration) *SessionAuthority {
	return &SessionAuthority{secret: secret, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (a *SessionAuthority) TTL() time.Duration {
	return a.ttl
}

// Issue signs a token for user and returns it with its expiry.
func (a *SessionAuthority) Issue(user *models.User) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl).Truncate(time.Second)

	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt.UTC(), nil
}

// Validate checks the signature, algorithm and expiry of token and returns
// the identity it carries.
func (a *SessionAuthority) Validate(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidSession
	}

	return &models.Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
