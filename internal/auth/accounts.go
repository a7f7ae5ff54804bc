package auth

import (
	"context"
	"errors"
	"sync"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/log"
	"finance-ledger/internal/models"
	"finance-ledger/internal/storage"
	"finance-ledger/internal/validation"
)

// Messages returned by the account service.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserExists         = "User already exists"
)

// ErrInvalidCredentials is the single login failure, whatever the cause.
var ErrInvalidCredentials = &apperr.Error{Kind: apperr.KindUnauthenticated, Message: MsgInvalidCredentials}

// UserStore is the subset of storage the account service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Accounts registers users and checks credentials.
type Accounts struct {
	store  UserStore
	logger *log.Logger
}

// NewAccounts creates an account service over store.
func NewAccounts(store UserStore, logger *log.Logger) *Accounts {
	return &Accounts{store: store, logger: logger.WithComponent(log.ComponentAuth)}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// timingHash returns a hash to compare against when the email is unknown, so
// that path costs the same bcrypt work as a wrong password.
func timingHash() string {
	dummyHashOnce.Do(func() {
		h, err := HashPassword("not-a-real-password")
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}

// Register creates an account for email. Duplicate emails, whether caught by
// the lookup or by the store's unique constraint, yield a Conflict.
func (a *Accounts) Register(ctx context.Context, email, password string) (*models.User, error) {
	email, err := validation.Registration(email, password)
	if err != nil {
		return nil, err
	}

	if _, err := a.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict(MsgUserExists, storage.ErrDuplicateEmail)
	} else if !errors.Is(err, storage.ErrNotFound) {
		a.logger.Error("user lookup failed",
			log.FieldOperation, log.OpRegister,
			log.FieldError, err,
		)
		return nil, apperr.Internal(err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := a.store.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, apperr.Conflict(MsgUserExists, err)
		}
		a.logger.Error("user insert failed",
			log.FieldOperation, log.OpRegister,
			log.FieldError, err,
		)
		return nil, apperr.Internal(err)
	}

	a.logger.Info("user registered",
		log.FieldOperation, log.OpRegister,
		log.FieldUserID, user.ID,
	)
	return user, nil
}

// Authenticate returns the user only when email exists and password
// verifies against its hash.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Error("user lookup failed",
				log.FieldOperation, log.OpLogin,
				log.FieldError, err,
			)
			return nil, apperr.Internal(err)
		}
		CheckPassword(password, timingHash())
		return nil, ErrInvalidCredentials
	}

	if !CheckPassword(password, user.PasswordHash) {
		a.logger.Warn("login rejected",
			log.FieldOperation, log.OpLogin,
			log.FieldUserID, user.ID,
		)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
