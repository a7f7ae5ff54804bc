package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

// CreateUser creates a new user with the given email and password hash.
// The email is stored as given; callers normalize it first.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    timestamp(time.Now()),
	}

	_, err := db.exec(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "email", email)
}

func (db *DB) getUser(ctx context.Context, column, value string) (*models.User, error) {
	row := db.queryRow(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by %s: %w", column, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
