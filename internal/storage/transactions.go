package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

const transactionColumns = "id, user_id, amount, type, category, date, description, created_at"

// CreateTransaction stores a new transaction owned by userID.
func (db *DB) CreateTransaction(ctx context.Context, userID string, in models.NewTransaction) (*models.Transaction, error) {
	t := models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Date:        timestamp(in.Date),
		Description: in.Description,
		CreatedAt:   timestamp(time.Now()),
	}

	_, err := db.exec(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.Amount, string(t.Type), t.Category, t.Date, nullString(t.Description), t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns every transaction owned by userID, newest first.
// The result is never nil.
func (db *DB) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := db.query(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// GetTransaction returns the transaction only when userID owns it.
func (db *DB) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := db.queryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// UpdateTransaction applies the non-nil fields of patch and returns the
// stored result. Fields absent from the patch keep their values.
func (db *DB) UpdateTransaction(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	var (
		sets []string
		args []any
	)
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, timestamp(*patch.Date))
	}
	if patch.DescriptionSet {
		sets = append(sets, "description = ?")
		args = append(args, nullString(patch.Description))
	}

	if len(sets) == 0 {
		return db.GetTransaction(ctx, userID, id)
	}

	args = append(args, id, userID)
	res, err := db.exec(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return db.GetTransaction(ctx, userID, id)
}

// DeleteTransaction removes the transaction when userID owns it.
func (db *DB) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := db.exec(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var (
		t    models.Transaction
		typ  string
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Category, &t.Date, &desc, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = models.TransactionType(typ)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	if desc.Valid {
		t.Description = &desc.String
	}
	return &t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
