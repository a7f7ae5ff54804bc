package models

import "time"

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the permitted kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction represents a single income or expense record owned by a user.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewTransaction is a sanitized creation payload. Ownership is attached by the caller.
type NewTransaction struct {
	Amount      float64
	Type        TransactionType
	Category    string
	Date        time.Time
	Description *string
}

// TransactionPatch is a sparse update. Nil fields are left untouched.
// Description is only applied when DescriptionSet is true; a nil
// Description with DescriptionSet clears the stored value.
type TransactionPatch struct {
	Amount         *float64
	Type           *TransactionType
	Category       *string
	Date           *time.Time
	Description    *string
	DescriptionSet bool
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Amount == nil && p.Type == nil && p.Category == nil && p.Date == nil && !p.DescriptionSet
}
