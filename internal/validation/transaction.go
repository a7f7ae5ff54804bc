// Package validation turns untrusted request bodies into typed payloads.
//
// Every function returns the first failure it meets as an *apperr.Error of
// kind InvalidInput; nothing here touches storage.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/models"
)

// Failure messages returned to clients.
const (
	MsgAmount           = "Amount must be a number greater than 0."
	MsgCategoryRequired = "Category is required."
	MsgCategoryEmpty    = "Category cannot be empty."
	MsgCategoryText     = "Category must be text."
	MsgType             = "Type must be either INCOME or EXPENSE."
	MsgDateRequired     = "Date is required and must be valid."
	MsgDateString       = "Date must be a string."
	MsgDateInvalid      = "Date must be valid."
	MsgDescriptionText  = "Description must be text."
	MsgNoFieldToUpdate  = "Provide at least one field to update: amount, type, category, date, description."
)

// Fields is a decoded JSON object whose values have not been interpreted yet.
type Fields map[string]json.RawMessage

// DecodeBody parses data as a JSON object. Anything else, including
// a bare null or an array, is rejected as an invalid payload.
func DecodeBody(data []byte) (Fields, error) {
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		return nil, apperr.InvalidInput(apperr.MsgInvalidPayload)
	}
	return f, nil
}

// has reports whether key is present; an explicit null counts as present.
func (f Fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

// CreateTransaction validates a creation body.
// Checks run in the order amount, category, type, date.
func CreateTransaction(f Fields) (models.NewTransaction, error) {
	var out models.NewTransaction

	amount, ok := parseAmount(f["amount"])
	if !ok {
		return out, apperr.InvalidInput(MsgAmount)
	}

	var category string
	if f.has("category") && !isNull(f["category"]) {
		s, ok := parseString(f["category"])
		if !ok {
			return out, apperr.InvalidInput(MsgCategoryText)
		}
		category = strings.TrimSpace(s)
	}
	if category == "" {
		return out, apperr.InvalidInput(MsgCategoryRequired)
	}

	typ, ok := parseType(f["type"])
	if !ok {
		return out, apperr.InvalidInput(MsgType)
	}

	raw, _ := parseString(f["date"])
	date, ok := ParseDate(raw)
	if !ok {
		return out, apperr.InvalidInput(MsgDateRequired)
	}

	var description *string
	if f.has("description") && !isNull(f["description"]) {
		s, ok := parseString(f["description"])
		if !ok {
			return out, apperr.InvalidInput(MsgDescriptionText)
		}
		description = normalizeDescription(s)
	}

	out = models.NewTransaction{
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Date:        date,
		Description: description,
	}
	return out, nil
}

// UpdateTransaction validates a partial body. Only present keys are checked
// and only present keys end up in the patch. A description that is empty
// after trimming clears the stored value.
func UpdateTransaction(f Fields) (models.TransactionPatch, error) {
	var p models.TransactionPatch

	if f.has("amount") {
		amount, ok := parseAmount(f["amount"])
		if !ok {
			return p, apperr.InvalidInput(MsgAmount)
		}
		p.Amount = &amount
	}

	if f.has("category") {
		s, ok := parseString(f["category"])
		if !ok {
			return p, apperr.InvalidInput(MsgCategoryText)
		}
		category := strings.TrimSpace(s)
		if category == "" {
			return p, apperr.InvalidInput(MsgCategoryEmpty)
		}
		p.Category = &category
	}

	if f.has("type") {
		typ, ok := parseType(f["type"])
		if !ok {
			return p, apperr.InvalidInput(MsgType)
		}
		p.Type = &typ
	}

	if f.has("date") {
		s, ok := parseString(f["date"])
		if !ok {
			return p, apperr.InvalidInput(MsgDateString)
		}
		date, ok := ParseDate(s)
		if !ok {
			return p, apperr.InvalidInput(MsgDateInvalid)
		}
		p.Date = &date
	}

	if f.has("description") {
		s, ok := parseString(f["description"])
		if !ok {
			return p, apperr.InvalidInput(MsgDescriptionText)
		}
		p.Description = normalizeDescription(s)
		p.DescriptionSet = true
	}

	if p.Empty() {
		return p, apperr.InvalidInput(MsgNoFieldToUpdate)
	}
	return p, nil
}

// parseAmount accepts a JSON number or a numeric string and requires a
// finite value strictly greater than zero.
func parseAmount(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	var amount float64
	switch x := v.(type) {
	case float64:
		amount = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		amount = f
	default:
		return 0, false
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func parseType(raw json.RawMessage) (models.TransactionType, bool) {
	s, ok := parseString(raw)
	if !ok {
		return "", false
	}
	t := models.TransactionType(s)
	return t, t.Valid()
}

func parseString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func normalizeDescription(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate reads a calendar date or timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
