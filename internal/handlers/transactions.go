package handlers

import (
	"errors"
	"net/http"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/log"
	"finance-ledger/internal/storage"
	"finance-ledger/internal/validation"

	"github.com/go-chi/chi/v5"
)

// MsgTransactionNotFound is returned for absent and foreign records alike.
const MsgTransactionNotFound = "Transaction not found"

var errTransactionNotFound = apperr.NotFound(MsgTransactionNotFound)

// storeError translates storage failures into error kinds.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errTransactionNotFound
	}
	return apperr.Internal(err)
}

// ListTransactions returns all of the caller's transactions, newest first.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireCallerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions, err := h.store.ListTransactions(r.Context(), userID)
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// CreateTransaction validates the body and stores it with the caller as owner.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireCallerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fields, err := decodeFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := validation.CreateTransaction(fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.store.CreateTransaction(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}

	log.FromContext(r.Context()).Info("transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldTxID, created.ID,
	)
	writeJSON(w, http.StatusCreated, created)
}

// GetTransaction returns one transaction owned by the caller.
func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireCallerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.store.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTransaction applies a partial update. Ownership is checked before the
// body is looked at, so a foreign id is a 404 whatever the payload.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireCallerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.store.GetTransaction(r.Context(), userID, id); err != nil {
		writeError(w, r, storeError(err))
		return
	}

	fields, err := decodeFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := validation.UpdateTransaction(fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.store.UpdateTransaction(r.Context(), userID, id, patch)
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}

	log.FromContext(r.Context()).Info("transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldTxID, id,
	)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTransaction removes one transaction owned by the caller.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireCallerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTransaction(r.Context(), userID, id); err != nil {
		writeError(w, r, storeError(err))
		return
	}

	log.FromContext(r.Context()).Info("transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldTxID, id,
	)
	w.WriteHeader(http.StatusNoContent)
}
