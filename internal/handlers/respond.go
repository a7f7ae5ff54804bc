package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/log"
	"finance-ledger/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and public message. Internal causes are
// logged, never written.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.FromContext(r.Context()).Error("request failed",
			log.FieldErrorKind, kind.String(),
			log.FieldError, err,
		)
	}
	writeJSON(w, apperr.HTTPStatus(kind), errorResponse{Error: apperr.PublicMessage(err)})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.InvalidInput(apperr.MsgInvalidPayload)
	}
	return data, nil
}

// decodeFields reads the body as a JSON object for the validation layer.
func decodeFields(w http.ResponseWriter, r *http.Request) (validation.Fields, error) {
	data, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	return validation.DecodeBody(data)
}

// decodeJSON reads the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.InvalidInput(apperr.MsgInvalidPayload)
	}
	return nil
}
