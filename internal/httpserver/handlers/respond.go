package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"portaria/internal/apperrs"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps domain errors to HTTP statuses. Anything outside the
// taxonomy is a store-level fault: reported generically, never fatal.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrs.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperrs.ErrInvalidCredential), errors.Is(err, apperrs.ErrAddressMismatch):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperrs.ErrPermissionDenied), errors.Is(err, apperrs.ErrSelfDeletionForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperrs.ErrValidation), errors.Is(err, apperrs.ErrConfirmationMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrs.ErrDuplicateUsername):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperrs.ErrTooManyAttempts):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, "operation failed, please try again", http.StatusInternalServerError)
	}
}
