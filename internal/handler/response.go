package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/assistant"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Status: "ok",
		Data:   payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Status:  "error",
		Message: message,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeStoreError maps store sentinels onto the advisory error taxonomy:
// validation rejections are 400s, the PIN gate is 403, lookups are 404s.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrPinMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrDuplicateMobile),
		errors.Is(err, store.ErrEmptyBill),
		errors.Is(err, store.ErrNoCustomer),
		errors.Is(err, store.ErrInvalidPrice),
		errors.Is(err, store.ErrInvalidProduct),
		errors.Is(err, store.ErrPinFormat),
		errors.Is(err, store.ErrPinConfirm),
		errors.Is(err, assistant.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, assistant.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
