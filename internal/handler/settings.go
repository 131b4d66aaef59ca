package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Store *store.Store
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings/pin", h.setPin)
	r.Post("/settings/wipe", h.wipe)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"pinSet": h.Store.HasPIN(),
	})
}

type pinPayload struct {
	NewPin     string `json:"newPin" validate:"required"`
	ConfirmPin string `json:"confirmPin" validate:"required"`
}

func (h SettingsHandler) setPin(w http.ResponseWriter, r *http.Request) {
	var req pinPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.SetPIN(r.Context(), req.NewPin, req.ConfirmPin); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

type wipePayload struct {
	Pin string `json:"pin"`
}

// wipe removes every persisted record and resets the application to its
// empty-state default. Gated by the PIN when one is configured.
func (h SettingsHandler) wipe(w http.ResponseWriter, r *http.Request) {
	var req wipePayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Store.Wipe(r.Context(), req.Pin); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "wiped"})
}
