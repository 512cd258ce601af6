package handler

import (
	"net/http"

	"github.com/Dan9191/expense-service/internal/models"
)

// GetSettings returns the caller's settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Settings(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings stores the caller's settings; omitted fields keep their value
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.SettingsUpdate
	if err := decode(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	s, err := h.svc.UpdateSettings(r.Context(), userID(r), &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ResetSettings drops the caller's settings, returning the defaults
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ResetSettings(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
