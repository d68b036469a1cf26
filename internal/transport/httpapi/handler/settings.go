package handler

import (
	"encoding/json"
	"net/http"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	ledger *store.Store
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(ledger *store.Store) *SettingsHandler {
	return &SettingsHandler{ledger: ledger}
}

type settingsRequest struct {
	Currency string `json:"currency,omitempty"`
	Language string `json:"language,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ledger.Settings())
}

// UpdateSettings handles PUT /settings. Omitted fields keep their current
// values.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := h.ledger.Settings()
	next := domain.Settings{
		Currency: current.Currency,
		Language: current.Language,
		Theme:    current.Theme,
	}
	if req.Currency != "" {
		next.Currency = req.Currency
	}
	if req.Language != "" {
		next.Language = req.Language
	}
	if req.Theme != "" {
		next.Theme = req.Theme
	}

	if err := h.ledger.UpdateSettings(r.Context(), next); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.ledger.Settings())
}
