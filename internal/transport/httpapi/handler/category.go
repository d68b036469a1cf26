package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
)

// CategoryHandler handles category catalog HTTP requests
type CategoryHandler struct {
	ledger *store.Store
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(ledger *store.Store) *CategoryHandler {
	return &CategoryHandler{ledger: ledger}
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph,omitempty"`
}

func kindFromParam(r *http.Request) (domain.CategoryKind, bool) {
	switch chi.URLParam(r, "kind") {
	case "expense":
		return domain.CategoryKindExpense, true
	case "income":
		return domain.CategoryKindIncome, true
	default:
		return "", false
	}
}

// ListCategories handles GET /categories/{kind}
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "kind must be expense or income")
		return
	}

	var cats []domain.Category
	if kind == domain.CategoryKindIncome {
		cats = h.ledger.IncomeCategories()
	} else {
		cats = h.ledger.ExpenseCategories()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": cats})
}

// CreateCategory handles POST /categories/{kind}
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "kind must be expense or income")
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.ledger.AddCategory(r.Context(), kind, req.Name, req.Glyph)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cat)
}

// DeleteCategory handles DELETE /categories/{kind}/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "kind must be expense or income")
		return
	}

	id := domain.ID(chi.URLParam(r, "id"))
	if err := h.ledger.DeleteCategory(r.Context(), kind, id); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RestoreDefaults handles POST /categories/{kind}/restore-defaults
func (h *CategoryHandler) RestoreDefaults(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "kind must be expense or income")
		return
	}

	cats := h.ledger.RestoreDefaultCategories(r.Context(), kind)
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": cats})
}
