package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	ledger *store.Store
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(ledger *store.Store) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type createAccountRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Currency       string  `json:"currency"`
	OpeningBalance string  `json:"opening_balance"`
	CreditLimit    *string `json:"credit_limit,omitempty"`
}

type patchAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	CreditLimit *string `json:"credit_limit,omitempty"`
}

type accountResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Currency       string  `json:"currency"`
	OpeningBalance string  `json:"opening_balance"`
	CreditLimit    *string `json:"credit_limit,omitempty"`
	Balance        string  `json:"balance"`
	Archived       bool    `json:"archived"`
	CreatedAt      string  `json:"created_at"`
}

func (h *AccountHandler) toResponse(a domain.Account, balance decimal.Decimal) accountResponse {
	resp := accountResponse{
		ID:             a.ID.String(),
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance.String(),
		Balance:        balance.String(),
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.CreditLimit != nil {
		s := a.CreditLimit.String()
		resp.CreditLimit = &s
	}
	return resp
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.ledger.Accounts()
	balances := h.ledger.Balances()

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, h.toResponse(a, balances[a.ID]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"accounts": out})
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		var err error
		opening, err = decimal.NewFromString(req.OpeningBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid opening balance")
			return
		}
	}

	in := store.NewAccount{
		Name:           req.Name,
		Type:           domain.AccountType(req.Type),
		Currency:       req.Currency,
		OpeningBalance: opening,
	}
	if req.CreditLimit != nil {
		limit, err := decimal.NewFromString(*req.CreditLimit)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid credit limit")
			return
		}
		in.CreditLimit = &limit
	}

	account, err := h.ledger.AddAccount(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.toResponse(account, account.OpeningBalance))
}

// PatchAccount handles PATCH /accounts/{id}
func (h *AccountHandler) PatchAccount(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	var req patchAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := store.AccountPatch{Name: req.Name}
	if req.Type != nil {
		t := domain.AccountType(*req.Type)
		patch.Type = &t
	}
	patch.Currency = req.Currency
	if req.CreditLimit != nil {
		limit, err := decimal.NewFromString(*req.CreditLimit)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid credit limit")
			return
		}
		patch.CreditLimit = &limit
	}

	account, err := h.ledger.UpdateAccount(r.Context(), id, patch)
	if err != nil {
		respondAppError(w, err)
		return
	}

	balance, _ := h.ledger.Balance(account.ID)
	respondJSON(w, http.StatusOK, h.toResponse(account, balance))
}

// ArchiveAccount handles POST /accounts/{id}/archive
func (h *AccountHandler) ArchiveAccount(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	account, err := h.ledger.ArchiveAccount(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	balance, _ := h.ledger.Balance(account.ID)
	respondJSON(w, http.StatusOK, h.toResponse(account, balance))
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	if _, err := h.ledger.DeleteAccount(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
