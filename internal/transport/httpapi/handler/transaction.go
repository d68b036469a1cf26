package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
)

// TransactionHandler handles transaction and transfer HTTP requests
type TransactionHandler struct {
	ledger *store.Store
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledger *store.Store) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type createTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	Emotion     string `json:"emotion,omitempty"`
}

type patchTransactionRequest struct {
	Type        *string `json:"type,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	OccurredAt  *string `json:"occurred_at,omitempty"`
	Emotion     *string `json:"emotion,omitempty"`
	AccountID   *string `json:"account_id,omitempty"`
}

type transferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee,omitempty"`
	OccurredAt    string `json:"occurred_at,omitempty"`
	Description   string `json:"description,omitempty"`
}

type transactionResponse struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	OccurredAt      string `json:"occurred_at"`
	Currency        string `json:"currency"`
	AccountID       string `json:"account_id"`
	Emotion         string `json:"emotion,omitempty"`
	TransferGroupID string `json:"transfer_group_id,omitempty"`
	IsTransfer      bool   `json:"is_transfer"`
}

func toTransactionResponse(t domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID.String(),
		Type:            string(t.Type),
		Amount:          t.Amount.String(),
		Category:        t.Category,
		Description:     t.Description,
		OccurredAt:      t.OccurredAt.UTC().Format(time.RFC3339),
		Currency:        t.Currency,
		AccountID:       t.AccountID.String(),
		Emotion:         t.Emotion,
		TransferGroupID: t.TransferGroupID,
		IsTransfer:      t.IsTransfer,
	}
}

// ListTransactions handles GET /transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.ledger.Transactions()
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": out})
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	in := store.NewTransaction{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		AccountID:   domain.ID(req.AccountID),
		Emotion:     req.Emotion,
	}
	if req.OccurredAt != "" {
		occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid occurred_at, want RFC 3339")
			return
		}
		in.OccurredAt = occurredAt
	}

	txn, err := h.ledger.AddTransaction(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

// PatchTransaction handles PATCH /transactions/{id}
func (h *TransactionHandler) PatchTransaction(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	var req patchTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := store.TransactionPatch{
		Category:    req.Category,
		Description: req.Description,
		Emotion:     req.Emotion,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		patch.Amount = &amount
	}
	if req.OccurredAt != nil {
		occurredAt, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid occurred_at, want RFC 3339")
			return
		}
		patch.OccurredAt = &occurredAt
	}
	if req.AccountID != nil {
		accountID := domain.ID(*req.AccountID)
		patch.AccountID = &accountID
	}

	txn, err := h.ledger.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponse(txn))
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	if _, err := h.ledger.DeleteTransaction(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Transfer handles POST /transfers
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	fee := decimal.Zero
	if req.Fee != "" {
		fee, err = decimal.NewFromString(req.Fee)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid fee")
			return
		}
	}

	in := store.TransferInput{
		FromAccountID: domain.ID(req.FromAccountID),
		ToAccountID:   domain.ID(req.ToAccountID),
		Amount:        amount,
		Fee:           fee,
		Description:   req.Description,
	}
	if req.OccurredAt != "" {
		occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid occurred_at, want RFC 3339")
			return
		}
		in.OccurredAt = occurredAt
	}

	debit, credit, err := h.ledger.Transfer(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"debit":  toTransactionResponse(debit),
		"credit": toTransactionResponse(credit),
	})
}

// ListOrphans handles GET /transactions/orphans: maintenance view of
// transactions whose account was hard-deleted.
func (h *TransactionHandler) ListOrphans(w http.ResponseWriter, r *http.Request) {
	orphans := h.ledger.OrphanedTransactions()
	out := make([]transactionResponse, 0, len(orphans))
	for _, t := range orphans {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": out})
}
