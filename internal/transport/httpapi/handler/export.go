package handler

import (
	"io"
	"net/http"

	"github.com/feyli/moneymood/internal/ledger/export"
	"github.com/feyli/moneymood/internal/ledger/store"
	"github.com/feyli/moneymood/pkg/logger"
)

// maxImportSize bounds the accepted import document (16 MiB).
const maxImportSize = 16 << 20

// ExportHandler handles backup export and restore HTTP requests
type ExportHandler struct {
	ledger *store.Store
	log    *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(ledger *store.Store, log *logger.Logger) *ExportHandler {
	return &ExportHandler{ledger: ledger, log: log}
}

// Export handles GET /export and streams the backup document.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := export.Export(h.ledger)
	if err != nil {
		h.log.Error("export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="moneymood-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /import. The uploaded document replaces the current
// transaction list; a malformed document leaves the ledger untouched.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := export.Import(r.Context(), h.ledger, data); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
