package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/feyli/moneymood/internal/shared/errors"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response with the message only
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// respondAppError maps an AppError to an HTTP status and a response body
// carrying the stable error code for the client to localize.
func respondAppError(w http.ResponseWriter, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, statusForCode(appErr.Code), map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeNotFound, apperrors.CodeAccountNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeConflict, apperrors.CodeAccountNameDuplicate:
		return http.StatusConflict
	case apperrors.CodeValidation, apperrors.CodeBadRequest, apperrors.CodeImportFailed:
		return http.StatusBadRequest
	case apperrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		// Invariant violations are client mistakes.
		return http.StatusUnprocessableEntity
	}
}
