package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/feyli/moneymood/internal/ledger/sync"
	"github.com/feyli/moneymood/internal/platform/user"
	"github.com/feyli/moneymood/internal/transport/httpapi/middleware"
	"github.com/feyli/moneymood/pkg/logger"
)

// AuthHandler handles registration, login and logout. Login activates the
// reconciliation session; logout deactivates it.
type AuthHandler struct {
	userService *user.Service
	jwtService  *middleware.JWTService
	syncEngine  *sync.Engine
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, jwtService *middleware.JWTService, syncEngine *sync.Engine, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		syncEngine:  syncEngine,
		log:         log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserAlreadyExists):
			respondError(w, http.StatusConflict, "user already exists")
		case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrPasswordTooShort):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.respondWithToken(w, u)
}

// Login handles POST /auth/login. A successful login starts the sync
// session; the bootstrap runs in the background so a slow or unreachable
// remote store never blocks the login (optimistic local-first).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := h.syncEngine.StartSession(ctx, u.ID); err != nil {
			h.log.Error("sync bootstrap failed, will retry on next mutation", "error", err)
		}
	}()

	h.respondWithToken(w, u)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.syncEngine.EndSession()
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *user.User) {
	token, err := h.jwtService.GenerateToken(u.ID, u.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	var resp authResponse
	resp.Token = token
	resp.User.ID = u.ID.String()
	resp.User.Email = u.Email
	respondJSON(w, http.StatusOK, resp)
}
