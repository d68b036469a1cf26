package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/feyli/moneymood/internal/transport/httpapi/handler"
	"github.com/feyli/moneymood/internal/transport/httpapi/middleware"
	"github.com/feyli/moneymood/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	SettingsHandler    *handler.SettingsHandler
	ExportHandler      *handler.ExportHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.NewRateLimiter(rate.Limit(100), 20).Middleware)

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.AuthHandler != nil {
					r.Post("/auth/logout", cfg.AuthHandler.Logout)
				}

				// Account routes
				if cfg.AccountHandler != nil {
					r.Get("/accounts", cfg.AccountHandler.ListAccounts)
					r.Post("/accounts", cfg.AccountHandler.CreateAccount)
					r.Patch("/accounts/{id}", cfg.AccountHandler.PatchAccount)
					r.Post("/accounts/{id}/archive", cfg.AccountHandler.ArchiveAccount)
					r.Delete("/accounts/{id}", cfg.AccountHandler.DeleteAccount)
				}

				// Transaction and transfer routes
				if cfg.TransactionHandler != nil {
					r.Get("/transactions", cfg.TransactionHandler.ListTransactions)
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Get("/transactions/orphans", cfg.TransactionHandler.ListOrphans)
					r.Patch("/transactions/{id}", cfg.TransactionHandler.PatchTransaction)
					r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
					r.Post("/transfers", cfg.TransactionHandler.Transfer)
				}

				// Category catalog routes
				if cfg.CategoryHandler != nil {
					r.Route("/categories/{kind}", func(r chi.Router) {
						r.Get("/", cfg.CategoryHandler.ListCategories)
						r.Post("/", cfg.CategoryHandler.CreateCategory)
						r.Post("/restore-defaults", cfg.CategoryHandler.RestoreDefaults)
						r.Delete("/{id}", cfg.CategoryHandler.DeleteCategory)
					})
				}

				// Settings routes
				if cfg.SettingsHandler != nil {
					r.Get("/settings", cfg.SettingsHandler.GetSettings)
					r.Put("/settings", cfg.SettingsHandler.UpdateSettings)
				}

				// Backup routes
				if cfg.ExportHandler != nil {
					r.Get("/export", cfg.ExportHandler.Export)
					r.Post("/import", cfg.ExportHandler.Import)
				}
			})
		}
	})

	return r
}
