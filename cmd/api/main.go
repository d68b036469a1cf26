package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feyli/moneymood/internal/ledger/store"
	"github.com/feyli/moneymood/internal/ledger/sync"
	"github.com/feyli/moneymood/internal/localstore"
	"github.com/feyli/moneymood/internal/platform/user"
	userpg "github.com/feyli/moneymood/internal/platform/user/postgres"
	remotepg "github.com/feyli/moneymood/internal/remote/postgres"
	"github.com/feyli/moneymood/internal/transport/httpapi"
	"github.com/feyli/moneymood/internal/transport/httpapi/handler"
	"github.com/feyli/moneymood/internal/transport/httpapi/middleware"
	"github.com/feyli/moneymood/pkg/config"
	"github.com/feyli/moneymood/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting MoneyMood API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool (remote store)
	db, err := remotepg.NewPool(ctx, remotepg.PoolConfig{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client (local store persistence)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize the ledger store backed by Redis
	local := localstore.NewRedisStore(redisClient)
	ledger := store.New(local, log)
	if err := ledger.Load(ctx); err != nil {
		log.Error("Failed to load ledger state", "error", err)
		os.Exit(1)
	}
	log.Info("Ledger store loaded")

	// Initialize the reconciliation engine and wire it to store mutations
	remoteStore := remotepg.NewStore(db.Pool)
	syncEngine := sync.NewEngine(remoteStore, ledger, log)
	ledger.SetHooks(store.Hooks{
		Changed:            syncEngine.NotifyChanged,
		TransactionDeleted: syncEngine.TransactionDeleted,
		AccountDeleted:     syncEngine.AccountDeleted,
		SettingsChanged:    syncEngine.PushSettings,
	})
	log.Info("Reconciliation engine initialized")

	// Initialize user components
	userRepo := userpg.NewRepository(db.Pool)
	userSvc := user.NewService(userRepo)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc, syncEngine, log)
	accountHandler := handler.NewAccountHandler(ledger)
	transactionHandler := handler.NewTransactionHandler(ledger)
	categoryHandler := handler.NewCategoryHandler(ledger)
	settingsHandler := handler.NewSettingsHandler(ledger)
	exportHandler := handler.NewExportHandler(ledger, log)

	// Create JWT middleware
	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	routerCfg := httpapi.Config{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		CategoryHandler:    categoryHandler,
		SettingsHandler:    settingsHandler,
		ExportHandler:      exportHandler,
		JWTMiddleware:      jwtMiddleware,
	}
	r := httpapi.NewRouter(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Let in-flight reconciliation cycles finish before closing connections
	syncEngine.EndSession()
	syncEngine.Wait()
	log.Info("Reconciliation engine stopped")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
