package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-ledger/internal/auth"
	"finance-ledger/internal/config"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/log"
	"finance-ledger/internal/storage"
	"finance-ledger/web"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()

	logConfig := log.DefaultConfig()
	logConfig.Level = log.ParseLevel(cfg.LogLevel)
	logger := log.New(logConfig)
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	db, err := storage.Open(ctx, storage.Dialect(cfg.DBDriver), cfg.DSN())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	logger.WithComponent(log.ComponentStorage).Info("Database ready",
		"driver", db.Dialect(),
		log.FieldOperation, log.OpMigrate,
	)

	sessions := auth.NewSessionAuthority([]byte(cfg.SessionSecret), cfg.SessionTTL)
	h := handlers.NewHandlers(db, sessions, web.Templates(), cfg.CookieSecure, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h, web.Static(), cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupRouter(h *handlers.Handlers, static fs.FS, corsOrigins []string) http.Handler {
	return handlers.NewRouter(h, handlers.RouterOptions{
		Static:      static,
		CORSOrigins: corsOrigins,
	})
}
