// Package main initializes and starts the MyWallet HTTP server,
// setting up configuration, logging, the store, repositories,
// services, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/gusgusz/projeto14-mywallet-back/internal/config"
	"github.com/gusgusz/projeto14-mywallet-back/internal/db"
	"github.com/gusgusz/projeto14-mywallet-back/internal/logger"
	"github.com/gusgusz/projeto14-mywallet-back/internal/repository"
	"github.com/gusgusz/projeto14-mywallet-back/internal/server/handler/http"
	"github.com/gusgusz/projeto14-mywallet-back/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// stores groups the repositories of whichever backend the URI selected.
type stores struct {
	users    service.UserRepository
	sessions service.SessionRepository
	ledger   service.LedgerRepository
	close    func(context.Context) error
}

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			zapLogger.Warn("failed to close database", zap.Error(err))
		}
	}()

	// Initialize business-logic services.
	authService := service.NewAuthService(st.users, st.sessions,
		service.WithSessionTTL(options.SessionTTL.Duration),
		service.WithAuthLogger(zapLogger),
	)
	ledgerService := service.NewLedgerService(st.ledger, zapLogger)

	// Create HTTP handlers for auth and ledger endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	ledgerHandler := &http.LedgerHandler{LedgerService: ledgerService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, ledgerHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSCert != "" && options.TLSKey != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// openStores connects to MongoDB or PostgreSQL depending on the URI scheme
// and builds the matching repositories.
func openStores(ctx context.Context, options *config.Options, log *zap.Logger) (*stores, error) {
	ttl := options.SessionTTL.Duration

	if options.IsMongo() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, mdb, err := db.InitMongo(connectCtx, options.DatabaseURI, options.DatabaseName, ttl)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", options.DatabaseName))
		return &stores{
			users:    repository.NewMongoUserRepository(mdb),
			sessions: repository.NewMongoSessionRepository(mdb),
			ledger:   repository.NewMongoLedgerRepository(mdb),
			close:    client.Disconnect,
		}, nil
	}

	postgresDB, err := db.InitPostgres(options.DatabaseURI)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres")

	// Expired sessions are already rejected on lookup; the cleaner only
	// reclaims their rows.
	if ttl > 0 {
		db.StartSessionCleaner(ctx, postgresDB, min(ttl, time.Hour), ttl, log)
	}

	return &stores{
		users:    repository.NewPostgresUserRepository(postgresDB),
		sessions: repository.NewPostgresSessionRepository(postgresDB),
		ledger:   repository.NewPostgresLedgerRepository(postgresDB),
		close:    func(context.Context) error { return postgresDB.Close() },
	}, nil
}
