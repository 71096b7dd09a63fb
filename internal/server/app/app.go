// Package app wires configuration, storage, services, and the HTTP server
// into a runnable process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	httpapi "github.com/mrhteriyaki/kirov-server-emulator/internal/server/http"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/soap"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store/drivers/sqlite"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	databaseFile = "kirov.db"
	pepperFile   = "pepper"
)

// Application encapsulates the emulator core with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService         *service.AuthService
	registry            *service.SessionRegistry
	remoteAuthService   *service.RemoteAuthService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "kirov-server",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	cryptox.SetPepperPath(filepath.Join(cfg.DataDir, pepperFile))

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("server starting", "addr", app.cfg.ListenAddr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("server stopped")
	return nil
}

// initDatabase opens the store and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(app.cfg.DataDir, databaseFile))
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes the business logic services.
func (app *Application) initServices() error {
	signingKey, err := loadOrCreateSigningKey(app.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize signing key: %w", err)
	}

	app.registry = &service.SessionRegistry{
		Store:         app.db,
		IdleTTL:       app.cfg.SessionIdleTTL,
		MaxTTL:        app.cfg.SessionMaxTTL,
		Sliding:       app.cfg.SessionSliding,
		SingleSession: app.cfg.SingleSession,
	}

	app.remoteAuthService = &service.RemoteAuthService{
		Key:    signingKey,
		Issuer: app.cfg.CertIssuer,
		TTL:    app.cfg.CertTTL,
	}

	app.authService = &service.AuthService{
		Store:      app.db,
		Registry:   app.registry,
		RemoteAuth: app.remoteAuthService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.SOAPHandler = &soap.AuthHandler{
		Auth:   app.authService,
		Faults: soap.NewFaultMapper(soap.ParseFaultOverrides(app.cfg.FaultOverride)),
		Logger: app.logger,
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
