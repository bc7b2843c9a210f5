package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/veldtlabs/accounts/internal/accounts/http"
	"github.com/veldtlabs/accounts/internal/accounts/mail"
	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/veldtlabs/accounts/pkg/credential"
	"github.com/veldtlabs/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	dispatcher service.Dispatcher

	accountService       *service.AccountService
	passwordResetService *service.PasswordResetService
	tokenService         *service.TokenService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(host)
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

// initMail wires the SMTP dispatcher. Without a configured relay the
// dispatcher stays nil and lifecycle mail is skipped, which keeps local
// development runnable.
func (app *Application) initMail() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP relay configured, lifecycle mail disabled")
		return nil
	}

	dispatcher, err := mail.NewSMTPDispatcher(mail.Config{
		Host:           app.cfg.SMTPHost,
		Port:           app.cfg.SMTPPort,
		Username:       app.cfg.SMTPUsername,
		Password:       app.cfg.SMTPPassword,
		From:           app.cfg.MailFrom,
		BaseURL:        app.cfg.BaseURL,
		SendsPerSecond: app.cfg.MailPerSec,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mail dispatcher: %w", err)
	}

	app.dispatcher = dispatcher
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	creds := credential.NewGenerator(nil)

	app.accountService = &service.AccountService{
		Store: app.db,
		Mail:  app.dispatcher,
		Creds: creds,
	}
	app.passwordResetService = &service.PasswordResetService{
		Store: app.db,
		Mail:  app.dispatcher,
		Creds: creds,
	}

	secret := app.cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret"
		app.logger.Warn("ACCOUNTS_JWT_SECRET not set, using insecure development secret")
	}
	app.tokenService = &service.TokenService{
		Store:  app.db,
		Secret: []byte(secret),
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.TokenTTL,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.AccountService = app.accountService
	router.PasswordResetService = app.passwordResetService
	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
