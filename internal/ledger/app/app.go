package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	httpapi "github.com/aussiebroadwan/moneymanager/internal/ledger/http"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/moneymanager/pkg/cryptox"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/aussiebroadwan/moneymanager/pkg/mailx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
	"github.com/shopspring/decimal"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the ledger service with all its dependencies
type Application struct {
	cfg      Config
	logger   *slog.Logger
	location *time.Location

	// Core dependencies
	db     store.Store
	mailer mailx.Sender

	// Services
	tokenService     *service.TokenService
	profileService   *service.ProfileService
	categoryService  *service.CategoryService
	incomeService    *service.LedgerService
	expenseService   *service.LedgerService
	dashboardService *service.DashboardService
	exportService    *service.ExportService
	reminderService  *service.ReminderService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "moneymanager",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	// Forwarding headers only count from these peers
	if err := httpx.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	app.location = loc

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.cfg.JobsEnabled {
		if err := app.reminderService.Start(); err != nil {
			return fmt.Errorf("failed to start reminder jobs: %w", err)
		}
	}

	app.logger.Info("moneymanager starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.reminderService.Stop()
			_ = app.db.Close()
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down moneymanager...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Waits for a running job
	app.reminderService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("moneymanager stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
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

// initMailer picks the SMTP relay, or a logging sender when none is set
func (app *Application) initMailer() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		app.mailer = mailx.LogSender{Logger: app.logger}
		return nil
	}

	sender, err := mailx.NewSMTPSender(mailx.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.mailer = sender
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	tokens, err := service.NewTokenService([]byte(app.cfg.JWTSecret), "", app.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	app.profileService = &service.ProfileService{
		Store:             app.db,
		Mailer:            app.mailer,
		Tokens:            app.tokenService,
		ActivationBaseURL: app.cfg.ActivationBaseURL,
	}
	app.categoryService = &service.CategoryService{Store: app.db}
	app.incomeService = &service.LedgerService{Store: app.db, Kind: domain.KindIncome, Location: app.location}
	app.expenseService = &service.LedgerService{Store: app.db, Kind: domain.KindExpense, Location: app.location}
	app.dashboardService = &service.DashboardService{
		Incomes:  app.incomeService,
		Expenses: app.expenseService,
	}
	app.exportService = &service.ExportService{
		Incomes:  app.incomeService,
		Expenses: app.expenseService,
		Mailer:   app.mailer,
	}
	app.reminderService = &service.ReminderService{
		Store:        app.db,
		Expenses:     app.expenseService,
		Mailer:       app.mailer,
		Logger:       app.logger,
		FrontendURL:  app.cfg.FrontendURL,
		Location:     app.location,
		ReminderSpec: app.cfg.ReminderCron,
		SummarySpec:  app.cfg.SummaryCron,
	}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.tokenService, app.logger)

	// Wire services to router
	router.ProfileService = app.profileService
	router.CategoryService = app.categoryService
	router.IncomeService = app.incomeService
	router.ExpenseService = app.expenseService
	router.DashboardService = app.dashboardService
	router.ExportService = app.exportService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
