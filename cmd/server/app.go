package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/domain/srs"
	"github.com/phrazzld/lingua-api/internal/platform/postgres"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/auth"
	"github.com/phrazzld/lingua-api/internal/service/review"
	"github.com/phrazzld/lingua-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	stores store.Stores
	uow    store.UnitOfWork

	jwtService      auth.JWTService
	srsService      srs.Service
	cardService     service.CardService
	reviewService   review.Service
	progressService service.ProgressService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	app.stores = store.Stores{
		Cards:    postgres.NewPostgresCardStore(db, logger),
		Decks:    postgres.NewPostgresDeckStore(db, logger),
		Reviews:  postgres.NewPostgresReviewStore(db, logger),
		Progress: postgres.NewPostgresProgressStore(db, logger),
	}
	app.uow = store.NewUnitOfWork(db, app.stores)

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:  cfg.SRS.MinEaseFactor,
		FirstInterval:  cfg.SRS.FirstInterval,
		SecondInterval: cfg.SRS.SecondInterval,
	}))

	app.cardService, err = service.NewCardService(app.uow, app.stores.Cards, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.reviewService, err = review.NewService(
		app.uow,
		app.stores.Cards,
		app.srsService,
		logger,
		review.WithLimits(review.Limits{
			DefaultDueLimit: cfg.Review.DefaultDueLimit,
			MaxDueLimit:     cfg.Review.MaxDueLimit,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	app.progressService, err = service.NewProgressService(app.uow, app.stores.Progress, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
