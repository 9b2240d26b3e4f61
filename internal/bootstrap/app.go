package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/applications"
	"benefitflow-backend/internal/documents"
	"benefitflow-backend/internal/intake"
	"benefitflow-backend/internal/query"
	"benefitflow-backend/internal/reasoning"
	"benefitflow-backend/internal/reasoning/anthropic"
	"benefitflow-backend/internal/reconcile"
	"benefitflow-backend/internal/server"
	"benefitflow-backend/internal/shared/config"
	"benefitflow-backend/internal/shared/storage/db"
	"benefitflow-backend/internal/shared/telemetry"
	"benefitflow-backend/internal/users"
)

// App holds shared dependencies with a defined lifecycle: the database
// handle is opened once here and closed by Shutdown.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Docs       *documents.Store
	Fallback   *documents.FallbackTier
	Apps       applications.Repo
	Users      users.Repo
	Invoker    reasoning.Invoker
	Intake     *intake.Service
	Query      *query.Service
	Reconciler *reconcile.Worker
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	primary, err := buildPrimaryTier(ctx, cfg, sqlDB)
	if err != nil {
		return nil, err
	}
	fallback := documents.NewFallbackTier(cfg.FallbackDir)
	docStore := documents.NewStore(primary, fallback)

	var appsRepo applications.Repo
	var usersRepo users.Repo
	if sqlDB != nil {
		appsRepo = &applications.PGRepo{DB: sqlDB}
		usersRepo = &users.PGRepo{DB: sqlDB}
	} else {
		appsRepo = applications.NewMemoryRepo()
		usersRepo = users.NewMemoryRepo()
	}

	invoker, err := buildInvoker(cfg)
	if err != nil {
		return nil, err
	}

	intakeSvc := &intake.Service{
		Invoker: invoker,
		Docs:    docStore,
		Apps:    appsRepo,
		Users:   usersRepo,
	}
	querySvc := &query.Service{
		Apps:  appsRepo,
		Users: usersRepo,
		Docs:  docStore,
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Docs:       docStore,
		Fallback:   fallback,
		Apps:       appsRepo,
		Users:      usersRepo,
		Invoker:    invoker,
		Intake:     intakeSvc,
		Query:      querySvc,
		Reconciler: reconcile.NewWorker(primary, fallback, cfg.ReconcileCron),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		DB:            sqlDB,
		IntakeHandler: intake.NewHandler(intakeSvc),
		QueryHandler:  query.NewHandler(querySvc),
	})

	return app, nil
}

// Shutdown releases owned resources.
func (a *App) Shutdown() {
	if a.Reconciler != nil {
		a.Reconciler.Stop()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	telemetry.Sync()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.no_database", map[string]any{
				"detail": "DATABASE_URL empty; using in-memory repositories and fallback-only document storage",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts, db.DefaultStrategies())
	if err != nil {
		// Primary unreachable at startup: intake still works through the
		// fallback tier in dev; production requires the datastore.
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.database_unreachable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildPrimaryTier(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (documents.PrimaryTier, error) {
	switch cfg.DocumentTier {
	case "s3":
		return documents.NewS3Tier(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		if sqlDB == nil {
			return nil, nil
		}
		return &documents.PGTier{DB: sqlDB}, nil
	}
}

func buildInvoker(cfg config.Config) (reasoning.Invoker, error) {
	if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.no_reasoning_key", map[string]any{
				"detail": "ANTHROPIC_API_KEY empty; submissions will fail until configured",
			})
			return reasoning.NewService(unconfiguredClient{}), nil
		}
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	client, err := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.ReasoningModel, cfg.MaxTokens)
	if err != nil {
		return nil, err
	}
	return reasoning.NewService(client), nil
}

type unconfiguredClient struct{}

func (unconfiguredClient) Complete(ctx context.Context, instruction string, attachments []reasoning.Attachment) (string, error) {
	return "", fmt.Errorf("reasoning service not configured")
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
