package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/actionlog"
	"growth-intel/internal/llm"
	openai "growth-intel/internal/llm/openai"
	"growth-intel/internal/orgintel"
	"growth-intel/internal/shared/config"
	"growth-intel/internal/shared/server"
	"growth-intel/internal/shared/server/middleware"
	"growth-intel/internal/shared/storage/db"
	"growth-intel/internal/shared/storage/object"
	localstore "growth-intel/internal/shared/storage/object/local"
	s3store "growth-intel/internal/shared/storage/object/s3"
	"growth-intel/internal/shared/telemetry"
	"growth-intel/internal/styleprofile"
)

const retryBaseDelay = 500 * time.Millisecond

// App holds shared dependencies and the wired router.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.Store
	LLM       llm.Client
	Publisher actionlog.Publisher

	Actions      *actionlog.Recorder
	OrgIntel     *orgintel.Service
	StyleProfile *styleprofile.Service
}

// Build prepares dependencies and routes. DATABASE_URL is optional in dev-like
// environments, where repositories fall back to memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		LLM:       client,
		Publisher: buildPublisher(cfg),
	}
	buildServices(app)

	var health func() error
	if sqlDB != nil {
		health = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(ctx)
		}
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		OrgIntel:      orgintel.NewHandler(app.OrgIntel),
		StyleProfile:  styleprofile.NewHandler(app.StyleProfile),
		Actions:       actionlog.NewHandler(app.Actions),
		RateLimiter:   middleware.NewRateLimiter(nil),
		HealthChecker: health,
	})
	return app, nil
}

// Close releases the database pool and the event publisher.
func (a *App) Close() {
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM returns the placeholder client when no provider is configured so
// the service still boots; model-backed routes then degrade per operation.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "none" || strings.TrimSpace(cfg.LLMAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.Placeholder{}, nil
	}
	url := cfg.LLMBaseURL
	if url == "" && cfg.LLMProvider == "openai" {
		url = openai.OpenAIURL
	}
	client, err := openai.NewClient(cfg.LLMAPIKey, url, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(client, cfg.LLMMaxRetries, retryBaseDelay), nil
}

func buildPublisher(cfg config.Config) actionlog.Publisher {
	if strings.TrimSpace(cfg.NATSURL) == "" {
		return actionlog.NopPublisher{}
	}
	pub, err := actionlog.NewNATSPublisher(cfg.NATSURL, cfg.NATSToken)
	if err != nil {
		telemetry.Warn("bootstrap.nats_unavailable", map[string]any{"error": err})
		return actionlog.NopPublisher{}
	}
	return pub
}

func buildServices(app *App) {
	var (
		actionRepo actionlog.Repo
		orgRepo    orgintel.Repo
		styleRepo  styleprofile.Repo
	)
	if app.DB != nil {
		actionRepo = &actionlog.PGRepo{DB: app.DB}
		orgRepo = &orgintel.PGRepo{DB: app.DB}
		styleRepo = &styleprofile.PGRepo{DB: app.DB}
	} else {
		actionRepo = actionlog.NewMemoryRepo()
		orgRepo = orgintel.NewMemoryRepo()
		styleRepo = styleprofile.NewMemoryRepo()
	}

	app.Actions = actionlog.NewRecorder(actionRepo, app.Publisher)
	app.OrgIntel = orgintel.NewService(orgRepo, orgintel.NewEngine(app.LLM, app.Config.LLMModel), app.Actions)
	app.StyleProfile = styleprofile.NewService(styleRepo, styleprofile.NewEngine(app.LLM, app.Config.LLMModel), app.Store, app.Actions)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
