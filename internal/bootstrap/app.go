// Package bootstrap assembles the store, scoring strategy, workflow engine
// and HTTP router from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/analyses"
	"cvai-core/internal/cvs"
	openai "cvai-core/internal/llm/openai"
	"cvai-core/internal/profile"
	"cvai-core/internal/scoring"
	"cvai-core/internal/services/health"
	"cvai-core/internal/shared/config"
	"cvai-core/internal/shared/server"
	"cvai-core/internal/shared/storage/db"
	"cvai-core/internal/shared/storage/kv"
	kvpostgres "cvai-core/internal/shared/storage/kv/postgres"
	kvs3 "cvai-core/internal/shared/storage/kv/s3"
	kvsqlite "cvai-core/internal/shared/storage/kv/sqlite"
	"cvai-core/internal/shared/telemetry"
	"cvai-core/internal/store"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Medium kv.Medium
	Store  *store.Store
	Engine *analyses.Engine
	Router *gin.Engine

	closers []func() error
}

// Build prepares every dependency and wires the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(app.Medium, cfg.StorageBackend),
		CVHandler:       cvs.NewHandler(app.Store),
		ProfileHandler:  profile.NewHandler(app.Store),
		AnalysisHandler: analyses.NewHandler(app.Engine, cfg.WorkflowKeyTTL),
	})
	return app, nil
}

// BuildCore prepares the store and engine without an HTTP surface.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	medium, closeMedium, err := BuildMedium(ctx, cfg)
	if err != nil {
		return nil, err
	}
	scorer, gen, err := BuildStrategy(cfg)
	if err != nil {
		_ = closeMedium()
		return nil, err
	}

	st := store.New(medium)
	app := &App{
		Config:  cfg,
		Medium:  medium,
		Store:   st,
		Engine:  analyses.NewEngine(st, scorer, gen, cfg.AnalysisTimeout),
		closers: []func() error{closeMedium},
	}
	telemetry.Info("bootstrap.ready", map[string]any{
		"storage": cfg.StorageBackend,
		"scorer":  cfg.Scorer,
	})
	return app, nil
}

// Close releases the medium's resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func nop() error { return nil }

// BuildMedium opens the configured persistence medium. SQL media are
// migrated before use. The returned func closes underlying connections.
func BuildMedium(ctx context.Context, cfg config.Config) (kv.Medium, func() error, error) {
	var (
		medium kv.Medium
		closer = nop
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		medium = kv.NewMemory()
	case config.BackendFile:
		f, err := kv.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		medium = f
	case config.BackendPostgres:
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DriverPostgres); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		medium, closer = kvpostgres.New(sqlDB), sqlDB.Close
	case config.BackendS3:
		m, err := kvs3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, nil, err
		}
		medium = m
	default:
		path := cfg.SQLitePath
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return nil, nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		sqlDB, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DriverSQLite); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		medium, closer = kvsqlite.New(sqlDB), sqlDB.Close
	}
	return kv.WithPrefix(medium, cfg.StoragePrefix), closer, nil
}

// BuildStrategy selects the scorer and letter generator.
func BuildStrategy(cfg config.Config) (scoring.Scorer, scoring.Generator, error) {
	switch strings.ToLower(cfg.Scorer) {
	case config.ScorerKeyword:
		return scoring.NewKeyword(nil), scoring.Template{}, nil
	case config.ScorerLLM:
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, fmt.Errorf("llm scorer: %w", err)
		}
		s := scoring.NewLLM(client, cfg.LLMRetryAttempts)
		return s, s, nil
	default:
		b := scoring.NewBaseline(scoring.Latency{
			Review: cfg.ReviewLatency,
			Match:  cfg.MatchLatency,
			Letter: cfg.LetterLatency,
		})
		return b, b, nil
	}
}
