// Package app wires configuration, storage, curriculum and the engine
// into one ready-to-use value for the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/admin"
	"github.com/chitouru-maker/khoushou3/internal/config"
	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/engine"
	"github.com/chitouru-maker/khoushou3/internal/store"
	"github.com/chitouru-maker/khoushou3/internal/streak"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

// App holds the long-lived dependencies of one CLI invocation.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend store.Backend
	Engine  *engine.Engine
	Admin   *admin.Session
}

// Open builds the backend and engine described by cfg and loads the
// persisted state. Callers must Close the returned App.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	graph, err := LoadCurriculum(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger.Named("engine")),
		engine.WithClock(streak.SystemClock{Location: loc}),
		engine.WithJournal(backend),
	}
	if cfg.StrictPrerequisites {
		opts = append(opts, engine.WithStrict())
	}
	eng := engine.New(graph, backend, opts...)
	eng.Load(ctx)

	auth := admin.NewAuthenticator(cfg.Admin.Username, cfg.Admin.PasswordHash)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		Engine:  eng,
		Admin:   admin.NewSession(backend, auth, logger.Named("admin")),
	}, nil
}

// Viewer returns the current viewer, admin when the session flag is set.
func (a *App) Viewer(ctx context.Context) unlock.Viewer {
	return a.Admin.Viewer(ctx)
}

// Reset deletes every persisted record and the award journal.
func (a *App) Reset(ctx context.Context) error {
	var errs []error
	for _, key := range store.AllKeys() {
		if err := a.Backend.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	if err := a.Backend.ClearAwards(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear awards: %w", err))
	}
	return errors.Join(errs...)
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Close()
}

// LoadCurriculum returns the configured curriculum, or the built-in one.
func LoadCurriculum(cfg *config.Config) (*curriculum.Graph, error) {
	if cfg.Curriculum == "" {
		return curriculum.Default(), nil
	}
	g, err := curriculum.LoadFile(cfg.Curriculum)
	if err != nil {
		return nil, fmt.Errorf("load curriculum %s: %w", cfg.Curriculum, err)
	}
	return g, nil
}

// OpenBackend opens the storage backend selected by sc.
func OpenBackend(ctx context.Context, sc config.StorageConfig) (store.Backend, error) {
	switch sc.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendPostgres:
		s, err := store.OpenPostgres(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := store.OpenRedis(ctx, sc.RedisURL, sc.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite, "":
		path := sc.SQLitePath
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = p
		} else if err := store.EnsureDir(path); err != nil {
			return nil, err
		}
		s, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}
