package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"seating-planner/internal/autoseat"
	"seating-planner/internal/config"
	"seating-planner/internal/export"
	"seating-planner/internal/planner"
	"seating-planner/internal/storage"
)

// app is the opened project of one command run.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   storage.Store
	planner *planner.Planner
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	if cfg.Backend == config.BackendSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := storage.NewSQLiteStore(ctx, filepath.Join(cfg.DataDir, "projects.db"), log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := storage.NewFileStore(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openApp loads the configuration, applies command line overrides and opens
// the configured project. A project that does not exist yet starts empty.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if projectArg != "" {
		cfg.Project = projectArg
	}
	if seedArg != 0 {
		cfg.Seed = seedArg
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := []planner.Option{
		planner.WithLogger(log),
		planner.WithSides(autoseat.Sides{
			A: autoseat.Affiliation{Name: cfg.AffiliationA.Name, Marker: cfg.AffiliationA.Marker},
			B: autoseat.Affiliation{Name: cfg.AffiliationB.Name, Marker: cfg.AffiliationB.Marker},
		}),
	}
	if cfg.Seed != 0 {
		opts = append(opts, planner.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}

	a := &app{cfg: cfg, log: log, store: store, planner: planner.New(opts...)}
	if err := a.load(ctx, cfg.Project); err != nil && !errors.Is(err, storage.ErrNotFound) {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) load(ctx context.Context, name string) error {
	project, err := a.store.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := a.planner.Load(project); err != nil {
		return err
	}
	a.cfg.Project = name
	if project.Metadata != nil {
		if project.Metadata.EventName != "" {
			a.cfg.EventName = project.Metadata.EventName
		}
		if project.Metadata.EventDate != "" {
			a.cfg.EventDate = project.Metadata.EventDate
		}
	}
	return nil
}

func (a *app) save(ctx context.Context) error {
	project := a.planner.Project()
	project.Metadata = &storage.Metadata{EventName: a.cfg.EventName, EventDate: a.cfg.EventDate}
	if err := a.store.Save(ctx, a.cfg.Project, project); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (a *app) snapshot() export.Snapshot {
	snap := a.planner.Snapshot()
	snap.EventName = a.cfg.EventName
	snap.EventDate = a.cfg.EventDate
	return snap
}

// Close releases the project store.
func (a *app) Close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
