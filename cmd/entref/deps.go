package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/entref/internal/application/handlers"
	"github.com/ersonp/entref/internal/domain/ports"
	"github.com/ersonp/entref/internal/domain/services"
	"github.com/ersonp/entref/internal/infrastructure/artifacts"
	"github.com/ersonp/entref/internal/infrastructure/config"
	"github.com/ersonp/entref/internal/infrastructure/logging"
	"github.com/ersonp/entref/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/entref/internal/infrastructure/source"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	BuildHandler   *handlers.BuildHandler
	VerifyHandler  *handlers.VerifyHandler
	HistoryHandler *handlers.HistoryHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	store *artifacts.Store
}

// historyMode says whether a command opens the build history database.
type historyMode int

const (
	// historyNone never touches the database.
	historyNone historyMode = iota
	// historyIfExists opens the database only when it is already on disk.
	historyIfExists
	// historyCreate creates the database and its schema when missing.
	historyCreate
)

// overrides are command flags that take precedence over the config file.
type overrides struct {
	sourceURL string
	input     string
	outputDir string
	history   historyMode
}

func (o overrides) apply(cfg *config.Config) {
	if o.sourceURL != "" {
		cfg.Source.URL = o.sourceURL
	}
	if o.outputDir != "" {
		cfg.Output.Dir = o.outputDir
	}
}

// projectDir returns the --dir flag or the current directory.
func projectDir() (string, error) {
	if globalDir != "" {
		return globalDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// newLogger builds the stderr logger, honoring --verbose.
func newLogger(cmd *cobra.Command, cfg config.LogConfig) (*slog.Logger, error) {
	if globalVerbose {
		cfg.Level = "debug"
	}
	logger, err := logging.New(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(cmd *cobra.Command, o overrides, fn func(*Deps) error) error {
	return withInternalDeps(cmd, o, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
func withInternalDeps(cmd *cobra.Command, o overrides, fn func(*internalDeps) error) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o.apply(cfg)

	logger, err := newLogger(cmd, cfg.Log)
	if err != nil {
		return err
	}

	var src ports.DefinitionSource
	if o.input != "" {
		src, err = source.NewFileSource(o.input)
	} else {
		src, err = source.NewHTTPSource(cfg.Source, logger)
	}
	if err != nil {
		return fmt.Errorf("creating definition source: %w", err)
	}

	store, err := artifacts.NewStore(cfg.Output, logger)
	if err != nil {
		return fmt.Errorf("creating table store: %w", err)
	}

	var history ports.BuildHistory
	repo, err := openHistory(cmd, cfg.History, o.history)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
		history = repo
	}

	buildService := services.NewBuildService(src, store, history, logger)
	verifyService := services.NewVerifyService(store, history, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			BuildHandler:   handlers.NewBuildHandler(buildService),
			VerifyHandler:  handlers.NewVerifyHandler(verifyService),
			HistoryHandler: handlers.NewHistoryHandler(buildService),
		},
		store: store,
	}

	return fn(deps)
}

// openHistory opens the build history for mode. It returns nil when the mode
// skips history, the path is empty or a read-only command finds no database.
func openHistory(cmd *cobra.Command, cfg config.HistoryConfig, mode historyMode) (*sqlite.Repository, error) {
	if mode == historyNone || cfg.Path == "" {
		return nil, nil
	}
	if mode == historyIfExists && cfg.Path != ":memory:" {
		if _, err := os.Stat(cfg.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}

	repo, err := sqlite.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	if err := repo.EnsureSchema(cmd.Context()); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	return repo, nil
}

// withStore provides direct table store access for commands that only read artifacts.
func withStore(cmd *cobra.Command, fn func(*artifacts.Store) error) error {
	return withInternalDeps(cmd, overrides{}, func(d *internalDeps) error {
		return fn(d.store)
	})
}
