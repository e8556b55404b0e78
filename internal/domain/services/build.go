package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/ports"
)

// DefaultHistoryLimit is the default number of builds to list.
const DefaultHistoryLimit = 20

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// BuildOptions controls build behavior.
type BuildOptions struct {
	DryRun bool // Compile without writing artifacts or history
}

// BuildResult contains the result of a build.
type BuildResult struct {
	Build     entities.Build
	Tables    *entities.Tables
	Artifacts []entities.Artifact
	DryRun    bool
}

// BuildService runs fetch, compile, persist and record as one unit.
type BuildService struct {
	source  ports.DefinitionSource
	store   ports.TableStore
	history ports.BuildHistory
	logger  *slog.Logger
}

// NewBuildService creates a new build service. history may be nil.
func NewBuildService(source ports.DefinitionSource, store ports.TableStore, history ports.BuildHistory, logger *slog.Logger) *BuildService {
	return &BuildService{
		source:  source,
		store:   store,
		history: history,
		logger:  logger,
	}
}

// Build fetches definitions and compiles them. Artifacts are written only
// after both groups are fully indexed.
func (s *BuildService) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	s.logger.Info("fetching definitions", slog.String("source", s.source.Describe()))

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching definitions: %w", err)
	}
	s.logger.Debug("fetched definitions", slog.Int("count", len(raw)))

	tables, err := Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compiling tables: %w", err)
	}
	s.logger.Info("compiled tables",
		slog.Int("full", tables.Full.Len()),
		slog.Int("base", tables.Base.Len()),
	)

	build := entities.Build{
		ID:        uuid.New().String(),
		Source:    s.source.Describe(),
		BaseCount: tables.Base.Len(),
		FullCount: tables.Full.Len(),
		OutputDir: s.store.Dir(),
		CreatedAt: timeNow().UTC(),
	}

	if opts.DryRun {
		return &BuildResult{Build: build, Tables: tables, DryRun: true}, nil
	}

	artifacts, err := s.store.Save(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("saving tables: %w", err)
	}

	for _, a := range artifacts {
		s.logger.Debug("wrote artifact", slog.String("path", a.Path), slog.String("digest", a.Digest))
		switch a.Group {
		case entities.GroupBase:
			build.BaseDigest = a.Digest
		case entities.GroupFull:
			build.FullDigest = a.Digest
		}
	}

	if s.history != nil {
		if err := s.history.SaveBuild(ctx, &build); err != nil {
			return nil, fmt.Errorf("recording build: %w", err)
		}
	}

	return &BuildResult{Build: build, Tables: tables, Artifacts: artifacts}, nil
}

// History returns the most recent builds.
func (s *BuildService) History(ctx context.Context, limit int) ([]entities.Build, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	builds, err := s.history.ListBuilds(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}

	return builds, nil
}

// CountBuilds returns the number of recorded builds.
func (s *BuildService) CountBuilds(ctx context.Context) (int, error) {
	if s.history == nil {
		return 0, nil
	}

	count, err := s.history.CountBuilds(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting builds: %w", err)
	}

	return count, nil
}

// FindBuild returns the build whose ID is id or starts with id.
func (s *BuildService) FindBuild(ctx context.Context, id string) (*entities.Build, error) {
	if s.history == nil {
		return nil, fmt.Errorf("build not found: %s", id)
	}

	build, err := s.history.FindBuild(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding build: %w", err)
	}
	if build == nil {
		return nil, fmt.Errorf("build not found: %s", id)
	}

	return build, nil
}
