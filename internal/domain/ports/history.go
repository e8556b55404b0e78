package ports

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
)

// BuildHistory records completed builds.
type BuildHistory interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// SaveBuild stores a build entry.
	SaveBuild(ctx context.Context, build *entities.Build) error

	// FindBuild returns the build whose ID is id or starts with id.
	// Returns nil if none matches.
	FindBuild(ctx context.Context, id string) (*entities.Build, error)

	// LatestBuild returns the newest build written to outputDir, or nil.
	LatestBuild(ctx context.Context, outputDir string) (*entities.Build, error)

	// ListBuilds returns the most recent builds first.
	ListBuilds(ctx context.Context, limit int) ([]entities.Build, error)

	// CountBuilds returns the number of recorded builds.
	CountBuilds(ctx context.Context) (int, error)

	// Close closes the database connection.
	Close() error
}
