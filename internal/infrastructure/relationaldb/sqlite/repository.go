// Package sqlite provides a SQLite implementation of the BuildHistory interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/infrastructure/config"
)

const memoryPath = ":memory:"

// Repository implements ports.BuildHistory using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.HistoryConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: opens a separate database
	if cfg.Path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- One row per successful non-dry-run build
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		base_count INTEGER NOT NULL,
		full_count INTEGER NOT NULL,
		base_digest TEXT NOT NULL,
		full_digest TEXT NOT NULL,
		output_dir TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created_at);
	CREATE INDEX IF NOT EXISTS idx_builds_output ON builds(output_dir);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveBuild records a build.
func (r *Repository) SaveBuild(ctx context.Context, build *entities.Build) error {
	query := `
		INSERT INTO builds (id, source, base_count, full_count, base_digest, full_digest, output_dir, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		build.ID,
		build.Source,
		build.BaseCount,
		build.FullCount,
		build.BaseDigest,
		build.FullDigest,
		build.OutputDir,
		build.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving build: %w", err)
	}
	return nil
}

// FindBuild finds a build by its ID or a unique ID prefix. Returns nil if not found.
func (r *Repository) FindBuild(ctx context.Context, id string) (*entities.Build, error) {
	if id == "" {
		return nil, nil
	}

	query := `
		SELECT id, source, base_count, full_count, base_digest, full_digest, output_dir, created_at
		FROM builds
		WHERE substr(id, 1, length(?)) = ?
		ORDER BY id = ? DESC, created_at DESC
		LIMIT 2
	`
	builds, err := r.queryBuilds(ctx, query, id, id, id)
	if err != nil {
		return nil, err
	}

	switch len(builds) {
	case 0:
		return nil, nil
	case 1:
		return &builds[0], nil
	default:
		if builds[0].ID == id {
			return &builds[0], nil
		}
		return nil, fmt.Errorf("%w: %s", entities.ErrAmbiguousID, id)
	}
}

// LatestBuild returns the newest build written to outputDir. Returns nil if none.
func (r *Repository) LatestBuild(ctx context.Context, outputDir string) (*entities.Build, error) {
	query := `
		SELECT id, source, base_count, full_count, base_digest, full_digest, output_dir, created_at
		FROM builds
		WHERE output_dir = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, outputDir)

	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &build, nil
}

// ListBuilds lists the most recent builds, newest first.
func (r *Repository) ListBuilds(ctx context.Context, limit int) ([]entities.Build, error) {
	query := `
		SELECT id, source, base_count, full_count, base_digest, full_digest, output_dir, created_at
		FROM builds
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	return r.queryBuilds(ctx, query, limit)
}

// queryBuilds is a helper to execute build queries.
func (r *Repository) queryBuilds(ctx context.Context, query string, args ...any) ([]entities.Build, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var result []entities.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, build)
	}
	return result, rows.Err()
}

// CountBuilds returns the number of recorded builds.
func (r *Repository) CountBuilds(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM builds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting builds: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (entities.Build, error) {
	var build entities.Build
	err := row.Scan(
		&build.ID,
		&build.Source,
		&build.BaseCount,
		&build.FullCount,
		&build.BaseDigest,
		&build.FullDigest,
		&build.OutputDir,
		&build.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return build, err
	}
	if err != nil {
		return build, fmt.Errorf("scanning build: %w", err)
	}
	return build, nil
}
