// Package artifacts persists compiled tables as properties files.
package artifacts

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/infrastructure/config"
	"github.com/ersonp/entref/internal/infrastructure/parsers"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// Store implements ports.TableStore on the local filesystem.
type Store struct {
	dir      string
	baseFile string
	fullFile string
	logger   *slog.Logger
}

// NewStore creates a store writing into cfg.Dir.
func NewStore(cfg config.OutputConfig, logger *slog.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("output dir is required")
	}
	if cfg.BaseFile == "" || cfg.FullFile == "" {
		return nil, errors.New("output file names are required")
	}
	if cfg.BaseFile == cfg.FullFile {
		return nil, fmt.Errorf("base and full tables cannot share file %s", cfg.BaseFile)
	}

	return &Store{
		dir:      cfg.Dir,
		baseFile: cfg.BaseFile,
		fullFile: cfg.FullFile,
		logger:   logger,
	}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the artifact path for a group.
func (s *Store) Path(group entities.Group) string {
	if group == entities.GroupBase {
		return filepath.Join(s.dir, s.baseFile)
	}
	return filepath.Join(s.dir, s.fullFile)
}

type staged struct {
	artifact entities.Artifact
	tempPath string
}

// Save encodes both tables, stages them next to their targets and only then
// renames them into place, full first. A failed rename removes the staged
// files that were not yet moved.
func (s *Store) Save(ctx context.Context, tables *entities.Tables) ([]entities.Artifact, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var pending []staged
	cleanup := func() {
		for _, p := range pending {
			os.Remove(p.tempPath)
		}
	}

	err := tables.Each(func(t entities.Table) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := s.stage(t)
		if err != nil {
			return err
		}
		pending = append(pending, p)
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	artifacts := make([]entities.Artifact, 0, len(pending))
	for i, p := range pending {
		if err := osRename(p.tempPath, p.artifact.Path); err != nil {
			for _, rest := range pending[i:] {
				os.Remove(rest.tempPath)
			}
			return nil, fmt.Errorf("renaming %s table: %w", p.artifact.Group, err)
		}
		s.logger.Debug("wrote table",
			slog.String("group", string(p.artifact.Group)),
			slog.String("path", p.artifact.Path),
			slog.Int("records", p.artifact.Records),
		)
		artifacts = append(artifacts, p.artifact)
	}

	return artifacts, nil
}

// stage writes one encoded table to a temp file in the output directory.
func (s *Store) stage(t entities.Table) (staged, error) {
	var buf bytes.Buffer
	if err := parsers.EncodeTable(&buf, t); err != nil {
		return staged{}, fmt.Errorf("encoding %s table: %w", t.Group, err)
	}
	data := buf.Bytes()

	tempFile, err := os.CreateTemp(s.dir, ".entref-"+string(t.Group)+"-*")
	if err != nil {
		return staged{}, fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return staged{}, fmt.Errorf("writing %s table: %w", t.Group, err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return staged{}, fmt.Errorf("closing temp file: %w", err)
	}

	return staged{
		artifact: entities.Artifact{
			Group:   t.Group,
			Path:    s.Path(t.Group),
			Records: t.Len(),
			Digest:  Digest(data),
		},
		tempPath: tempPath,
	}, nil
}

// Load reads both tables back from disk.
func (s *Store) Load(ctx context.Context) (*entities.Tables, error) {
	full, err := s.load(ctx, entities.GroupFull)
	if err != nil {
		return nil, err
	}
	base, err := s.load(ctx, entities.GroupBase)
	if err != nil {
		return nil, err
	}
	return &entities.Tables{Base: base, Full: full}, nil
}

func (s *Store) load(ctx context.Context, group entities.Group) (entities.Table, error) {
	if err := ctx.Err(); err != nil {
		return entities.Table{}, err
	}

	path := s.Path(group)
	f, err := os.Open(path)
	if err != nil {
		return entities.Table{}, fmt.Errorf("opening %s table: %w", group, err)
	}
	defer f.Close()

	table, err := parsers.ParseTable(f, group)
	if err != nil {
		return entities.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// DigestFile returns the digest of the artifact currently on disk for group.
func (s *Store) DigestFile(group entities.Group) (string, error) {
	f, err := os.Open(s.Path(group))
	if err != nil {
		return "", fmt.Errorf("opening %s table: %w", group, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s table: %w", group, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Digest returns the hex BLAKE3 digest of data.
func Digest(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
