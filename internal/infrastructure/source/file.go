package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/infrastructure/parsers"
)

// FileSource reads definitions from a local copy of the document.
type FileSource struct {
	path string
}

// NewFileSource creates a new file definition source.
func NewFileSource(path string) (*FileSource, error) {
	if parsers.ForFile(path) == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}
	return &FileSource{path: path}, nil
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return s.path
}

// Fetch opens and parses the file.
func (s *FileSource) Fetch(ctx context.Context) (map[string]entities.RawReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	refs, err := parsers.ForFile(s.path).Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	return refs, nil
}
