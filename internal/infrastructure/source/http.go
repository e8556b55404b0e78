// Package source provides DefinitionSource implementations.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/infrastructure/config"
	"github.com/ersonp/entref/internal/infrastructure/parsers"
)

// maxBodySize caps the definition document; the W3C list is about 150 KiB.
const maxBodySize = 16 << 20

// HTTPSource fetches definitions with a single GET request.
type HTTPSource struct {
	client    *http.Client
	url       string
	userAgent string
	parser    parsers.Parser
	logger    *slog.Logger
}

// NewHTTPSource creates a new HTTP definition source.
func NewHTTPSource(cfg config.SourceConfig, logger *slog.Logger) (*HTTPSource, error) {
	if cfg.URL == "" {
		return nil, errors.New("source url is required")
	}

	parser := parsers.ForFile(cfg.URL)
	if parser == nil {
		parser = &parsers.JSONParser{}
	}

	return &HTTPSource{
		client:    &http.Client{Timeout: cfg.Timeout},
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		parser:    parser,
		logger:    logger,
	}, nil
}

// Describe returns the source URL.
func (s *HTTPSource) Describe() string {
	return s.url
}

// Fetch downloads and parses the definition document.
func (s *HTTPSource) Fetch(ctx context.Context) (map[string]entities.RawReference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("definition response",
		slog.String("url", s.url),
		slog.Int("status", resp.StatusCode),
		slog.Int64("content_length", resp.ContentLength),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %s", s.url, resp.Status)
	}

	refs, err := s.parser.Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.url, err)
	}

	return refs, nil
}
