// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/entref/internal/domain/ports"
	"github.com/ersonp/entref/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct {
	history ports.BuildHistory
}

// NewInitHandler creates a new init handler. history may be nil.
func NewInitHandler(history ports.BuildHistory) *InitHandler {
	return &InitHandler{
		history: history,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	OutputDir  string
}

// Handle writes the default config and prepares the build history.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("entref already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if h.history != nil {
		if err := h.history.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating history schema: %w", err)
		}
	}

	return &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		OutputDir:  cfg.Output.Dir,
	}, nil
}
