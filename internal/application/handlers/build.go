package handlers

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/services"
)

// BuildHandler handles compiling and writing the reference tables.
type BuildHandler struct {
	service *services.BuildService
}

// NewBuildHandler creates a new build handler.
func NewBuildHandler(service *services.BuildService) *BuildHandler {
	return &BuildHandler{
		service: service,
	}
}

// BuildOptions controls build behavior.
type BuildOptions struct {
	DryRun bool
}

// BuildResult contains the result of a build.
type BuildResult struct {
	BuildID   string
	FullSize  int
	BaseSize  int
	Artifacts []entities.Artifact
	DryRun    bool
}

// Handle runs a build.
func (h *BuildHandler) Handle(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	result, err := h.service.Build(ctx, services.BuildOptions{
		DryRun: opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		BuildID:   result.Build.ID,
		FullSize:  result.Tables.Full.Len(),
		BaseSize:  result.Tables.Base.Len(),
		Artifacts: result.Artifacts,
		DryRun:    result.DryRun,
	}, nil
}
