package handlers

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/services"
)

// HistoryHandler handles listing past builds.
type HistoryHandler struct {
	service *services.BuildService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service *services.BuildService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// HistoryResult contains a page of builds and the total recorded.
type HistoryResult struct {
	Builds []entities.Build
	Total  int
}

// Handle returns up to limit builds, newest first.
func (h *HistoryHandler) Handle(ctx context.Context, limit int) (*HistoryResult, error) {
	builds, err := h.service.History(ctx, limit)
	if err != nil {
		return nil, err
	}

	total, err := h.service.CountBuilds(ctx)
	if err != nil {
		return nil, err
	}

	return &HistoryResult{Builds: builds, Total: total}, nil
}

// HandleShow returns a single build by ID or ID prefix.
func (h *HistoryHandler) HandleShow(ctx context.Context, id string) (*entities.Build, error) {
	return h.service.FindBuild(ctx, id)
}
