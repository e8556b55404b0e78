package handlers

import (
	"context"

	"github.com/ersonp/entref/internal/domain/services"
)

// VerifyHandler handles checking persisted tables.
type VerifyHandler struct {
	service *services.VerifyService
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(service *services.VerifyService) *VerifyHandler {
	return &VerifyHandler{
		service: service,
	}
}

// Handle loads and checks both tables.
func (h *VerifyHandler) Handle(ctx context.Context) (*services.VerifyReport, error) {
	return h.service.Verify(ctx)
}
