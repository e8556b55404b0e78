// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
)

// DefinitionSource supplies the raw named character reference mapping.
type DefinitionSource interface {
	// Fetch returns the complete mapping of marked names to references.
	// Implementations must never return a partial mapping.
	Fetch(ctx context.Context) (map[string]entities.RawReference, error)

	// Describe returns a human-readable location (URL or file path).
	Describe() string
}
