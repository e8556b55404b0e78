// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
)

// DefinitionSource is a mock implementation of ports.DefinitionSource.
type DefinitionSource struct {
	Definitions map[string]entities.RawReference
	Location    string
	Err         error

	// Call tracking
	FetchCallCount int
}

// Fetch returns the configured definitions or error.
func (m *DefinitionSource) Fetch(_ context.Context) (map[string]entities.RawReference, error) {
	m.FetchCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Definitions, nil
}

// Describe returns the configured location.
func (m *DefinitionSource) Describe() string {
	if m.Location == "" {
		return "mock"
	}
	return m.Location
}
