package mocks

import (
	"context"
	"slices"
	"strings"

	"github.com/ersonp/entref/internal/domain/entities"
)

// BuildHistory is a mock implementation of ports.BuildHistory.
type BuildHistory struct {
	Builds []entities.Build
	Err    error

	EnsureSchemaCallCount int
}

// EnsureSchema returns the configured error.
func (m *BuildHistory) EnsureSchema(_ context.Context) error {
	m.EnsureSchemaCallCount++
	return m.Err
}

// SaveBuild appends the build.
func (m *BuildHistory) SaveBuild(_ context.Context, build *entities.Build) error {
	if m.Err != nil {
		return m.Err
	}
	m.Builds = append(m.Builds, *build)
	return nil
}

// FindBuild returns the first build whose ID starts with id.
func (m *BuildHistory) FindBuild(_ context.Context, id string) (*entities.Build, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Builds {
		if strings.HasPrefix(m.Builds[i].ID, id) {
			b := m.Builds[i]
			return &b, nil
		}
	}
	return nil, nil
}

// LatestBuild returns the last saved build for outputDir.
func (m *BuildHistory) LatestBuild(_ context.Context, outputDir string) (*entities.Build, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := len(m.Builds) - 1; i >= 0; i-- {
		if m.Builds[i].OutputDir == outputDir {
			b := m.Builds[i]
			return &b, nil
		}
	}
	return nil, nil
}

// CountBuilds returns the number of saved builds.
func (m *BuildHistory) CountBuilds(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Builds), nil
}

// ListBuilds returns saved builds, newest first.
func (m *BuildHistory) ListBuilds(_ context.Context, limit int) ([]entities.Build, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := slices.Clone(m.Builds)
	slices.Reverse(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close does nothing.
func (m *BuildHistory) Close() error {
	return nil
}
