package mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/entref/internal/domain/entities"
)

// TableStore is a mock implementation of ports.TableStore.
type TableStore struct {
	Tables    *entities.Tables
	Artifacts []entities.Artifact
	SaveErr   error
	LoadErr   error
	Digests   map[entities.Group]string
	Location  string

	// Call tracking
	SaveCallCount int
}

// Save records the tables and returns the configured artifacts.
func (m *TableStore) Save(_ context.Context, tables *entities.Tables) ([]entities.Artifact, error) {
	m.SaveCallCount++
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	m.Tables = tables
	return m.Artifacts, nil
}

// Load returns the last saved or configured tables.
func (m *TableStore) Load(_ context.Context) (*entities.Tables, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Tables == nil {
		return nil, errors.New("no tables saved")
	}
	return m.Tables, nil
}

// DigestFile returns the configured digest for group.
func (m *TableStore) DigestFile(group entities.Group) (string, error) {
	digest, ok := m.Digests[group]
	if !ok {
		return "", fmt.Errorf("no %s table saved", group)
	}
	return digest, nil
}

// Dir returns the configured location.
func (m *TableStore) Dir() string {
	return m.Location
}
