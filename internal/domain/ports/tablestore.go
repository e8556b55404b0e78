package ports

import (
	"context"

	"github.com/ersonp/entref/internal/domain/entities"
)

// TableStore persists compiled tables.
type TableStore interface {
	// Save writes both tables. An encoding or write failure leaves the
	// previous artifacts untouched; the tables are then swapped in one
	// rename each, full first, so a failed second rename can leave a new
	// full table next to an old base table.
	Save(ctx context.Context, tables *entities.Tables) ([]entities.Artifact, error)

	// Load reads both tables back in name order.
	Load(ctx context.Context) (*entities.Tables, error)

	// DigestFile returns the digest of the artifact currently stored for group.
	DigestFile(group entities.Group) (string, error)

	// Dir returns the directory the artifacts live in.
	Dir() string
}
