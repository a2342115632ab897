package potential

import (
	"context"

	"github.com/google/uuid"

	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// Repository defines the persistence contract for PotentialFile aggregates.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Save persists a new potential.  The (name, functional, version)
	// uniqueness check is the ingest service's responsibility; Save itself
	// returns errors.CodeConflict when the database rejects a duplicate.
	Save(ctx context.Context, pf *PotentialFile) error

	// FindByID retrieves a potential by its unique identifier.
	// Returns errors.CodePotentialNotFound if no such potential exists.
	FindByID(ctx context.Context, id uuid.UUID) (*PotentialFile, error)

	// FindByTags retrieves every potential matching the given filter.
	// Any subset of the filter fields may be set; an entirely empty filter
	// is rejected with errors.CodeCatalogEmptyFilter.  A query that matches
	// nothing returns an empty slice, not an error.
	FindByTags(ctx context.Context, filter pottypes.TagFilter) ([]*PotentialFile, error)

	// Count returns the total number of catalogued potentials.
	Count(ctx context.Context) (int64, error)
}
