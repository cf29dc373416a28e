package storage

import (
	"context"

	"txnsense/pkg/models"
)

// Store is the persistence collaborator. Insert is called exactly once per processed
// message; a duplicate ID fails with apperrors.ErrConflict.
type Store interface {
	Insert(ctx context.Context, tx models.NormalizedTransaction) error
}
