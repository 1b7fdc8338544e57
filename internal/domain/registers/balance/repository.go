package balance

import (
	"context"

	"storagemanager/internal/core/id"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=balance

// Repository defines storage operations for the balance register.
// All mutating calls are expected to run inside a transaction.
type Repository interface {
	// GetForUpdate returns the row for key with a row lock held until commit.
	// found is false when no row exists.
	GetForUpdate(ctx context.Context, key Key) (b Balance, found bool, err error)

	// Insert creates a row. A row inserted concurrently for the same key is
	// merged by adding amount to it.
	Insert(ctx context.Context, key Key, amount int64) error

	// UpdateAmount overwrites the amount of an existing row.
	UpdateAmount(ctx context.Context, key Key, amount int64) error

	// Delete removes the row for key.
	Delete(ctx context.Context, key Key) error

	// List returns rows joined with resource and measure names.
	List(ctx context.Context, filter Filter) ([]View, error)

	// ExistsByResource reports whether any row references the resource.
	ExistsByResource(ctx context.Context, resourceID id.ID) (bool, error)

	// ExistsByMeasure reports whether any row references the measure.
	ExistsByMeasure(ctx context.Context, measureID id.ID) (bool, error)
}
