package domain

import (
	"context"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
)

// CatalogEntity is the behaviour shared by resources, measures and clients.
type CatalogEntity interface {
	entity.Validatable
	GetID() id.ID
	GetName() string
	IsArchived() bool
	ToggleArchived()
	Touch()
}

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T CatalogEntity] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID. Returns a NotFound AppError when missing.
	GetByID(ctx context.Context, id id.ID) (T, error)

	// Update overwrites name, archive state and the entity's own columns
	Update(ctx context.Context, entity T) error

	// Delete physically removes the row
	Delete(ctx context.Context, id id.ID) error

	// ListByArchived returns entities with the given archive state, ordered by name
	ListByArchived(ctx context.Context, archived bool) ([]T, error)

	// Exists checks if entity with given ID exists, archived or not
	Exists(ctx context.Context, id id.ID) (bool, error)

	// ExistsByName checks if another entity (other than excludeID) carries name.
	// activeOnly limits the check to non-archived rows.
	ExistsByName(ctx context.Context, name string, excludeID id.ID, activeOnly bool) (bool, error)
}
