package receipt

import (
	"context"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
)

// Repository defines operations for receipt documents.
type Repository interface {
	// Header operations
	Create(ctx context.Context, doc *Receipt) error
	GetByID(ctx context.Context, docID id.ID) (*Receipt, error)
	ExistsByNumber(ctx context.Context, number string, excludeID id.ID) (bool, error)
	Update(ctx context.Context, doc *Receipt) error
	// Delete removes the document and, by cascade, its lines.
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docIDs ...id.ID) ([]entity.Line, error)
	InsertLines(ctx context.Context, lines []entity.Line) error
	UpdateLine(ctx context.Context, line entity.Line) error
	DeleteLines(ctx context.Context, lineIDs []id.ID) error

	// List operations
	List(ctx context.Context, filter documents.Filter) ([]*Receipt, error)
	ListNumbers(ctx context.Context) ([]string, error)

	// Usage checks for catalog deletion
	ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error)
	ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error)
}
