package measure

import (
	"storagemanager/internal/domain"
)

// Repository defines the interface for Measure persistence.
type Repository interface {
	domain.CatalogRepository[*Measure]
}
