package catalog_repo

import (
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/infrastructure/storage/postgres"
)

const resourceTable = "cat_resources"

// ResourceRepo implements resource.Repository.
type ResourceRepo struct {
	*BaseCatalogRepo[*resource.Resource]
}

// NewResourceRepo creates a new resource repository.
func NewResourceRepo(txm *postgres.TxManager) *ResourceRepo {
	return &ResourceRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			resourceTable,
			resource.EntityName,
			postgres.ExtractDBColumns[resource.Resource](),
			func() *resource.Resource { return &resource.Resource{} },
		),
	}
}
