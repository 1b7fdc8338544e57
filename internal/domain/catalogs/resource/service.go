package resource

import (
	"context"

	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/pkg/logger"
)

// EntityName is used in errors and logs.
const EntityName = "Resource"

// Service provides business logic for the Resource catalog.
type Service struct {
	*domain.CatalogService[*Resource]
}

// NewService creates a new Resource service.
// inUse reports whether balances or document lines reference a resource.
func NewService(repo Repository, txm tx.Manager, inUse domain.InUseFunc, log *logger.Logger) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Resource]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: EntityName,
			NameScope:  domain.NameUniqueAmongActive,
			InUse:      inUse,
			Logger:     log,
		}),
	}
}

// Rename changes the resource name.
func (s *Service) Rename(ctx context.Context, resourceID id.ID, name string) (*Resource, error) {
	return s.Update(ctx, resourceID, func(r *Resource) error {
		r.SetName(name)
		return nil
	})
}
