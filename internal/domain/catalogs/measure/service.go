package measure

import (
	"context"

	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/pkg/logger"
)

// EntityName is used in errors and logs.
const EntityName = "Measure"

// Service provides business logic for the Measure catalog.
type Service struct {
	*domain.CatalogService[*Measure]
}

// NewService creates a new Measure service.
func NewService(repo Repository, txm tx.Manager, inUse domain.InUseFunc, log *logger.Logger) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Measure]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: EntityName,
			NameScope:  domain.NameUniqueGlobally,
			InUse:      inUse,
			Logger:     log,
		}),
	}
}

// Rename changes the measure name.
func (s *Service) Rename(ctx context.Context, measureID id.ID, name string) (*Measure, error) {
	return s.Update(ctx, measureID, func(m *Measure) error {
		m.SetName(name)
		return nil
	})
}
