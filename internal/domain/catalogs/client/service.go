package client

import (
	"context"
	"strings"

	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/pkg/logger"
)

// EntityName is used in errors and logs.
const EntityName = "Client"

// Service provides business logic for the Client catalog.
type Service struct {
	*domain.CatalogService[*Client]
}

// NewService creates a new Client service.
// inUse reports whether shipments reference a client.
func NewService(repo Repository, txm tx.Manager, inUse domain.InUseFunc, log *logger.Logger) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: EntityName,
			NameScope:  domain.NameUniqueGlobally,
			InUse:      inUse,
			Logger:     log,
		}),
	}
}

// Edit replaces name and address.
func (s *Service) Edit(ctx context.Context, clientID id.ID, name, address string) (*Client, error) {
	return s.Update(ctx, clientID, func(c *Client) error {
		c.SetName(name)
		c.Address = strings.TrimSpace(address)
		return nil
	})
}
