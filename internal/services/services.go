// Package services builds the domain services from a set of repositories.
// The router, the seed command and service tests share this wiring.
package services

import (
	"context"

	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/documents/shipment"
	"storagemanager/internal/domain/references"
	"storagemanager/internal/domain/registers/balance"
	"storagemanager/pkg/logger"
)

// Repositories is the storage backend for every service.
type Repositories struct {
	Resources resource.Repository
	Measures  measure.Repository
	Clients   client.Repository
	Receipts  receipt.Repository
	Shipments shipment.Repository
	Balances  balance.Repository
}

// Services holds the wired domain services.
type Services struct {
	Resources  *resource.Service
	Measures   *measure.Service
	Clients    *client.Service
	Receipts   *receipt.Service
	Shipments  *shipment.Service
	Balances   *balance.Service
	References *references.Validator
}

// Observer receives ledger outcomes and committed entity changes.
// Implemented by the metrics package.
type Observer interface {
	balance.Observer
	EntityChanged(entity, event string)
}

// New wires services over repos. observer may be nil.
func New(repos Repositories, txm tx.Manager, observer Observer, log *logger.Logger) *Services {
	ledger := balance.NewService(repos.Balances, observer, log)

	validator := references.NewValidator(references.Deps{
		Resources:    repos.Resources,
		Measures:     repos.Measures,
		Clients:      repos.Clients,
		ResourceRefs: []references.ResourceRef{ledger, repos.Receipts, repos.Shipments},
		MeasureRefs:  []references.MeasureRef{ledger, repos.Receipts, repos.Shipments},
		ClientRefs:   []references.ClientRef{repos.Shipments},
	})

	svc := &Services{
		Resources:  resource.NewService(repos.Resources, txm, validator.ResourceInUse, log),
		Measures:   measure.NewService(repos.Measures, txm, validator.MeasureInUse, log),
		Clients:    client.NewService(repos.Clients, txm, validator.ClientInUse, log),
		Receipts:   receipt.NewService(repos.Receipts, ledger, validator, txm, log),
		Shipments:  shipment.NewService(repos.Shipments, ledger, validator, txm, log),
		Balances:   ledger,
		References: validator,
	}

	if observer != nil {
		observeChanges(svc.Resources.Hooks(), resource.EntityName, observer)
		observeChanges(svc.Measures.Hooks(), measure.EntityName, observer)
		observeChanges(svc.Clients.Hooks(), client.EntityName, observer)
		observeChanges(svc.Receipts.Hooks(), receipt.EntityName, observer)
		observeChanges(svc.Shipments.Hooks(), shipment.EntityName, observer)
	}
	return svc
}

// observeChanges reports every committed create, update and delete of entity.
func observeChanges[T any](hooks *domain.HookRegistry[T], entity string, observer Observer) {
	for _, event := range []domain.HookEvent{domain.AfterCreate, domain.AfterUpdate, domain.AfterDelete} {
		hooks.On(event, func(context.Context, T) error {
			observer.EntityChanged(entity, string(event))
			return nil
		})
	}
}
