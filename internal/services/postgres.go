package services

import (
	"storagemanager/internal/infrastructure/storage/postgres"
	"storagemanager/internal/infrastructure/storage/postgres/catalog_repo"
	"storagemanager/internal/infrastructure/storage/postgres/document_repo"
	"storagemanager/internal/infrastructure/storage/postgres/register_repo"
	"storagemanager/pkg/logger"
)

// NewPostgres wires services over PostgreSQL repositories sharing txm.
func NewPostgres(txm *postgres.TxManager, observer Observer, log *logger.Logger) *Services {
	return New(Repositories{
		Resources: catalog_repo.NewResourceRepo(txm),
		Measures:  catalog_repo.NewMeasureRepo(txm),
		Clients:   catalog_repo.NewClientRepo(txm),
		Receipts:  document_repo.NewReceiptRepo(txm),
		Shipments: document_repo.NewShipmentRepo(txm),
		Balances:  register_repo.NewBalanceRepo(txm),
	}, txm, observer, log)
}
