package services

import (
	"storagemanager/internal/domain/memstore"
	"storagemanager/pkg/logger"
)

// NewInMemory wires services over a fresh in-memory store.
func NewInMemory(observer Observer, log *logger.Logger) (*Services, *memstore.Store) {
	store := memstore.New()
	return New(Repositories{
		Resources: memstore.NewResourceRepo(store),
		Measures:  memstore.NewMeasureRepo(store),
		Clients:   memstore.NewClientRepo(store),
		Receipts:  memstore.NewReceiptRepo(store),
		Shipments: memstore.NewShipmentRepo(store),
		Balances:  memstore.NewBalanceRepo(store),
	}, store, observer, log), store
}
