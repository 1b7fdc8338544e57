// Package memstore is an in-memory implementation of every repository and of
// tx.Manager. A transaction works on the live state and restores a snapshot
// taken at its start when fn fails. It backs service tests and the
// in-memory server mode.
package memstore

import (
	"context"
	"sync"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/documents/shipment"
	"storagemanager/internal/domain/registers/balance"
)

type state struct {
	resources     map[id.ID]resource.Resource
	measures      map[id.ID]measure.Measure
	clients       map[id.ID]client.Client
	receipts      map[id.ID]receipt.Receipt
	receiptLines  map[id.ID]entity.Line
	shipments     map[id.ID]shipment.Shipment
	shipmentLines map[id.ID]entity.Line
	balances      map[balance.Key]balance.Balance
}

func newState() state {
	return state{
		resources:     map[id.ID]resource.Resource{},
		measures:      map[id.ID]measure.Measure{},
		clients:       map[id.ID]client.Client{},
		receipts:      map[id.ID]receipt.Receipt{},
		receiptLines:  map[id.ID]entity.Line{},
		shipments:     map[id.ID]shipment.Shipment{},
		shipmentLines: map[id.ID]entity.Line{},
		balances:      map[balance.Key]balance.Balance{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// clone copies every table. Stored values hold no shared slices.
func (st state) clone() state {
	return state{
		resources:     cloneMap(st.resources),
		measures:      cloneMap(st.measures),
		clients:       cloneMap(st.clients),
		receipts:      cloneMap(st.receipts),
		receiptLines:  cloneMap(st.receiptLines),
		shipments:     cloneMap(st.shipments),
		shipmentLines: cloneMap(st.shipmentLines),
		balances:      cloneMap(st.balances),
	}
}

// Store holds all tables behind one lock.
type Store struct {
	mu    sync.Mutex
	state state
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// RunInTransaction implements tx.Manager. Transactions are serialized;
// nested calls join the outer one.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = backup
		return err
	}
	return nil
}

// with runs fn against the state, taking the lock unless ctx already holds it.
func (s *Store) with(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(&s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// Balances returns a copy of every balance row. Used by tests.
func (s *Store) Balances() map[balance.Key]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[balance.Key]int64, len(s.state.balances))
	for k, b := range s.state.balances {
		out[k] = b.Amount
	}
	return out
}
