package documents

import (
	"context"

	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
)

// Ledger is the part of the balance register that documents write through.
type Ledger interface {
	Increase(ctx context.Context, resourceID, measureID id.ID, amount int64) error
	Reduce(ctx context.Context, resourceID, measureID id.ID, amount int64) error
	ChangeBalanceBatch(ctx context.Context, deltas []balance.Delta) (int, error)
}
