package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
)

// BalanceRepo is an in-memory balance.Repository.
type BalanceRepo struct {
	store *Store
}

// NewBalanceRepo creates an in-memory balance repository.
func NewBalanceRepo(s *Store) *BalanceRepo {
	return &BalanceRepo{store: s}
}

func (r *BalanceRepo) GetForUpdate(ctx context.Context, key balance.Key) (balance.Balance, bool, error) {
	var (
		b  balance.Balance
		ok bool
	)
	err := r.store.with(ctx, func(st *state) error {
		b, ok = st.balances[key]
		return nil
	})
	return b, ok, err
}

func (r *BalanceRepo) Insert(ctx context.Context, key balance.Key, amount int64) error {
	return r.store.with(ctx, func(st *state) error {
		b := st.balances[key]
		b.ResourceID, b.MeasureID = key.ResourceID, key.MeasureID
		b.Amount += amount
		b.UpdatedAt = time.Now().UTC()
		st.balances[key] = b
		return nil
	})
}

func (r *BalanceRepo) UpdateAmount(ctx context.Context, key balance.Key, amount int64) error {
	return r.store.with(ctx, func(st *state) error {
		b, ok := st.balances[key]
		if !ok {
			return apperror.NewBalanceNotFound(key.ResourceID, key.MeasureID)
		}
		b.Amount = amount
		b.UpdatedAt = time.Now().UTC()
		st.balances[key] = b
		return nil
	})
}

func (r *BalanceRepo) Delete(ctx context.Context, key balance.Key) error {
	return r.store.with(ctx, func(st *state) error {
		delete(st.balances, key)
		return nil
	})
}

func (r *BalanceRepo) List(ctx context.Context, filter balance.Filter) ([]balance.View, error) {
	var out []balance.View
	err := r.store.with(ctx, func(st *state) error {
		for _, b := range st.balances {
			if len(filter.ResourceIDs) > 0 && !slices.Contains(filter.ResourceIDs, b.ResourceID) {
				continue
			}
			if len(filter.MeasureIDs) > 0 && !slices.Contains(filter.MeasureIDs, b.MeasureID) {
				continue
			}
			res := st.resources[b.ResourceID]
			meas := st.measures[b.MeasureID]
			out = append(out, balance.View{
				Balance:      b,
				ResourceName: res.Name,
				MeasureName:  meas.Name,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResourceName != out[j].ResourceName {
			return out[i].ResourceName < out[j].ResourceName
		}
		return out[i].MeasureName < out[j].MeasureName
	})
	return out, err
}

func (r *BalanceRepo) ExistsByResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return r.exists(ctx, func(k balance.Key) bool { return k.ResourceID == resourceID })
}

func (r *BalanceRepo) ExistsByMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return r.exists(ctx, func(k balance.Key) bool { return k.MeasureID == measureID })
}

func (r *BalanceRepo) exists(ctx context.Context, match func(balance.Key) bool) (bool, error) {
	var found bool
	err := r.store.with(ctx, func(st *state) error {
		for k := range st.balances {
			if match(k) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
