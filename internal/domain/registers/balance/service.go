package balance

import (
	"context"
	"fmt"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/pkg/logger"
)

// Observer receives ledger outcomes. Implemented by the metrics package.
type Observer interface {
	// BalanceChanged is called after a successful write. op is one of
	// "create", "increase", "reduce", "delete".
	BalanceChanged(op string)
	// BalanceRejected is called when a reduce is refused.
	BalanceRejected(code string)
}

type nopObserver struct{}

func (nopObserver) BalanceChanged(string)  {}
func (nopObserver) BalanceRejected(string) {}

// Service is the only writer of balance rows.
// Transactions are managed by the caller (document services).
type Service struct {
	repo     Repository
	observer Observer
	log      *logger.Logger
}

// NewService creates a new balance register service. observer and log may be nil.
func NewService(repo Repository, observer Observer, log *logger.Logger) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		observer: observer,
		log:      log.WithComponent("balance"),
	}
}

// Increase adds amount to the balance, creating the row if absent.
// A zero amount is a no-op so that no zero rows are ever written.
func (s *Service) Increase(ctx context.Context, resourceID, measureID id.ID, amount int64) error {
	if amount < 0 {
		return apperror.NewValidation("increase amount must not be negative").
			WithDetail("amount", amount)
	}
	if amount == 0 {
		return nil
	}

	key := Key{ResourceID: resourceID, MeasureID: measureID}
	current, found, err := s.repo.GetForUpdate(ctx, key)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	if !found {
		if err := s.repo.Insert(ctx, key, amount); err != nil {
			return fmt.Errorf("insert balance: %w", err)
		}
		s.observer.BalanceChanged("create")
		s.log.WithContext(ctx).Debugw("balance created",
			"resource_id", resourceID, "measure_id", measureID, "amount", amount)
		return nil
	}

	if err := s.repo.UpdateAmount(ctx, key, current.Amount+amount); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	s.observer.BalanceChanged("increase")
	s.log.WithContext(ctx).Debugw("balance increased",
		"resource_id", resourceID, "measure_id", measureID,
		"from", current.Amount, "to", current.Amount+amount)
	return nil
}

// Reduce subtracts amount from the balance. The row must exist and must not
// go below zero; a row that reaches zero is deleted.
func (s *Service) Reduce(ctx context.Context, resourceID, measureID id.ID, amount int64) error {
	if amount < 0 {
		return apperror.NewValidation("reduce amount must not be negative").
			WithDetail("amount", amount)
	}

	key := Key{ResourceID: resourceID, MeasureID: measureID}
	current, found, err := s.repo.GetForUpdate(ctx, key)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	if !found {
		s.observer.BalanceRejected(apperror.CodeBalanceNotFound)
		return apperror.NewBalanceNotFound(resourceID, measureID)
	}

	next := current.Amount - amount
	switch {
	case next < 0:
		s.observer.BalanceRejected(apperror.CodeNegativeBalance)
		return apperror.NewNegativeBalance(resourceID, measureID).
			WithDetail("available", current.Amount).
			WithDetail("requested", amount)

	case next == 0:
		if err := s.repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete balance: %w", err)
		}
		s.observer.BalanceChanged("delete")

	default:
		if err := s.repo.UpdateAmount(ctx, key, next); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		s.observer.BalanceChanged("reduce")
	}

	s.log.WithContext(ctx).Debugw("balance reduced",
		"resource_id", resourceID, "measure_id", measureID,
		"from", current.Amount, "to", next)
	return nil
}

// ChangeBalanceBatch nets deltas per key and applies each non-zero sum.
// It returns the number of keys touched. The first failure aborts the batch;
// the caller's transaction discards the writes already made.
func (s *Service) ChangeBalanceBatch(ctx context.Context, deltas []Delta) (int, error) {
	groups := Net(deltas)

	for _, g := range groups {
		var err error
		if g.Amount < 0 {
			err = s.Reduce(ctx, g.ResourceID, g.MeasureID, -g.Amount)
		} else {
			err = s.Increase(ctx, g.ResourceID, g.MeasureID, g.Amount)
		}
		if err != nil {
			return 0, err
		}
	}

	return len(groups), nil
}

// List returns balances matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]View, error) {
	return s.repo.List(ctx, filter)
}

// ReferencesResource reports whether any balance references the resource.
func (s *Service) ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return s.repo.ExistsByResource(ctx, resourceID)
}

// ReferencesMeasure reports whether any balance references the measure.
func (s *Service) ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return s.repo.ExistsByMeasure(ctx, measureID)
}
