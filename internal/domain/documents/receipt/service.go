package receipt

import (
	"context"
	"fmt"
	"strings"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/internal/domain/documents"
	"storagemanager/pkg/logger"
)

// Service provides business operations for receipt documents.
// Every write and its ledger effect run in one transaction.
type Service struct {
	repo      Repository
	ledger    documents.Ledger
	validator documents.LineValidator
	txManager tx.Manager
	log       *logger.Logger
	hooks     *domain.HookRegistry[*Receipt]
}

// NewService creates a new receipt service.
func NewService(
	repo Repository,
	ledger documents.Ledger,
	validator documents.LineValidator,
	txManager tx.Manager,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		validator: validator,
		txManager: txManager,
		log:       log.WithComponent("receipt"),
		hooks:     domain.NewHookRegistry[*Receipt](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Receipt] {
	return s.hooks
}

func (s *Service) ensureNumberFree(ctx context.Context, number string, excludeID id.ID) error {
	taken, err := s.repo.ExistsByNumber(ctx, number, excludeID)
	if err != nil {
		return fmt.Errorf("check number: %w", err)
	}
	if taken {
		return apperror.NewAlreadyExists(EntityName, "number", number)
	}
	return nil
}

// Create stores a receipt and adds every line to the balance.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Receipt, error) {
	doc := NewReceipt(cmd.Number, cmd.Date)
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNumberFree(ctx, doc.Number, id.Nil()); err != nil {
			return err
		}
		if err := documents.ValidateLines(ctx, s.validator, cmd.Lines); err != nil {
			return err
		}

		doc.Lines = documents.NewLines(doc.ID, cmd.Lines)

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.InsertLines(ctx, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		for _, l := range doc.Lines {
			if err := s.ledger.Increase(ctx, l.ResourceID, l.MeasureID, l.Amount); err != nil {
				return err
			}
		}

		stored, err := s.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		doc = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		s.log.WithContext(ctx).Warnw("after-create hook failed", "error", err)
	}

	s.log.WithContext(ctx).Infow("receipt created",
		"id", doc.ID,
		"number", doc.Number,
		"lines", len(doc.Lines))

	return doc, nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update changes header and lines, moving the balance by the net difference.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Receipt, error) {
	var doc *Receipt

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, cmd.ID)
		if err != nil {
			return err
		}

		number := strings.TrimSpace(cmd.Number)
		if number != doc.Number {
			if err := s.ensureNumberFree(ctx, number, doc.ID); err != nil {
				return err
			}
		}
		doc.Number = number
		doc.Date = cmd.Date.UTC()
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		existing, err := s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		plan, err := documents.PlanLines(ctx, s.validator, LineEntityName, doc.ID, existing, cmd.Lines, documents.Inbound)
		if err != nil {
			return err
		}

		if err := s.applyLines(ctx, plan); err != nil {
			return err
		}
		if _, err := s.ledger.ChangeBalanceBatch(ctx, plan.Deltas); err != nil {
			return err
		}

		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		doc.Lines, err = s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		s.log.WithContext(ctx).Warnw("after-update hook failed", "error", err)
	}

	s.log.WithContext(ctx).Infow("receipt updated", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

func (s *Service) applyLines(ctx context.Context, plan documents.LinePlan) error {
	if err := s.repo.InsertLines(ctx, plan.Create); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	for _, l := range plan.Update {
		if err := s.repo.UpdateLine(ctx, l); err != nil {
			return fmt.Errorf("update line: %w", err)
		}
	}
	if err := s.repo.DeleteLines(ctx, plan.Delete); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

// Delete removes a receipt and takes its lines back out of the balance.
// Fails when the stock has already been shipped.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	var doc *Receipt

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		for _, l := range doc.Lines {
			if err := s.ledger.Reduce(ctx, l.ResourceID, l.MeasureID, l.Amount); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterDelete, doc); err != nil {
		s.log.WithContext(ctx).Warnw("after-delete hook failed", "error", err)
	}

	s.log.WithContext(ctx).Infow("receipt deleted", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves receipts with lines, filtered.
func (s *Service) List(ctx context.Context, filter documents.Filter) ([]*Receipt, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	ids := make([]id.ID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	lines, err := s.repo.GetLines(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	grouped := documents.GroupLines(lines)
	for _, d := range docs {
		d.Lines = grouped[d.ID]
	}
	return docs, nil
}

// ListNumbers returns all receipt numbers.
func (s *Service) ListNumbers(ctx context.Context) ([]string, error) {
	return s.repo.ListNumbers(ctx)
}
