package shipment

import (
	"context"
	"fmt"
	"strings"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/internal/domain"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/registers/balance"
	"storagemanager/pkg/logger"
)

// Validator checks references of a shipment.
type Validator interface {
	documents.LineValidator
	ValidateClient(ctx context.Context, clientID id.ID) error
}

// Service provides business operations for shipment documents.
type Service struct {
	repo      Repository
	ledger    documents.Ledger
	validator Validator
	txManager tx.Manager
	log       *logger.Logger
	hooks     *domain.HookRegistry[*Shipment]
}

// NewService creates a new shipment service.
func NewService(
	repo Repository,
	ledger documents.Ledger,
	validator Validator,
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
		log:       log.WithComponent("shipment"),
		hooks:     domain.NewHookRegistry[*Shipment](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Shipment] {
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

// Create stores an unsigned shipment. It has no effect on the balance.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Shipment, error) {
	doc := NewShipment(cmd.Number, cmd.Date, cmd.ClientID)
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNumberFree(ctx, doc.Number, id.Nil()); err != nil {
			return err
		}
		if len(cmd.Lines) == 0 {
			return apperror.NewEmptyShipment(doc.Number)
		}
		if err := s.validator.ValidateClient(ctx, doc.ClientID); err != nil {
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

	s.log.WithContext(ctx).Infow("shipment created",
		"id", doc.ID,
		"number", doc.Number,
		"lines", len(doc.Lines))

	return doc, nil
}

// GetByID retrieves a shipment with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Shipment, error) {
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

// Update changes header, lines and signature state. The balance moves
// according to the transition between the stored and requested state:
//
//	signed   -> signed:   net line changes
//	unsigned -> signed:   net line changes plus every stored line consumed
//	signed   -> unsigned: every stored line returned, line changes ignored
//	unsigned -> unsigned: nothing
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Shipment, error) {
	var doc *Shipment
	var wasSigned bool

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		wasSigned = doc.Signed

		number := strings.TrimSpace(cmd.Number)
		if number != doc.Number {
			if err := s.ensureNumberFree(ctx, number, doc.ID); err != nil {
				return err
			}
		}
		doc.Number = number
		doc.Date = cmd.Date.UTC()
		doc.ClientID = cmd.ClientID
		if err := doc.Validate(ctx); err != nil {
			return err
		}
		if err := s.validator.ValidateClient(ctx, doc.ClientID); err != nil {
			return err
		}

		snapshot, err := s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		plan, err := documents.PlanLines(ctx, s.validator, LineEntityName, doc.ID, snapshot, cmd.Lines, documents.Outbound)
		if err != nil {
			return err
		}
		if plan.Count <= 0 {
			return apperror.NewEmptyShipment(doc.Number)
		}

		if err := s.applyLines(ctx, plan); err != nil {
			return err
		}

		if deltas := transitionDeltas(wasSigned, cmd.Signed, plan.Deltas, snapshot); len(deltas) > 0 {
			if _, err := s.ledger.ChangeBalanceBatch(ctx, deltas); err != nil {
				return err
			}
		}

		doc.Signed = cmd.Signed
		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		// Re-read so client name and lines reflect the stored state.
		doc, err = s.GetByID(ctx, doc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		s.log.WithContext(ctx).Warnw("after-update hook failed", "error", err)
	}

	s.log.WithContext(ctx).Infow("shipment updated",
		"id", doc.ID,
		"number", doc.Number,
		"was_signed", wasSigned,
		"signed", doc.Signed)
	return doc, nil
}

// transitionDeltas picks the ledger effect for a signature transition.
// changes are the already inverted line deltas, snapshot the lines before the update.
func transitionDeltas(wasSigned, willBeSigned bool, changes []balance.Delta, snapshot []entity.Line) []balance.Delta {
	switch {
	case wasSigned && willBeSigned:
		return changes
	case !wasSigned && willBeSigned:
		out := make([]balance.Delta, 0, len(changes)+len(snapshot))
		out = append(out, changes...)
		return append(out, documents.LineDeltas(snapshot, documents.Outbound)...)
	case wasSigned && !willBeSigned:
		return documents.LineDeltas(snapshot, documents.Inbound)
	default:
		return nil
	}
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

// Delete removes a shipment. A signed shipment returns its lines to the balance.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	var doc *Shipment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		if doc.Signed {
			for _, l := range doc.Lines {
				if err := s.ledger.Increase(ctx, l.ResourceID, l.MeasureID, l.Amount); err != nil {
					return err
				}
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

	s.log.WithContext(ctx).Infow("shipment deleted", "id", docID, "number", doc.Number, "signed", doc.Signed)
	return nil
}

// List retrieves shipments with lines, filtered.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Shipment, error) {
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

// ListNumbers returns all shipment numbers.
func (s *Service) ListNumbers(ctx context.Context) ([]string, error) {
	return s.repo.ListNumbers(ctx)
}
