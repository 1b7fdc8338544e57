// Package documents holds the line-change planning and filters shared by
// receipt and shipment documents.
package documents

import (
	"context"
	"fmt"
	"time"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
)

// Sign is the direction in which a document's lines move stock.
type Sign int64

const (
	// Inbound lines add stock (receipts).
	Inbound Sign = 1
	// Outbound lines consume stock (signed shipments).
	Outbound Sign = -1
)

// LineValidator checks that a line's resource and measure exist.
type LineValidator interface {
	ValidateLine(ctx context.Context, resourceID, measureID id.ID) error
}

// LineInput describes a new line.
type LineInput struct {
	ResourceID id.ID
	MeasureID  id.ID
	Amount     int64
}

// LineUpdate replaces key and amount of an existing line.
type LineUpdate struct {
	ID         id.ID
	ResourceID id.ID
	MeasureID  id.ID
	Amount     int64
}

// LineChanges is the line part of an update command.
type LineChanges struct {
	Create []LineInput
	Update []LineUpdate
	Delete []id.ID
}

// IsEmpty reports whether no line is touched.
func (c LineChanges) IsEmpty() bool {
	return len(c.Create) == 0 && len(c.Update) == 0 && len(c.Delete) == 0
}

// LinePlan is the validated result of applying LineChanges to a document.
type LinePlan struct {
	Create []entity.Line
	Update []entity.Line
	Delete []id.ID

	// Deltas is the ledger effect of the changes, already signed.
	Deltas []balance.Delta

	// Count is the number of lines the document will have afterwards.
	Count int
}

// ValidateLines checks shape and references of new lines, in order.
func ValidateLines(ctx context.Context, v LineValidator, lines []LineInput) error {
	for i, l := range lines {
		if err := entity.ValidateLineInput(l.ResourceID, l.MeasureID, l.Amount); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("line", i)
			}
			return err
		}
		if err := v.ValidateLine(ctx, l.ResourceID, l.MeasureID); err != nil {
			return err
		}
	}
	return nil
}

// NewLines builds line entities owned by documentID.
func NewLines(documentID id.ID, inputs []LineInput) []entity.Line {
	lines := make([]entity.Line, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, entity.NewLine(documentID, in.ResourceID, in.MeasureID, in.Amount))
	}
	return lines
}

// PlanLines validates changes against the existing lines of documentID and
// computes the resulting ledger deltas. Nothing is written.
//
// For Inbound: a created line adds +A, an update on the same key adds new-old,
// an update that moves the key adds -old on the old key and +new on the new one,
// a deleted line adds -A. Outbound negates every delta.
func PlanLines(
	ctx context.Context,
	v LineValidator,
	lineEntity string,
	documentID id.ID,
	existing []entity.Line,
	changes LineChanges,
	sign Sign,
) (LinePlan, error) {
	byID := make(map[id.ID]entity.Line, len(existing))
	for _, l := range existing {
		byID[l.ID] = l
	}

	plan := LinePlan{
		Count: len(existing) + len(changes.Create) - len(changes.Delete),
	}
	s := int64(sign)

	if err := ValidateLines(ctx, v, changes.Create); err != nil {
		return LinePlan{}, err
	}
	plan.Create = NewLines(documentID, changes.Create)
	for _, l := range plan.Create {
		plan.Deltas = append(plan.Deltas, balance.NewDelta(l.ResourceID, l.MeasureID, s*l.Amount))
	}

	touched := make(map[id.ID]struct{}, len(changes.Update)+len(changes.Delete))
	claim := func(lineID id.ID) (entity.Line, error) {
		old, ok := byID[lineID]
		if !ok {
			return entity.Line{}, apperror.NewNotFound(lineEntity, "id", lineID)
		}
		if _, dup := touched[lineID]; dup {
			return entity.Line{}, apperror.NewValidation(fmt.Sprintf("line %s is changed more than once", lineID)).
				WithDetail("lineId", lineID)
		}
		touched[lineID] = struct{}{}
		return old, nil
	}

	for _, u := range changes.Update {
		old, err := claim(u.ID)
		if err != nil {
			return LinePlan{}, err
		}
		if err := entity.ValidateLineInput(u.ResourceID, u.MeasureID, u.Amount); err != nil {
			return LinePlan{}, err
		}

		if old.SameKey(u.ResourceID, u.MeasureID) {
			plan.Deltas = append(plan.Deltas, balance.NewDelta(old.ResourceID, old.MeasureID, s*(u.Amount-old.Amount)))
		} else {
			if err := v.ValidateLine(ctx, u.ResourceID, u.MeasureID); err != nil {
				return LinePlan{}, err
			}
			plan.Deltas = append(plan.Deltas,
				balance.NewDelta(old.ResourceID, old.MeasureID, -s*old.Amount),
				balance.NewDelta(u.ResourceID, u.MeasureID, s*u.Amount),
			)
		}

		updated := old
		updated.ResourceID = u.ResourceID
		updated.MeasureID = u.MeasureID
		updated.Amount = u.Amount
		plan.Update = append(plan.Update, updated)
	}

	for _, lineID := range changes.Delete {
		old, err := claim(lineID)
		if err != nil {
			return LinePlan{}, err
		}
		plan.Deltas = append(plan.Deltas, balance.NewDelta(old.ResourceID, old.MeasureID, -s*old.Amount))
		plan.Delete = append(plan.Delete, lineID)
	}

	return plan, nil
}

// LineDeltas returns one delta per line, multiplied by sign.
func LineDeltas(lines []entity.Line, sign Sign) []balance.Delta {
	deltas := make([]balance.Delta, 0, len(lines))
	for _, l := range lines {
		deltas = append(deltas, balance.NewDelta(l.ResourceID, l.MeasureID, int64(sign)*l.Amount))
	}
	return deltas
}

// Filter restricts document lists.
type Filter struct {
	// Numbers match by substring; any of them may match.
	Numbers []string
	// ResourceIDs match documents with at least one line on any of them.
	ResourceIDs []id.ID
	// MeasureIDs match documents with at least one line on any of them.
	MeasureIDs []id.ID
	// From and To bound the document date, inclusive.
	From *time.Time
	To   *time.Time
}

// GroupLines indexes lines by document.
func GroupLines(lines []entity.Line) map[id.ID][]entity.Line {
	out := make(map[id.ID][]entity.Line)
	for _, l := range lines {
		out[l.DocumentID] = append(out[l.DocumentID], l)
	}
	return out
}
