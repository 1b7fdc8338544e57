package entity

import (
	"context"
	"strings"
	"time"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
)

// Document is the base type for receipts and shipments.
type Document struct {
	BaseEntity

	// Number is unique within the document type
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(number string, date time.Time) Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		Number:     strings.TrimSpace(number),
		Date:       date.UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Number == "" {
		return apperror.NewValidation("number is required").
			WithDetail("field", "number")
	}
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// Line is one resource+measure+amount entry of a document.
type Line struct {
	ID         id.ID `db:"id" json:"id"`
	DocumentID id.ID `db:"document_id" json:"documentId"`
	ResourceID id.ID `db:"resource_id" json:"resourceId"`
	MeasureID  id.ID `db:"measure_id" json:"measureId"`
	Amount     int64 `db:"amount" json:"amount"`

	// Filled by read queries only
	ResourceName string `db:"resource_name" json:"resourceName"`
	MeasureName  string `db:"measure_name" json:"measureName"`
}

// NewLine creates a line owned by documentID.
func NewLine(documentID, resourceID, measureID id.ID, amount int64) Line {
	return Line{
		ID:         id.New(),
		DocumentID: documentID,
		ResourceID: resourceID,
		MeasureID:  measureID,
		Amount:     amount,
	}
}

// SameKey reports whether both lines point at the same resource and measure.
func (l Line) SameKey(resourceID, measureID id.ID) bool {
	return l.ResourceID == resourceID && l.MeasureID == measureID
}

// ValidateLineInput checks the shape of a line before any lookup.
func ValidateLineInput(resourceID, measureID id.ID, amount int64) error {
	if id.IsNil(resourceID) {
		return apperror.NewValidation("resource is required").WithDetail("field", "resourceId")
	}
	if id.IsNil(measureID) {
		return apperror.NewValidation("measure is required").WithDetail("field", "measureId")
	}
	if amount <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", amount)
	}
	return nil
}
