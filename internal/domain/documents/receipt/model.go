// Package receipt provides the receipt document: stock arriving at the storage.
// Every line of an existing receipt is counted in the balance register.
package receipt

import (
	"time"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
)

const (
	// EntityName is used in errors and logs.
	EntityName = "ReceiptDocument"
	// LineEntityName names receipt lines in errors.
	LineEntityName = "ReceiptResource"
)

// Receipt is a receipt document with its lines.
type Receipt struct {
	entity.Document

	Lines []entity.Line `db:"-" json:"lines"`
}

// NewReceipt creates a receipt header with generated ID.
func NewReceipt(number string, date time.Time) *Receipt {
	return &Receipt{Document: entity.NewDocument(number, date)}
}

// CreateCommand is the input of Service.Create.
type CreateCommand struct {
	Number string
	Date   time.Time
	Lines  []documents.LineInput
}

// UpdateCommand is the input of Service.Update.
type UpdateCommand struct {
	ID     id.ID
	Number string
	Date   time.Time
	Lines  documents.LineChanges
}
