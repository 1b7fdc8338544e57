// Package shipment provides the shipment document: stock leaving the storage
// for a client. Only signed shipments are counted in the balance register.
package shipment

import (
	"context"
	"time"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
)

const (
	// EntityName is used in errors and logs.
	EntityName = "ShipmentDocument"
	// LineEntityName names shipment lines in errors.
	LineEntityName = "ShipmentResource"
)

// Shipment is a shipment document with its lines.
type Shipment struct {
	entity.Document

	ClientID id.ID `db:"client_id" json:"clientId"`
	Signed   bool  `db:"signed" json:"signed"`

	// Filled by read queries only
	ClientName string `db:"client_name" json:"clientName"`

	Lines []entity.Line `db:"-" json:"lines"`
}

// NewShipment creates an unsigned shipment header with generated ID.
func NewShipment(number string, date time.Time, clientID id.ID) *Shipment {
	return &Shipment{
		Document: entity.NewDocument(number, date),
		ClientID: clientID,
	}
}

// Validate implements entity.Validatable interface.
func (s *Shipment) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(s.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	return nil
}

// ListFilter restricts shipment lists.
type ListFilter struct {
	documents.Filter

	// ClientIDs match shipments for any of the clients.
	ClientIDs []id.ID
}

// CreateCommand is the input of Service.Create. New shipments are unsigned.
type CreateCommand struct {
	Number   string
	Date     time.Time
	ClientID id.ID
	Lines    []documents.LineInput
}

// UpdateCommand is the input of Service.Update.
type UpdateCommand struct {
	ID       id.ID
	Number   string
	Date     time.Time
	ClientID id.ID
	Signed   bool
	Lines    documents.LineChanges
}
