package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents/shipment"
	"storagemanager/internal/infrastructure/storage/postgres"
)

const clientsTable = "cat_clients"

var shipmentColumns = []string{"id", "created_at", "updated_at", "number", "date", "client_id", "signed"}

// ShipmentRepo implements shipment.Repository over doc_shipments.
type ShipmentRepo struct {
	*BaseDocumentRepo
}

// NewShipmentRepo creates a new shipment repository.
func NewShipmentRepo(txm *postgres.TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "doc_shipments", "doc_shipment_lines", shipment.EntityName, shipment.LineEntityName),
	}
}

// Create inserts the shipment header.
func (r *ShipmentRepo) Create(ctx context.Context, doc *shipment.Shipment) error {
	return r.insertHeader(ctx, doc, doc.ID, shipmentColumns)
}

// Update overwrites the shipment header, including the signed flag.
func (r *ShipmentRepo) Update(ctx context.Context, doc *shipment.Shipment) error {
	return r.updateHeader(ctx, doc, doc.ID, shipmentColumns)
}

func (r *ShipmentRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"d.id", "d.created_at", "d.updated_at", "d.number", "d.date",
			"d.client_id", "d.signed", "c.name AS client_name",
		).
		From(r.tableName + " d").
		Join(clientsTable + " c ON c.id = d.client_id")
}

// GetByID returns the shipment header with its client name.
func (r *ShipmentRepo) GetByID(ctx context.Context, docID id.ID) (*shipment.Shipment, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"d.id": docID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc shipment.Shipment
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(shipment.EntityName, "id", docID)
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &doc, nil
}

func (r *ShipmentRepo) listQuery(filter shipment.ListFilter) squirrel.SelectBuilder {
	q := r.applyFilter(r.baseSelect(), filter.Filter)
	if len(filter.ClientIDs) > 0 {
		q = q.Where(squirrel.Eq{"d.client_id": filter.ClientIDs})
	}
	return q.OrderBy("d.date ASC", "d.number ASC")
}

// List returns shipment headers matching filter ordered by date then number.
func (r *ShipmentRepo) List(ctx context.Context, filter shipment.ListFilter) ([]*shipment.Shipment, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*shipment.Shipment
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return docs, nil
}

// ReferencesClient reports whether any shipment is addressed to the client.
func (r *ShipmentRepo) ReferencesClient(ctx context.Context, clientID id.ID) (bool, error) {
	return r.exists(ctx, r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"client_id": clientID}).
		Limit(1))
}
