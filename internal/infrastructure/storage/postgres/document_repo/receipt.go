package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/infrastructure/storage/postgres"
)

var receiptColumns = []string{"id", "created_at", "updated_at", "number", "date"}

// ReceiptRepo implements receipt.Repository over doc_receipts.
type ReceiptRepo struct {
	*BaseDocumentRepo
}

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txm *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "doc_receipts", "doc_receipt_lines", receipt.EntityName, receipt.LineEntityName),
	}
}

// Create inserts the receipt header.
func (r *ReceiptRepo) Create(ctx context.Context, doc *receipt.Receipt) error {
	return r.insertHeader(ctx, doc, doc.ID, receiptColumns)
}

// Update overwrites the receipt header.
func (r *ReceiptRepo) Update(ctx context.Context, doc *receipt.Receipt) error {
	return r.updateHeader(ctx, doc, doc.ID, receiptColumns)
}

func (r *ReceiptRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select("d.id", "d.created_at", "d.updated_at", "d.number", "d.date").
		From(r.tableName + " d")
}

// GetByID returns the receipt header without lines.
func (r *ReceiptRepo) GetByID(ctx context.Context, docID id.ID) (*receipt.Receipt, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"d.id": docID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc receipt.Receipt
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(receipt.EntityName, "id", docID)
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return &doc, nil
}

func (r *ReceiptRepo) listQuery(filter documents.Filter) squirrel.SelectBuilder {
	return r.applyFilter(r.baseSelect(), filter).OrderBy("d.date ASC", "d.number ASC")
}

// List returns receipt headers matching filter ordered by date then number.
func (r *ReceiptRepo) List(ctx context.Context, filter documents.Filter) ([]*receipt.Receipt, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*receipt.Receipt
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return docs, nil
}
