// Package document_repo provides PostgreSQL implementations for document repositories.
// Every document type keeps its header and its lines in two tables; lines
// are removed by ON DELETE CASCADE.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/infrastructure/storage/postgres"
)

const (
	resourcesTable = "cat_resources"
	measuresTable  = "cat_measures"
)

var lineColumns = []string{"id", "document_id", "resource_id", "measure_id", "amount"}

// BaseDocumentRepo holds the header and line operations shared by document types.
type BaseDocumentRepo struct {
	txm        *postgres.TxManager
	tableName  string
	linesTable string
	entityName string
	lineEntity string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo(txm *postgres.TxManager, tableName, linesTable, entityName, lineEntity string) *BaseDocumentRepo {
	return &BaseDocumentRepo{
		txm:        txm,
		tableName:  tableName,
		linesTable: linesTable,
		entityName: entityName,
		lineEntity: lineEntity,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseDocumentRepo) exec(ctx context.Context, q squirrel.Sqlizer, entityID any, op string) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, r.entityName, entityID, op)
	}
	return tag.RowsAffected(), nil
}

func (r *BaseDocumentRepo) exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.tableName, err)
	}
	return true, nil
}

// insertHeader inserts the header columns listed in cols.
func (r *BaseDocumentRepo) insertHeader(ctx context.Context, doc any, docID id.ID, cols []string) error {
	data := postgres.StructToMap(doc)
	values := make(map[string]any, len(cols))
	for _, col := range cols {
		values[col] = data[col]
	}
	_, err := r.exec(ctx, r.Builder().Insert(r.tableName).SetMap(values), docID, "insert")
	return err
}

func (r *BaseDocumentRepo) updateHeaderQuery(doc any, docID id.ID, cols []string) squirrel.UpdateBuilder {
	data := postgres.StructToMap(doc)
	values := make(map[string]any, len(cols))
	for _, col := range cols {
		if col == "id" || col == "created_at" {
			continue
		}
		values[col] = data[col]
	}
	return r.Builder().
		Update(r.tableName).
		SetMap(values).
		Where(squirrel.Eq{"id": docID})
}

// updateHeader overwrites the mutable header columns listed in cols.
func (r *BaseDocumentRepo) updateHeader(ctx context.Context, doc any, docID id.ID, cols []string) error {
	n, err := r.exec(ctx, r.updateHeaderQuery(doc, docID, cols), docID, "update")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(r.entityName, "id", docID)
	}
	return nil
}

// ExistsByNumber checks whether another document carries number.
func (r *BaseDocumentRepo) ExistsByNumber(ctx context.Context, number string, excludeID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"number": number})
	if !id.IsNil(excludeID) {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	return r.exists(ctx, q.Limit(1))
}

// Delete removes the document; its lines go by cascade.
func (r *BaseDocumentRepo) Delete(ctx context.Context, docID id.ID) error {
	n, err := r.exec(ctx, r.Builder().Delete(r.tableName).Where(squirrel.Eq{"id": docID}), docID, "delete")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(r.entityName, "id", docID)
	}
	return nil
}

// ListNumbers returns every document number in ascending order.
func (r *BaseDocumentRepo) ListNumbers(ctx context.Context) ([]string, error) {
	sql, args, err := r.Builder().
		Select("number").
		From(r.tableName).
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var numbers []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &numbers, sql, args...); err != nil {
		return nil, fmt.Errorf("list numbers: %w", err)
	}
	return numbers, nil
}

func (r *BaseDocumentRepo) linesQuery(docIDs []id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"l.id", "l.document_id", "l.resource_id", "l.measure_id", "l.amount",
			"r.name AS resource_name", "m.name AS measure_name",
		).
		From(r.linesTable + " l").
		Join(resourcesTable + " r ON r.id = l.resource_id").
		Join(measuresTable + " m ON m.id = l.measure_id").
		Where(squirrel.Eq{"l.document_id": docIDs}).
		OrderBy("l.id")
}

// GetLines returns the lines of the given documents with resource and measure names.
func (r *BaseDocumentRepo) GetLines(ctx context.Context, docIDs ...id.ID) ([]entity.Line, error) {
	if len(docIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.linesQuery(docIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []entity.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// InsertLines stores new lines. Inside a transaction it uses COPY.
func (r *BaseDocumentRepo) InsertLines(ctx context.Context, lines []entity.Line) error {
	if len(lines) == 0 {
		return nil
	}

	if r.txm.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []any{l.ID, l.DocumentID, l.ResourceID, l.MeasureID, l.Amount})
		}
		if _, err := postgres.NewBatchInserter(r.txm).CopyFromSlice(ctx, r.linesTable, lineColumns, rows); err != nil {
			return postgres.MapError(err, r.lineEntity, lines[0].DocumentID, "copy")
		}
		return nil
	}

	_, err := r.exec(ctx, r.insertLinesQuery(lines), lines[0].DocumentID, "insert lines")
	return err
}

func (r *BaseDocumentRepo) insertLinesQuery(lines []entity.Line) squirrel.InsertBuilder {
	q := r.Builder().Insert(r.linesTable).Columns(lineColumns...)
	for _, l := range lines {
		q = q.Values(l.ID, l.DocumentID, l.ResourceID, l.MeasureID, l.Amount)
	}
	return q
}

// UpdateLine replaces key and amount of a line.
func (r *BaseDocumentRepo) UpdateLine(ctx context.Context, line entity.Line) error {
	q := r.Builder().
		Update(r.linesTable).
		Set("resource_id", line.ResourceID).
		Set("measure_id", line.MeasureID).
		Set("amount", line.Amount).
		Where(squirrel.Eq{"id": line.ID})

	n, err := r.exec(ctx, q, line.ID, "update line")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound(r.lineEntity, "id", line.ID)
	}
	return nil
}

// DeleteLines removes lines by ID.
func (r *BaseDocumentRepo) DeleteLines(ctx context.Context, lineIDs []id.ID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	_, err := r.exec(ctx, r.Builder().Delete(r.linesTable).Where(squirrel.Eq{"id": lineIDs}), lineIDs, "delete lines")
	return err
}

func (r *BaseDocumentRepo) referencesQuery(column string, refID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("1").
		From(r.linesTable).
		Where(squirrel.Eq{column: refID}).
		Limit(1)
}

// ReferencesResource reports whether any line uses the resource.
func (r *BaseDocumentRepo) ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return r.exists(ctx, r.referencesQuery("resource_id", resourceID))
}

// ReferencesMeasure reports whether any line uses the measure.
func (r *BaseDocumentRepo) ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return r.exists(ctx, r.referencesQuery("measure_id", measureID))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyFilter adds the shared document filter to a query over the header alias d.
// Resource and measure filters match documents having at least one such line.
func (r *BaseDocumentRepo) applyFilter(q squirrel.SelectBuilder, f documents.Filter) squirrel.SelectBuilder {
	if len(f.Numbers) > 0 {
		or := make(squirrel.Or, 0, len(f.Numbers))
		for _, n := range f.Numbers {
			or = append(or, squirrel.Like{"d.number": "%" + likeEscaper.Replace(n) + "%"})
		}
		q = q.Where(or)
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"d.date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"d.date": *f.To})
	}
	if len(f.ResourceIDs) > 0 {
		q = q.Where(r.lineExists("resource_id", f.ResourceIDs))
	}
	if len(f.MeasureIDs) > 0 {
		q = q.Where(r.lineExists("measure_id", f.MeasureIDs))
	}
	return q
}

func (r *BaseDocumentRepo) lineExists(column string, ids []id.ID) squirrel.Sqlizer {
	sub := squirrel.Select("1").
		From(r.linesTable + " dl").
		Where("dl.document_id = d.id").
		Where(squirrel.Eq{"dl." + column: ids})
	return squirrel.Expr("EXISTS (?)", sub)
}
