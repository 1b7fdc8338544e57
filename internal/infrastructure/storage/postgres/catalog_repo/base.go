// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain"
	"storagemanager/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T domain.CatalogEntity] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T domain.CatalogEntity](
	txm *postgres.TxManager,
	tableName string,
	entityName string,
	selectCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// columnValues maps entity fields onto the table columns.
func (r *BaseCatalogRepo[T]) columnValues(entity T, skip ...string) map[string]any {
	data := postgres.StructToMap(entity)
	out := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if slices.Contains(skip, col) {
			continue
		}
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out
}

func (r *BaseCatalogRepo[T]) insertQuery(entity T) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.tableName).
		SetMap(r.columnValues(entity))
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	sql, args, err := r.insertQuery(entity).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, r.entityName, entity.GetID(), "insert")
	}
	return nil
}

func (r *BaseCatalogRepo[T]) updateQuery(entity T) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		SetMap(r.columnValues(entity, "id", "created_at")).
		Where(squirrel.Eq{"id": entity.GetID()})
}

// Update overwrites every mutable column.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	sql, args, err := r.updateQuery(entity).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, r.entityName, entity.GetID(), "update")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, "id", entity.GetID())
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, "id", entityID)
		}
		return entity, fmt.Errorf("get by id: %w", err)
	}
	return entity, nil
}

func (r *BaseCatalogRepo[T]) listQuery(archived bool) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"archived": archived}).
		OrderBy("name ASC")
}

// ListByArchived returns entities in the given archive state ordered by name.
func (r *BaseCatalogRepo[T]) ListByArchived(ctx context.Context, archived bool) ([]T, error) {
	sql, args, err := r.listQuery(archived).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.exists(ctx, r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1))
}

func (r *BaseCatalogRepo[T]) existsByNameQuery(name string, excludeID id.ID, activeOnly bool) squirrel.SelectBuilder {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"name": name})
	if !id.IsNil(excludeID) {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	if activeOnly {
		q = q.Where(squirrel.Eq{"archived": false})
	}
	return q.Limit(1)
}

// ExistsByName checks whether another row carries name.
func (r *BaseCatalogRepo[T]) ExistsByName(ctx context.Context, name string, excludeID id.ID, activeOnly bool) (bool, error) {
	return r.exists(ctx, r.existsByNameQuery(name, excludeID, activeOnly))
}

func (r *BaseCatalogRepo[T]) exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
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

// Delete performs physical removal. A restricting foreign key becomes EntityInUse.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	q := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, r.entityName, entityID, "delete")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, "id", entityID)
	}
	return nil
}
