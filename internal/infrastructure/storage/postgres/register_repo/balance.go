// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
	"storagemanager/internal/infrastructure/storage/postgres"
)

const balancesTable = "reg_balances"

// insertBalanceSQL merges a row inserted concurrently for the same key.
const insertBalanceSQL = `
	INSERT INTO reg_balances (resource_id, measure_id, amount, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (resource_id, measure_id)
	DO UPDATE SET amount = reg_balances.amount + EXCLUDED.amount, updated_at = NOW()
`

// BalanceRepo implements balance.Repository.
type BalanceRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewBalanceRepo creates a new balance register repository.
func NewBalanceRepo(txm *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *BalanceRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// GetForUpdate returns the row with a pessimistic lock.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, key balance.Key) (balance.Balance, bool, error) {
	var b balance.Balance

	sql := `
		SELECT resource_id, measure_id, amount, updated_at
		FROM reg_balances
		WHERE resource_id = $1 AND measure_id = $2
		FOR UPDATE
	`

	if err := pgxscan.Get(ctx, r.querier(ctx), &b, sql, key.ResourceID, key.MeasureID); err != nil {
		if pgxscan.NotFound(err) {
			return balance.Balance{}, false, nil
		}
		return b, false, fmt.Errorf("get balance for update: %w", err)
	}
	return b, true, nil
}

// Insert creates a row or adds amount to the existing one.
func (r *BalanceRepo) Insert(ctx context.Context, key balance.Key, amount int64) error {
	if _, err := r.querier(ctx).Exec(ctx, insertBalanceSQL, key.ResourceID, key.MeasureID, amount); err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) updateAmountQuery(key balance.Key, amount int64) squirrel.UpdateBuilder {
	return r.builder.
		Update(balancesTable).
		Set("amount", amount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"resource_id": key.ResourceID, "measure_id": key.MeasureID})
}

// UpdateAmount overwrites the amount of an existing row.
func (r *BalanceRepo) UpdateAmount(ctx context.Context, key balance.Key, amount int64) error {
	sql, args, err := r.updateAmountQuery(key, amount).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewBalanceNotFound(key.ResourceID, key.MeasureID)
	}
	return nil
}

// Delete removes the row for key.
func (r *BalanceRepo) Delete(ctx context.Context, key balance.Key) error {
	sql, args, err := r.builder.
		Delete(balancesTable).
		Where(squirrel.Eq{"resource_id": key.ResourceID, "measure_id": key.MeasureID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) listQuery(filter balance.Filter) squirrel.SelectBuilder {
	q := r.builder.Select(
		"b.resource_id", "b.measure_id", "b.amount", "b.updated_at",
		"r.name AS resource_name", "m.name AS measure_name",
	).From(balancesTable + " b").
		Join("cat_resources r ON r.id = b.resource_id").
		Join("cat_measures m ON m.id = b.measure_id")

	if len(filter.ResourceIDs) > 0 {
		q = q.Where(squirrel.Eq{"b.resource_id": filter.ResourceIDs})
	}
	if len(filter.MeasureIDs) > 0 {
		q = q.Where(squirrel.Eq{"b.measure_id": filter.MeasureIDs})
	}

	return q.OrderBy("r.name", "m.name")
}

// List returns rows with resource and measure names.
func (r *BalanceRepo) List(ctx context.Context, filter balance.Filter) ([]balance.View, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var views []balance.View
	if err := pgxscan.Select(ctx, r.querier(ctx), &views, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}
	return views, nil
}

// ExistsByResource reports whether any row references the resource.
func (r *BalanceRepo) ExistsByResource(ctx context.Context, resourceID id.ID) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"resource_id": resourceID})
}

// ExistsByMeasure reports whether any row references the measure.
func (r *BalanceRepo) ExistsByMeasure(ctx context.Context, measureID id.ID) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"measure_id": measureID})
}

func (r *BalanceRepo) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	sql, args, err := r.builder.Select("1").From(balancesTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists balance: %w", err)
	}
	return true, nil
}
