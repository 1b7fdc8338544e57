package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"storagemanager/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// MapError translates constraint violations into domain errors.
// Service checks run first; this covers the race where two transactions
// pass the check at the same time. Other errors are wrapped with op.
func MapError(err error, entity string, entityID any, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperror.NewAlreadyExists(entity, "constraint", pgErr.ConstraintName).WithCause(err)
		case foreignKeyViolation:
			return apperror.NewEntityInUse(entity, entityID).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case checkViolation:
			return apperror.NewValidation("value violates constraint").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}
