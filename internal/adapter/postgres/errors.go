package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// MapError converts pgx/pgconn errors into domain sentinels so services can
// branch with errors.Is. Context cancellation passes through unmapped.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", op, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
