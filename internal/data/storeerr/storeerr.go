package storeerr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/domain"
)

// Map translates low-level store failures into domain error codes so
// that services and handlers never pattern-match on store-specific
// shapes. Unique violations become conflicts, invalid-uuid input
// degrades to not_found, and serialization/deadlock/timeout failures
// are flagged retryable.
func Map(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Wrap(domain.CodeConflict, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domain.Wrap(domain.CodeConflict, op, err) // unique_violation
		case "22P02":
			return domain.Wrap(domain.CodeNotFound, op, err) // invalid_text_representation (bad uuid)
		case "23503":
			return domain.Wrap(domain.CodeValidation, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domain.Wrap(domain.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return domain.Wrap(domain.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "temporar"):
		return domain.Wrap(domain.CodeRetryable, op, err)
	default:
		return domain.Wrap(domain.CodeInternal, op, err)
	}
}
