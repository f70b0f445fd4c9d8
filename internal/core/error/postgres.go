package errx

import (
	"context"
	"errors"
)

// WrapPostgres maps Postgres errors to the unified AppError type.
func WrapPostgres(err error) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewKind(err, KindTimeout, PostgresErrorMessage)
	}

	return NewKind(err, KindUnavailable, PostgresErrorMessage)
}
