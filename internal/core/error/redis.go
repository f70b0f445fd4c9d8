package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to the unified AppError type with appropriate status codes.
func WrapRedis(err error) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewKind(err, KindTimeout, RedisErrorMessage)
	}

	return NewKind(err, KindUnavailable, RedisErrorMessage)
}
