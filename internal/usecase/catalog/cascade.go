package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anishelf/internal/domain/entity"
)

// Attempt is one step of a fetch cascade: a named thunk that produces a
// batch of catalog entries when invoked.
type Attempt struct {
	Source string
	Fn     func(ctx context.Context) ([]*entity.Anime, error)
}

// TryInOrder invokes attempts strictly in order and returns the first
// success together with the name of the source that produced it. A failed
// attempt is logged and discarded; the next attempt runs regardless of why
// the previous one failed. When every attempt fails, the individual errors
// are joined under ErrAllSourcesFailed.
//
// Attempts run strictly serially. There is no parallel racing and no
// caching in front of the cascade; every call walks the full chain.
func TryInOrder(ctx context.Context, attempts []Attempt) ([]*entity.Anime, string, error) {
	var failures []error

	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("cascade aborted: %w", err)
		}

		result, err := attempt.Fn(ctx)
		if err == nil {
			return result, attempt.Source, nil
		}

		slog.Warn("catalog source failed, trying next",
			slog.String("source", attempt.Source),
			slog.Any("error", err))
		failures = append(failures, fmt.Errorf("%s: %w", attempt.Source, err))
	}

	return nil, "", fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
}
