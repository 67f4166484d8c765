package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoProvider is returned when data is added without a provider.
var ErrNoProvider = errors.New("no data provider available")

// AddDataToContextHelper adds data through provider, logging failures. It
// is the shared AddDataToContext implementation of the evaluators.
func AddDataToContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	d ...map[string]any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if provider == nil {
		logger.WarnContext(ctx, "no data provider available for context preparation")
		return ctx, ErrNoProvider
	}

	enrichedCtx, err := provider.AddDataToContext(ctx, d...)
	if err != nil {
		logger.DebugContext(ctx, "failed to add data to context", "error", err)
		return ctx, fmt.Errorf("failed to prepare context: %w", err)
	}
	return enrichedCtx, nil
}
