// Package zapctx carries a *zap.Logger through a context.Context.
package zapctx

import (
	"context"

	"go.uber.org/zap"
)

type logKey struct{}

// FromContext returns the logger in the context, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(logKey{}).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return logger
}

func ToContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}

// With attaches fields to the context's logger, returning both.
func With(ctx context.Context, fields ...zap.Field) (context.Context, *zap.Logger) {
	logger := FromContext(ctx).With(fields...)
	return ToContext(ctx, logger), logger
}

// Named scopes the context's logger under a sub-name.
func Named(ctx context.Context, name string) (context.Context, *zap.Logger) {
	logger := FromContext(ctx).Named(name)
	return ToContext(ctx, logger), logger
}
