package zapctx_test

import (
	"context"
	"testing"

	"github.com/vito/arepl/pkg/zapctx"
	"github.com/vito/is"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger(t *testing.T) {
	is := is.New(t)

	core, logs := observer.New(zap.DebugLevel)

	ctx := zapctx.ToContext(context.Background(), zap.New(core))
	ctx, _ = zapctx.Named(ctx, "repl")
	ctx, logger := zapctx.With(ctx, zap.String("unit", "(repl:1)"))

	logger.Info("hello")
	zapctx.FromContext(ctx).Debug("again")

	entries := logs.All()
	is.Equal(len(entries), 2)
	is.Equal(entries[0].LoggerName, "repl")
	is.Equal(entries[0].Message, "hello")
	is.Equal(entries[1].ContextMap()["unit"], "(repl:1)")
}

func TestDefaultLogger(t *testing.T) {
	is := is.New(t)

	is.True(zapctx.FromContext(context.Background()) != nil)
}
