package storage

import (
	"context"
	"io"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Instrument wraps a store with tracing spans and debug logging on
// every operation.
func Instrument(store Store, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{
		wrapped: store,
		l:       logger.With(zap.String("store", store.String())),
	}
}

type instrumented struct {
	wrapped Store
	l       *zap.Logger
}

func (i *instrumented) span(ctx context.Context, op string) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContext(ctx, op)
}

func (i *instrumented) String() string {
	return i.wrapped.String()
}

func (i *instrumented) Has(ctx context.Context, key string) (bool, error) {
	span, ctx := i.span(ctx, "store.Has")
	defer span.Finish()
	has, err := i.wrapped.Has(ctx, key)
	i.l.Debug("has", zap.String("key", key), zap.Bool("has", has), zap.Error(err))
	return has, err
}

func (i *instrumented) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	span, ctx := i.span(ctx, "store.Get")
	defer span.Finish()
	rdr, err := i.wrapped.Get(ctx, key)
	i.l.Debug("get", zap.String("key", key), zap.Error(err))
	return rdr, err
}

func (i *instrumented) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	span, ctx := i.span(ctx, "store.Put")
	defer span.Finish()
	err := i.wrapped.Put(ctx, key, source, exclusive)
	i.l.Debug("put", zap.String("key", key), zap.Bool("exclusive", exclusive), zap.Error(err))
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	span, ctx := i.span(ctx, "store.Delete")
	defer span.Finish()
	err := i.wrapped.Delete(ctx, key)
	i.l.Debug("delete", zap.String("key", key), zap.Error(err))
	return err
}

func (i *instrumented) Keys(ctx context.Context) ([]string, error) {
	span, ctx := i.span(ctx, "store.Keys")
	defer span.Finish()
	keys, err := i.wrapped.Keys(ctx)
	i.l.Debug("keys", zap.Int("count", len(keys)), zap.Error(err))
	return keys, err
}

func (i *instrumented) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	span, ctx := i.span(ctx, "store.KeysPrefix")
	defer span.Finish()
	keys, next, err := i.wrapped.KeysPrefix(ctx, pageToken, prefix, delimiter, count)
	i.l.Debug("keys prefix", zap.String("prefix", prefix), zap.Int("count", len(keys)), zap.Error(err))
	return keys, next, err
}
