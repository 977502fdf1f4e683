// Package tracing holds the tracers used to follow an operation across its
// stages, from the query of the nonce to the inclusion of the transaction.
package tracing

import (
	"context"
	"io"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	_ "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"golang.org/x/xerrors"
)

type key int

// OperationKey is the key used to denote an operation in a `context.Context`.
const OperationKey key = iota

var (
	// OperationTag is the span tag used for denoting an operation.
	OperationTag = "operation"
	// UndefinedOperation is the default OperationTag value used if no
	// OperationKey is present in the context.
	UndefinedOperation = "__UNDEFINED_OPERATION__"
)

type tracerCatalog struct {
	sync.Mutex
	tracerByService map[string]closableTracer
}

type closableTracer struct {
	tracer opentracing.Tracer
	closer io.Closer
}

var catalog = tracerCatalog{
	tracerByService: make(map[string]closableTracer),
}

// GetTracerForService returns an `opentracing.Tracer` instance for the given
// service name. Since the tracers are cached, it returns an existing one if it
// has been initialized before.
func GetTracerForService(service string) (opentracing.Tracer, error) {
	catalog.Lock()
	defer catalog.Unlock()

	tc, ok := catalog.tracerByService[service]
	if ok {
		return tc.tracer, nil
	}

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, xerrors.Errorf("error parsing jaeger configuration from environment: %v", err)
	}

	cfg.ServiceName = service
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, xerrors.Errorf("error creating new tracer: %v", err)
	}

	catalog.tracerByService[service] = closableTracer{
		tracer: tracer,
		closer: closer,
	}

	return tracer, nil
}

// WithOperation returns a context carrying the name of the operation, which is
// added to the spans started from it.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// OperationFrom returns the operation stored in the context, or the undefined
// operation.
func OperationFrom(ctx context.Context) string {
	op, ok := ctx.Value(OperationKey).(string)
	if !ok {
		return UndefinedOperation
	}

	return op
}

// StartSpan starts a span for the stage with the tracer. The span is a child of
// the one found in the context, if any.
func StartSpan(ctx context.Context, tracer opentracing.Tracer, stage string) (opentracing.Span, context.Context) {
	opts := []opentracing.StartSpanOption{
		opentracing.Tag{Key: OperationTag, Value: OperationFrom(ctx)},
	}

	parent := opentracing.SpanFromContext(ctx)
	if parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}

	span := tracer.StartSpan(stage, opts...)

	return span, opentracing.ContextWithSpan(ctx, span)
}

// CloseAll closes all the tracer instances.
func CloseAll() error {
	catalog.Lock()
	defer catalog.Unlock()

	for service, tc := range catalog.tracerByService {
		err := tc.closer.Close()
		if err != nil {
			return xerrors.Errorf("couldn't close tracer '%s': %v", service, err)
		}

		delete(catalog.tracerByService, service)
	}

	return nil
}
