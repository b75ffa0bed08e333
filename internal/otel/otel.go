package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/graphcore/internal/eventbus"
	events "github.com/hanpama/graphcore/internal/events"
	reqid "github.com/hanpama/graphcore/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

const instrumentationName = "github.com/hanpama/graphcore"

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	detach := Attach(tp)

	return func(ctx context.Context) error {
		detach()
		return tp.Shutdown(ctx)
	}, nil
}

// Attach subscribes span recording for execution events to the global
// eventbus using tp. The returned func removes the subscriptions.
func Attach(tp trace.TracerProvider) (detach func()) {
	sub := &subscriber{tracer: tp.Tracer(instrumentationName)}
	return sub.register()
}

type subscriber struct {
	tracer    trace.Tracer
	execSpans sync.Map // rid -> trace.Span
}

func (s *subscriber) register() func() {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.ExecutionStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "graphql.execute")
			span.SetAttributes(
				attribute.String("graphql.operation.name", e.OperationName),
				attribute.String("graphql.operation.type", e.OperationType),
				attribute.String("graphql.root_type", e.RootType),
				attribute.Int64("graphcore.request_id", rid),
			)
			s.execSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.FieldResolved) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.execSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "graphql.resolve", trace.WithTimestamp(e.Start))
			span.SetAttributes(
				attribute.String("graphql.field.parent", e.ObjectType),
				attribute.String("graphql.field.name", e.Field),
				attribute.String("graphql.field.path", e.Path),
			)
			if e.Err != nil {
				span.RecordError(e.Err)
				span.SetStatus(codes.Error, e.Err.Error())
			}
			span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ExecutionFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.execSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
			if len(e.Errors) > 0 {
				span.SetStatus(codes.Error, e.Errors[0].Error())
			}
			span.End()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
