// Package observability wires the OpenTelemetry tracing SDK.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	exportTimeout = 5 * time.Second
	maxQueueSize  = 2048
)

// ShutdownFunc flushes and stops whatever SetupTracingSDK started.
type ShutdownFunc func(context.Context) error

// SetupTracingSDK installs a global tracer provider exporting over OTLP/HTTP to endpoint
// (e.g. http://collector:4318). An empty endpoint leaves the global no-op provider in place.
func SetupTracingSDK(ctx context.Context, endpoint, serviceName string) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return nil, noop, nil
	}

	tp, err := newProvider(ctx, serviceName, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, noop, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(tp)

	return tp, func(ctx context.Context) error {
		return errors.Join(tp.ForceFlush(ctx), tp.Shutdown(ctx))
	}, nil
}

func newProvider(ctx context.Context, serviceName string, opts ...otlptracehttp.Option) (*sdktrace.TracerProvider, error) {
	res, err := Resource(serviceName)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithExportTimeout(exportTimeout),
			sdktrace.WithMaxQueueSize(maxQueueSize),
		),
	), nil
}

func Resource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}
	return res, nil
}
