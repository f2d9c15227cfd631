// Package telemetry wires tracing and error reporting.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const sentryFlushTimeout = 2 * time.Second

type Options struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	SampleRatio  float64
	SentryDSN    string
}

// Shutdown flushes pending spans and events.
type Shutdown func(ctx context.Context) error

// Enabled reports whether tracing is exported anywhere.
func (o Options) Enabled() bool {
	return o.OTLPEndpoint != ""
}

func Setup(ctx context.Context, opts Options) (Shutdown, error) {
	var shutdowns []Shutdown

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
			ServerName:  opts.ServiceName,
		})
		if err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
		shutdowns = append(shutdowns, func(context.Context) error {
			sentry.Flush(sentryFlushTimeout)
			return nil
		})
		slog.Debug("Sentry enabled", "environment", opts.Environment)
	}

	if opts.Enabled() {
		tp, err := newTracerProvider(ctx, opts)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		shutdowns = append(shutdowns, tp.Shutdown)
		slog.Debug("Tracing enabled", "endpoint", opts.OTLPEndpoint, "sample_ratio", opts.SampleRatio)
	}

	return func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}, nil
}

func newTracerProvider(ctx context.Context, opts Options) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("deployment.environment", opts.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	ratio := opts.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}
