// Package telemetry wires opt-in OpenTelemetry tracing for simulation runs.
package telemetry

import (
	"context"
	"strings"

	"geneticload/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	Endpoint string `env:"GENETICLOAD_OTEL_ENDPOINT"`
	Enabled  string `env:"GENETICLOAD_OTEL_ENABLED"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	return c.Endpoint != "" && !strings.EqualFold(c.Enabled, "false")
}

// Setup initialises tracing for the given service.
//
// Tracing is opt-in: when GENETICLOAD_OTEL_ENDPOINT is empty or
// GENETICLOAD_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and the global provider is left untouched.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
