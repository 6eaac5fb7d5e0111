// Package telemetry bootstraps OpenTelemetry tracing and metrics, exporting
// to stdout or to an OTLP/HTTP collector.
package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	otel "go.opentelemetry.io/otel"
	otlpmetrichttp "go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	stdoutmetric "go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	metric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	propagation "go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	trace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config selects the exporter
type Config struct {
	// Exporter is none, stdout or otlp
	Exporter string

	// Endpoint is the collector URL for otlp, such as
	// http://localhost:4318
	Endpoint string

	// Writer receives stdout exports, defaulting to os.Stderr
	Writer io.Writer
}

// Telemetry holds the tracer and meter providers
type Telemetry struct {
	tracer   trace.TracerProvider
	meter    metric.MeterProvider
	shutdown []func(context.Context) error
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"

	batchTimeout   = time.Second
	exportInterval = time.Minute
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates the providers for the service and registers them globally.
// With no exporter, the providers do nothing.
func New(ctx context.Context, service, version string, cfg Config) (*Telemetry, error) {
	exporter := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if exporter == "" || exporter == ExporterNone {
		return &Telemetry{
			tracer: tracenoop.NewTracerProvider(),
			meter:  metricnoop.NewMeterProvider(),
		}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, jack.ErrInternalServerError.Withf("telemetry resource: %v", err)
	}

	var spans sdktrace.SpanExporter
	var metrics sdkmetric.Exporter
	switch exporter {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		if spans, err = stdouttrace.New(stdouttrace.WithWriter(w)); err != nil {
			return nil, jack.ErrInternalServerError.Wrap(err)
		}
		if metrics, err = stdoutmetric.New(stdoutmetric.WithWriter(w)); err != nil {
			return nil, jack.ErrInternalServerError.Wrap(err)
		}
	case ExporterOTLP:
		if cfg.Endpoint == "" {
			return nil, jack.ErrBadParameter.With("otlp endpoint is required")
		}
		if spans, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint)); err != nil {
			return nil, jack.ErrBadParameter.Wrap(err)
		}
		if metrics, err = otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(cfg.Endpoint)); err != nil {
			return nil, jack.ErrBadParameter.Wrap(err)
		}
	default:
		return nil, jack.ErrBadParameter.Withf("unknown telemetry exporter %q", cfg.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spans, sdktrace.WithBatchTimeout(batchTimeout)),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics, sdkmetric.WithInterval(exportInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{
		tracer:   tp,
		meter:    mp,
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var result error
	for _, fn := range t.shutdown {
		result = errors.Join(result, fn(ctx))
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tracer returns a named tracer
func (t *Telemetry) Tracer(name string) trace.Tracer {
	return t.tracer.Tracer(name)
}

// Meter returns a named meter
func (t *Telemetry) Meter(name string) metric.Meter {
	return t.meter.Meter(name)
}
