// Package telemetry wires OpenTelemetry into lg's launch-gate loads.
//
// When enabled, every issue-source fetch, resolver pass and session load
// gets a span, and the following instruments are recorded:
//
//	lg.fetch.count            fetches per operation (FetchChildren, FetchLinks)
//	lg.fetch.errors           failed fetches
//	lg.fetch.duration         fetch latency in milliseconds
//	lg.signoff.confirmations  sign-off confirmations by target and result
//
// # Configuration
//
//	LG_OTEL_ENABLED=true              enable telemetry (default: off)
//	LG_OTEL_STDOUT=true               pretty-print spans and metrics to stdout
//	OTEL_EXPORTER_OTLP_ENDPOINT=...  OTLP/HTTP metrics endpoint (e.g. localhost:4318)
//
// lg runs are short, so exporters are flushed by Shutdown rather than by
// their periodic readers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/steveyegge/launchgate/internal/debug"
)

const instrumentationScope = "github.com/steveyegge/launchgate"

// Reader intervals; Shutdown flushes whatever a short run has not exported.
const (
	stdoutInterval = 15 * time.Second
	otlpInterval   = 30 * time.Second
)

var shutdownFns []func(context.Context) error

// Enabled reports whether telemetry is active (LG_OTEL_ENABLED=true).
func Enabled() bool {
	return os.Getenv("LG_OTEL_ENABLED") == "true"
}

func stdoutEnabled() bool {
	return os.Getenv("LG_OTEL_STDOUT") == "true"
}

func otlpEndpoint() string {
	return firstNonEmpty(
		os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"),
		os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	)
}

// Init installs the providers for one lg invocation. When telemetry is
// disabled the global providers are no-ops, so instruments created by
// WrapSource and SignoffCounter cost nothing. Calling Init again first
// shuts down the previous providers.
func Init(ctx context.Context, serviceName, version string) error {
	Shutdown(ctx)

	if !Enabled() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	tp, err := buildTraceProvider(res)
	if err != nil {
		return fmt.Errorf("telemetry: trace provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	readers, err := metricReaders(ctx)
	if err != nil {
		return fmt.Errorf("telemetry: metric readers: %w", err)
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)

	debug.Logf("telemetry enabled (stdout=%v, otlp=%q)\n", stdoutEnabled(), otlpEndpoint())
	return nil
}

func buildTraceProvider(res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	if stdoutEnabled() {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// metricReaders returns one periodic reader per configured exporter.
func metricReaders(ctx context.Context) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	if stdoutEnabled() {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(stdoutInterval)))
	}
	if endpoint := otlpEndpoint(); endpoint != "" {
		exp, err := buildOTLPMetricExporter(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("otlp metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(otlpInterval)))
	}
	return readers, nil
}

// Tracer returns a tracer with the given instrumentation name (or lg's scope).
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Tracer(name)
}

// Meter returns a meter with the given instrumentation name (or lg's scope).
func Meter(name string) metric.Meter {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Meter(name)
}

// Shutdown flushes pending spans and metrics and stops the providers.
// It is safe to call more than once.
func Shutdown(ctx context.Context) {
	var errs []error
	for _, fn := range shutdownFns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	shutdownFns = nil
	if err := errors.Join(errs...); err != nil {
		debug.Logf("telemetry shutdown: %v\n", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
