package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/types"
)

const sourceScopeName = "github.com/steveyegge/launchgate/source"

// InstrumentedSource wraps source.IssueSource with OTel tracing and metrics.
// Every fetch gets a span and is counted in lg.fetch.* metrics.
type InstrumentedSource struct {
	inner  source.IssueSource
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapSource returns src decorated with OTel instrumentation.
// When telemetry is disabled, src is returned as-is.
func WrapSource(src source.IssueSource) source.IssueSource {
	if !Enabled() {
		return src
	}
	return newInstrumentedSource(src)
}

func newInstrumentedSource(src source.IssueSource) *InstrumentedSource {
	m := Meter(sourceScopeName)
	ops, _ := m.Int64Counter("lg.fetch.count",
		metric.WithDescription("Total issue source fetches"),
	)
	dur, _ := m.Float64Histogram("lg.fetch.duration",
		metric.WithDescription("Issue source fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("lg.fetch.errors",
		metric.WithDescription("Total failed issue source fetches"),
	)
	return &InstrumentedSource{
		inner:  src,
		tracer: Tracer(sourceScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

func (s *InstrumentedSource) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("lg.fetch.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "source."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

func (s *InstrumentedSource) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedSource) FetchChildren(ctx context.Context, parentKey string) (types.ChildPage, error) {
	attrs := []attribute.KeyValue{attribute.String("lg.issue.key", parentKey)}
	ctx, span, t := s.op(ctx, "FetchChildren", attrs...)
	page, err := s.inner.FetchChildren(ctx, parentKey)
	span.SetAttributes(attribute.Int("lg.children.count", len(page.Items)))
	s.done(ctx, span, t, err, attrs...)
	return page, err
}

func (s *InstrumentedSource) FetchLinks(ctx context.Context, key string) ([]types.Link, error) {
	attrs := []attribute.KeyValue{attribute.String("lg.issue.key", key)}
	ctx, span, t := s.op(ctx, "FetchLinks", attrs...)
	links, err := s.inner.FetchLinks(ctx, key)
	span.SetAttributes(attribute.Int("lg.links.count", len(links)))
	s.done(ctx, span, t, err, attrs...)
	return links, err
}

// SignoffCounter returns the counter used to record sign-off confirmations.
func SignoffCounter() metric.Int64Counter {
	c, _ := Meter("").Int64Counter("lg.signoff.confirmations",
		metric.WithDescription("Sign-off confirmation attempts by target and result"),
	)
	return c
}
