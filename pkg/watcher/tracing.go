package watcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of DefaultTracer.
const TracerName = "github.com/seven-it/Learn-Vue/pkg/watcher"

// DefaultTracer returns the tracer of the global otel TracerProvider.
func DefaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// tracer records watcher spans.
type tracer = trace.Tracer

// startSpan starts a span for op, or returns a no-op span when the watcher
// has no tracer.
func (w *Watcher) startSpan(op string) trace.Span {
	if w.tracer == nil {
		return trace.SpanFromContext(context.Background())
	}
	_, span := w.tracer.Start(context.Background(), "watcher."+op,
		trace.WithAttributes(
			attribute.Int64("watcher.id", int64(w.id)),
			attribute.String("watcher.expression", w.expression),
			attribute.Bool("watcher.lazy", w.lazy),
			attribute.Bool("watcher.deep", w.deep),
		),
	)
	return span
}

func recordPanic(span trace.Span, r any) {
	err := fmt.Errorf("%v", r)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
