package splitter

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
)

// startSpan opens a "splitqry.Split" span under opts.Tracer, if one was
// configured, and returns a func to finish it. A nil Tracer makes this a
// no-op, so callers that don't care about tracing pay nothing for it.
func startSpan(ctx context.Context, opts Options) func() {
	if opts.Tracer == nil {
		return func() {}
	}
	span := opts.Tracer.StartSpan("splitqry.Split", opentracing.ChildOf(spanContextFrom(ctx)))
	return span.Finish
}

// spanContextFrom extracts a parent span context from ctx, if the caller
// attached one via opentracing.ContextWithSpan; otherwise returns nil, which
// opentracing.ChildOf treats as "no parent."
func spanContextFrom(ctx context.Context) opentracing.SpanContext {
	if ctx == nil {
		return nil
	}
	if span := opentracing.SpanFromContext(ctx); span != nil {
		return span.Context()
	}
	return nil
}
