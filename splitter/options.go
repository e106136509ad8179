package splitter

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Options configures a Split call. The zero value is the default,
// conservative behavior described by the worked examples.
type Options struct {
	// ReresolveSortToReduce controls how an ORDER BY key that points at an
	// aggregate projection is rebound on the reduce query.
	//
	// When false (the default), the reduce sort references the map-side
	// alias directly, sorting by the per-node partial aggregate value
	// reconstructed from the merge table column — the literal behavior
	// this package was validated against. When true, the sort instead
	// references the fully reconstructed reduce-side expression (e.g. the
	// AVG ratio, or the CAST(SUM(...) AS BIGINT) reconstruction), which is
	// the semantically correct choice for sorting by the final aggregate
	// value rather than an arbitrary per-node partial. See resolveSort.
	ReresolveSortToReduce bool

	// Logger, when non-nil, receives a debug event for every Split call and
	// a warn event for the accepted AVG(DISTINCT ...) caveat (duplicates
	// crossing node boundaries). Nil is safe and disables logging.
	Logger *logrus.Entry

	// Tracer, when non-nil, wraps Split in a span. Nil disables tracing.
	Tracer opentracing.Tracer
}
