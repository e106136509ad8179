package splitter

import (
	"github.com/sirupsen/logrus"

	"github.com/arborsql/splitqry/plan"
	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
	"github.com/arborsql/splitqry/sql/expression/aggregation"
)

// hasDistinctAvg reports whether expr is, or aliases, AVG(DISTINCT ...).
func hasDistinctAvg(expr sql.Expression) bool {
	_, inner := expression.Unalias(expr)
	agg, ok := inner.(*aggregation.Aggregate)
	return ok && agg.Kind == sql.AggAvg && agg.Distinct
}

// logSplit emits a debug event describing the shapes of the rewritten
// queries, and a warn event when a visible source projection is, or aliases,
// AVG(DISTINCT ...) (the accepted cross-node duplicate-counting caveat). A
// nil Logger makes both calls no-ops.
func logSplit(opts Options, src, mapSel, reduceSel *plan.Select) {
	if opts.Logger == nil {
		return
	}
	opts.Logger.WithFields(logrus.Fields{
		"map_projections":    len(mapSel.Projections),
		"reduce_projections": len(reduceSel.Projections),
		"group_by":           len(reduceSel.GroupBy),
		"distinct":           src.Distinct,
	}).Debug("split query")

	for _, p := range src.Projections[:src.VisibleCount] {
		if hasDistinctAvg(p) {
			opts.Logger.Warn("AVG(DISTINCT ...) decomposed per node; duplicates crossing node boundaries are counted once per node")
			break
		}
	}
}
