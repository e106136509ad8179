package splitter

import (
	"context"

	"github.com/pkg/errors"

	"github.com/arborsql/splitqry/plan"
	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
)

// Split rewrites src into a map query (run on every data-bearing node) and a
// reduce query (run by the coordinator over the merged map results), per
// the algebraic decomposition rules for AVG, SUM, MIN, MAX, COUNT and
// COUNT(*). src is never mutated; the returned Plan owns freshly built ASTs.
func Split(ctx context.Context, src *plan.Select, params []interface{}, opts Options) (*Plan, error) {
	finish := startSpan(ctx, opts)
	defer finish()

	mergeTable := tableName(0)

	mapSel := src.Clone()
	reduceSel := &plan.Select{
		From: expression.NewTable(mergeTable),
	}

	st := &splitState{
		mapExps:      mapSel.Projections,
		reduceSlots:  make([]sql.Expression, src.VisibleCount),
		reduceRaw:    make([]sql.Expression, len(mapSel.Projections)),
		isAggregate:  make([]bool, len(mapSel.Projections)),
		visibleCount: src.VisibleCount,
	}
	// The loop bound is frozen here, before splitOne starts appending
	// (AVG grows st.mapExps by one entry): the appended COUNT column is
	// already fully split at append time and must not be revisited.
	frozenLen := len(st.mapExps)
	for i := 0; i < frozenLen; i++ {
		if err := splitOne(st, i); err != nil {
			return nil, errors.Wrapf(err, "split projection %d", i)
		}
	}
	mapSel.Projections = st.mapExps
	// Every map projection must render, including AVG's appended COUNT
	// column and any synthetic HAVING slot beyond the source's visible
	// prefix: only the reduce side trims to VisibleCount.
	mapSel.VisibleCount = len(st.mapExps)

	reduceSel.Projections = make([]sql.Expression, 0, src.VisibleCount)
	for i := 0; i < src.VisibleCount; i++ {
		slot := st.reduceSlots[i]
		if slot == nil {
			return nil, ErrInvariantViolated.New("empty reduce slot at visible projection index")
		}
		reduceSel.Projections = append(reduceSel.Projections, slot)
	}
	reduceSel.VisibleCount = len(reduceSel.Projections)

	if len(src.GroupBy) > 0 {
		mapSel.GroupBy = append([]int{}, src.GroupBy...)
		reduceSel.GroupBy = append([]int{}, src.GroupBy...)
	}

	if src.Having != nil {
		if src.HavingColumn < 0 || src.HavingColumn >= len(st.reduceRaw) {
			return nil, ErrInvariantViolated.New("having column outside the projection list")
		}
		havingValue := st.reduceRaw[src.HavingColumn]
		if havingValue == nil {
			return nil, ErrInvariantViolated.New("having column has no reduce-side reconstruction")
		}
		reduceSel.Having = &plan.HavingPredicate{
			Left:  havingValue.Clone(),
			Op:    src.Having.Op,
			Right: src.Having.Right.Clone(),
		}
		reduceSel.HavingColumn = src.HavingColumn
	}
	mapSel.Having = nil
	mapSel.HavingColumn = 0

	mapSel.OrderBy = nil
	if len(src.OrderBy) > 0 {
		reduceSel.OrderBy = make([]plan.SortField, len(src.OrderBy))
		for i, sf := range src.OrderBy {
			reduceSel.OrderBy[i] = resolveSort(st, sf, opts)
		}
	}

	if src.Limit != nil {
		l := *src.Limit
		reduceSel.Limit = &l
	}
	mapSel.Limit = nil

	if src.Offset != nil {
		o := *src.Offset
		reduceSel.Offset = &o
	}
	mapSel.Offset = nil

	mapSel.Distinct = false
	reduceSel.Distinct = src.Distinct

	logSplit(opts, src, mapSel, reduceSel)

	return &Plan{
		ReduceSQL: reduceSel.String(),
		MapEntries: []MapQuery{
			{MergeTable: mergeTable, SQL: mapSel.String(), Params: params},
		},
	}, nil
}

// resolveSort rebinds one source ORDER BY key to the reduce query. By
// default it sorts by the map-side alias — the per-node partial aggregate
// value when the source column is an aggregate. With
// Options.ReresolveSortToReduce set, an aggregate-valued sort column
// instead sorts by its fully reconstructed reduce-side value, the
// semantically correct choice when the partial and final aggregate values
// can disagree in relative order (MIN/MAX preserve order; AVG and COUNT
// ratios generally do not).
func resolveSort(st *splitState, sf plan.SortField, opts Options) plan.SortField {
	out := plan.SortField{Direction: sf.Direction, Nulls: sf.Nulls}

	if opts.ReresolveSortToReduce && st.isAggregate[sf.ColumnIndex] {
		out.Target = st.reduceRaw[sf.ColumnIndex].Clone()
		return out
	}

	name, _ := expression.Unalias(st.mapExps[sf.ColumnIndex])
	out.Target = expression.NewColumn(name)
	return out
}
