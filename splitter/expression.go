package splitter

import (
	"github.com/pkg/errors"

	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
	"github.com/arborsql/splitqry/sql/expression/aggregation"
)

// splitState carries the per-call mutable bookkeeping that splitOne reads
// and writes as it walks the frozen projection range. It exists so the
// orchestrator in splitter.go doesn't have to thread four separate slices
// through every call.
type splitState struct {
	// mapExps is the map query's growing projection list. AVG appends to
	// it; every other case only rewrites mapExps[idx] in place.
	mapExps []sql.Expression

	// reduceSlots holds the reduce-side expression for every user-visible
	// projection (index < visibleCount). Entries at or past visibleCount
	// have no reduce slot and are left nil.
	reduceSlots []sql.Expression

	// reduceRaw holds the reduce-side expression for every projection,
	// visible or not, so HAVING (whose aggregate lives in a synthetic slot
	// beyond visibleCount) can still recover its reduce-side reconstruction.
	reduceRaw []sql.Expression

	// isAggregate marks, per index, whether the source item was an
	// aggregate — consulted when resolving ORDER BY under
	// Options.ReresolveSortToReduce.
	isAggregate []bool

	visibleCount int
}

// splitOne applies the expression splitter to mapExps[idx], per §4.2 Case A
// (plain expressions) and Case B (aggregate decomposition). It mutates
// st.mapExps in place (appending exactly one entry for AVG) and records the
// reduce-side reconstruction in st.reduceRaw[idx], additionally populating
// st.reduceSlots[idx] when idx falls within the visible range.
func splitOne(st *splitState, idx int) error {
	item := st.mapExps[idx]

	userAlias, inner := expression.Unalias(item)

	if agg, ok := inner.(*aggregation.Aggregate); ok {
		st.isAggregate[idx] = true
		reduceExpr, err := splitAggregate(st, idx, agg)
		if err != nil {
			return err
		}
		// reduceRaw keeps the bare reconstruction, unaliased: HAVING
		// migration and ORDER BY re-resolution need the value expression,
		// not a display name. reduceSlots, the projected output, gets the
		// user's alias when they supplied one.
		st.reduceRaw[idx] = reduceExpr
		if idx < st.visibleCount {
			out := reduceExpr
			if userAlias != "" {
				out = expression.NewAlias(userAlias, reduceExpr.Clone())
			}
			st.reduceSlots[idx] = out
		}
		return nil
	}

	return splitPlain(st, idx, userAlias, inner)
}

// splitPlain implements Case A: the map slot is (re-)aliased and the
// reduce slot, when in range, becomes a bare reference to that alias.
func splitPlain(st *splitState, idx int, userAlias string, inner sql.Expression) error {
	name := userAlias
	if name == "" {
		if col, ok := inner.(*expression.Column); ok {
			name = col.Name
		} else {
			name = columnName(idx)
		}
	}
	st.mapExps[idx] = expression.NewAlias(name, inner)

	ref := expression.NewColumn(name)
	st.reduceRaw[idx] = ref
	if idx < st.visibleCount {
		st.reduceSlots[idx] = ref
	}
	return nil
}

// splitAggregate implements Case B: algebraic decomposition of one
// aggregate call, dispatched on kind. It returns the reduce-side
// expression (unwrapped by any user alias — the caller applies that).
func splitAggregate(st *splitState, idx int, agg *aggregation.Aggregate) (sql.Expression, error) {
	m := columnName(idx)
	d := agg.Distinct
	x := agg.Arg

	switch agg.Kind {
	case sql.AggSum:
		st.mapExps[idx] = expression.NewAlias(m, aggregation.NewSum(d, x))
		return aggregation.NewSum(d, expression.NewColumn(m)), nil

	case sql.AggMin:
		st.mapExps[idx] = expression.NewAlias(m, aggregation.NewMin(d, x))
		return aggregation.NewMin(d, expression.NewColumn(m)), nil

	case sql.AggMax:
		st.mapExps[idx] = expression.NewAlias(m, aggregation.NewMax(d, x))
		return aggregation.NewMax(d, expression.NewColumn(m)), nil

	case sql.AggCount:
		st.mapExps[idx] = expression.NewAlias(m, aggregation.NewCount(d, x))
		return reduceCountCast(m), nil

	case sql.AggCountAll:
		st.mapExps[idx] = expression.NewAlias(m, aggregation.NewCountAll())
		return reduceCountCast(m), nil

	case sql.AggAvg:
		st.mapExps[idx] = expression.NewAlias(m,
			aggregation.NewAvg(d, expression.NewCast(x, string(sql.TypeDouble))))

		c := columnName(len(st.mapExps))
		st.mapExps = append(st.mapExps, expression.NewAlias(c, aggregation.NewCount(d, x)))

		num := aggregation.NewSum(false, expression.NewBinaryOp(
			sql.OpMul, expression.NewColumn(m), expression.NewColumn(c)))
		den := aggregation.NewSum(false, expression.NewColumn(c))
		return expression.NewBinaryOp(sql.OpDiv, num, den), nil

	default:
		return nil, errors.Wrap(ErrUnsupportedAggregate.New(agg.Kind), "split aggregate")
	}
}

// reduceCountCast builds CAST(SUM(Column(alias)) AS BIGINT), the reduce
// reconstruction shared by COUNT(x) and COUNT(*).
func reduceCountCast(alias string) sql.Expression {
	return expression.NewCast(
		aggregation.NewSum(false, expression.NewColumn(alias)),
		string(sql.TypeInt64),
	)
}
