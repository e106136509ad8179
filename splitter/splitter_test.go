package splitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborsql/splitqry/plan"
	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
	"github.com/arborsql/splitqry/sql/expression/aggregation"
)

func mustSplit(t *testing.T, src *plan.Select, opts Options) *Plan {
	t.Helper()
	result, err := Split(context.Background(), src, nil, opts)
	require.NoError(t, err)
	return result
}

// Scenario 1: SELECT a, SUM(b) FROM t GROUP BY a
func TestSplit_GroupByWithSum(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewSum(false, expression.NewColumn("b")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
	}

	result := mustSplit(t, src, Options{})
	require.Len(result.MapEntries, 1)
	require.Equal("SELECT a AS a, SUM(b) AS __C1 FROM t GROUP BY a", result.MapEntries[0].SQL)
	require.Equal("SELECT a, SUM(__C1) FROM __T0 GROUP BY a", result.ReduceSQL)
	require.Equal("__T0", result.MapEntries[0].MergeTable)
}

// Scenario 2: SELECT AVG(x) FROM t
func TestSplit_Avg(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections:  []sql.Expression{aggregation.NewAvg(false, expression.NewColumn("x"))},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT AVG(CAST(x AS DOUBLE)) AS __C0, COUNT(x) AS __C1 FROM t", result.MapEntries[0].SQL)
	require.Equal("SELECT SUM(__C0 * __C1) / SUM(__C1) FROM __T0", result.ReduceSQL)
}

// Scenario 3: SELECT COUNT(*) FROM t
func TestSplit_CountAll(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections:  []sql.Expression{aggregation.NewCountAll()},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT COUNT(*) AS __C0 FROM t", result.MapEntries[0].SQL)
	require.Equal("SELECT CAST(SUM(__C0) AS BIGINT) FROM __T0", result.ReduceSQL)
}

// Scenario 4: SELECT DISTINCT a FROM t ORDER BY a LIMIT 10 OFFSET 5
func TestSplit_DistinctOrderLimitOffset(t *testing.T) {
	require := require.New(t)

	limit, offset := int64(10), int64(5)
	src := &plan.Select{
		Projections:  []sql.Expression{expression.NewColumn("a")},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
		OrderBy:      []plan.SortField{{ColumnIndex: 0, Direction: sql.Asc}},
		Limit:        &limit,
		Offset:       &offset,
		Distinct:     true,
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT a AS a FROM t", result.MapEntries[0].SQL)
	require.Equal("SELECT DISTINCT a FROM __T0 ORDER BY a LIMIT 10 OFFSET 5", result.ReduceSQL)
}

// Scenario 5: SELECT a, COUNT(b) c FROM t GROUP BY a HAVING COUNT(b) > 5
func TestSplit_GroupByHaving(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			expression.NewAlias("c", aggregation.NewCount(false, expression.NewColumn("b"))),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
		Having:       &plan.HavingPredicate{Op: sql.OpGt, Right: expression.NewLiteral(int64(5), sql.TypeInt64)},
		HavingColumn: 1,
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT a AS a, COUNT(b) AS __C1 FROM t GROUP BY a", result.MapEntries[0].SQL)
	require.Equal(
		"SELECT a, CAST(SUM(__C1) AS BIGINT) AS c FROM __T0 GROUP BY a HAVING CAST(SUM(__C1) AS BIGINT) > 5",
		result.ReduceSQL,
	)
}

// HAVING on an aggregate that isn't itself projected: SELECT a FROM t
// GROUP BY a HAVING COUNT(b) > 5. The synthetic COUNT(b) projection lives
// past VisibleCount and must still be rendered on the map side, or the
// merge table never has the column the reduce side's HAVING needs.
func TestSplit_HavingOnSyntheticColumn(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewCount(false, expression.NewColumn("b")),
		},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
		Having:       &plan.HavingPredicate{Op: sql.OpGt, Right: expression.NewLiteral(int64(5), sql.TypeInt64)},
		HavingColumn: 1,
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT a AS a, COUNT(b) AS __C1 FROM t GROUP BY a", result.MapEntries[0].SQL)
	require.Equal(
		"SELECT a FROM __T0 GROUP BY a HAVING CAST(SUM(__C1) AS BIGINT) > 5",
		result.ReduceSQL,
	)
}

// Scenario 6: SELECT MIN(a), MAX(a) FROM t
func TestSplit_MinMax(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			aggregation.NewMin(false, expression.NewColumn("a")),
			aggregation.NewMax(false, expression.NewColumn("a")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT MIN(a) AS __C0, MAX(a) AS __C1 FROM t", result.MapEntries[0].SQL)
	require.Equal("SELECT MIN(__C0), MAX(__C1) FROM __T0", result.ReduceSQL)
}

// A pre-aggregation WHERE combined with GROUP BY must render before GROUP
// BY on the map side, which retains the source's real row filter unchanged.
func TestSplit_WhereWithGroupBy(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewSum(false, expression.NewColumn("b")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		Where:        expression.NewBinaryOp(sql.OpGt, expression.NewColumn("b"), expression.NewLiteral(int64(0), sql.TypeInt64)),
		GroupBy:      []int{0},
	}

	result := mustSplit(t, src, Options{})
	require.Equal("SELECT a AS a, SUM(b) AS __C1 FROM t WHERE b > 0 GROUP BY a", result.MapEntries[0].SQL)
	require.Equal("SELECT a, SUM(__C1) FROM __T0 GROUP BY a", result.ReduceSQL)
}

func TestSplit_SourceIsNotMutated(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewSum(false, expression.NewColumn("b")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
	}
	before := src.String()

	mustSplit(t, src, Options{})

	require.Equal(before, src.String())
	require.IsType(&expression.Column{}, src.Projections[0])
}

func TestSplit_ReduceReferencesOnlyMergeTable(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections:  []sql.Expression{aggregation.NewAvg(false, expression.NewColumn("x"))},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
	}

	result := mustSplit(t, src, Options{})
	require.NotContains(result.ReduceSQL, " t")
	require.Contains(result.ReduceSQL, "__T0")
}

func TestSplit_UnsupportedAggregateFails(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections:  []sql.Expression{aggregation.NewAggregate(sql.AggKind(99), false, expression.NewColumn("a"))},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
	}

	_, err := Split(context.Background(), src, nil, Options{})
	require.Error(err)
	require.True(ErrUnsupportedAggregate.Is(err))
}

func TestSplit_OrderByOverAggregate_ReresolveOption(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewAvg(false, expression.NewColumn("x")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		OrderBy:      []plan.SortField{{ColumnIndex: 1, Direction: sql.Desc}},
	}

	defaultResult := mustSplit(t, src, Options{})
	require.Contains(defaultResult.ReduceSQL, "ORDER BY __C1 DESC")

	reresolved := mustSplit(t, src, Options{ReresolveSortToReduce: true})
	require.Contains(reresolved.ReduceSQL, "ORDER BY SUM(__C1 * __C2) / SUM(__C2) DESC")
}

func TestSplit_Determinism(t *testing.T) {
	require := require.New(t)

	src := &plan.Select{
		Projections: []sql.Expression{
			expression.NewColumn("a"),
			aggregation.NewSum(false, expression.NewColumn("b")),
		},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
	}

	first := mustSplit(t, src, Options{})
	second := mustSplit(t, src, Options{})
	require.Equal(first.ReduceSQL, second.ReduceSQL)
	require.Equal(first.MapEntries[0].SQL, second.MapEntries[0].SQL)
}
