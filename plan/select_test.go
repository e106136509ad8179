package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
)

func simpleSelect() *Select {
	return &Select{
		Projections:  []sql.Expression{expression.NewColumn("a"), expression.NewColumn("b")},
		VisibleCount: 2,
		From:         expression.NewTable("t"),
	}
}

func TestSelect_String_Basic(t *testing.T) {
	require := require.New(t)

	s := simpleSelect()
	require.Equal("SELECT a, b FROM t", s.String())
}

func TestSelect_String_FullClauses(t *testing.T) {
	require := require.New(t)

	limit, offset := int64(10), int64(5)
	s := &Select{
		Projections:  []sql.Expression{expression.NewAlias("a", expression.NewColumn("a"))},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
		Where:        expression.NewBinaryOp(sql.OpGt, expression.NewColumn("x"), expression.NewLiteral(int64(5), sql.TypeInt64)),
		OrderBy: []SortField{
			{ColumnIndex: 0, Direction: sql.Desc, Nulls: sql.NullsLast},
		},
		Limit:    &limit,
		Offset:   &offset,
		Distinct: true,
	}
	require.Equal(
		"SELECT DISTINCT a AS a FROM t WHERE x > 5 GROUP BY a ORDER BY a DESC NULLS LAST LIMIT 10 OFFSET 5",
		s.String(),
	)
}

func TestSelect_String_Having(t *testing.T) {
	require := require.New(t)

	// Left unresolved: falls back to the tracked projection at HavingColumn.
	s := &Select{
		Projections:  []sql.Expression{expression.NewColumn("a")},
		VisibleCount: 1,
		From:         expression.NewTable("t"),
		GroupBy:      []int{0},
		Having:       &HavingPredicate{Op: sql.OpGt, Right: expression.NewLiteral(int64(5), sql.TypeInt64)},
		HavingColumn: 0,
	}
	require.Equal("SELECT a FROM t GROUP BY a HAVING a > 5", s.String())

	// Left resolved: used as-is, ignoring HavingColumn/Projections.
	s.Having.Left = expression.NewColumn("cnt")
	require.Equal("SELECT a FROM t GROUP BY a HAVING cnt > 5", s.String())
}

func TestSelect_Clone_IsDeepAndIndependent(t *testing.T) {
	require := require.New(t)

	s := simpleSelect()
	s.GroupBy = []int{0}
	limit := int64(1)
	s.Limit = &limit

	cp := s.Clone()
	require.Equal(s.String(), cp.String())

	cp.Projections[0].(*expression.Column).Name = "z"
	*cp.Limit = 99
	require.Equal("a", s.Projections[0].(*expression.Column).Name)
	require.Equal(int64(1), *s.Limit)
}

func TestSelect_AllExpressionsAndSize(t *testing.T) {
	require := require.New(t)

	s := simpleSelect()
	require.Equal(2, s.Size())
	require.Len(s.AllExpressions(), 2)
}
