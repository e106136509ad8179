package plan

import (
	"strings"

	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
)

// Select is a single, non-nested SELECT statement. Projections holds every
// expression the statement evaluates, in order: the user-visible output
// columns first, followed by any columns a clause needs but that aren't
// themselves selected (a HAVING predicate's aggregate operand that isn't
// also projected, for instance). VisibleCount marks where the visible
// prefix ends.
//
// OrderBy is an ordered slice rather than a map keyed by projection index:
// a real ORDER BY can carry more than one sort key and their relative order
// is significant, and Go map iteration order is randomized, which would
// make two splits of the same input produce different SQL text.
type Select struct {
	Projections []sql.Expression
	// VisibleCount is the number of leading Projections entries that are
	// real output columns; entries at or past this index exist only to
	// support HAVING/ORDER BY and are never rendered in the column list.
	VisibleCount int

	From  *expression.Table
	Where sql.Expression

	// GroupBy holds indices into Projections.
	GroupBy []int

	// Having, when non-nil, is the HAVING predicate. Before splitting, Left
	// is nil and the predicate's operand is the tracked aggregate living at
	// HavingColumn (an index into Projections); once the splitter has
	// reconstructed that column's reduce-side value, it sets Left directly
	// so String never needs to re-resolve it through Projections, which on
	// the reduce side may not even hold a visible entry for HavingColumn.
	// HavingColumn is meaningless when Having is nil.
	Having       *HavingPredicate
	HavingColumn int

	OrderBy []SortField

	Limit  *int64
	Offset *int64

	Distinct bool
}

// HavingPredicate is a HAVING clause's comparison: Left op Right. Left is
// nil until the splitter resolves it (see Select.Having).
type HavingPredicate struct {
	Left  sql.Expression
	Op    sql.OpKind
	Right sql.Expression
}

func (h *HavingPredicate) clone() *HavingPredicate {
	cp := &HavingPredicate{Op: h.Op, Right: h.Right.Clone()}
	if h.Left != nil {
		cp.Left = h.Left.Clone()
	}
	return cp
}

// AllExpressions returns every expression the statement evaluates: the
// visible projections followed by any clause-only synthetic entries.
func (s *Select) AllExpressions() []sql.Expression {
	return s.Projections
}

// Size is the number of user-visible output columns.
func (s *Select) Size() int {
	return s.VisibleCount
}

// Clone returns a deep, structurally fresh copy. The source Select is never
// mutated by the splitter; Clone is how the map-side statement is seeded.
func (s *Select) Clone() *Select {
	cp := &Select{
		VisibleCount: s.VisibleCount,
		HavingColumn: s.HavingColumn,
		Distinct:     s.Distinct,
	}
	if s.Projections != nil {
		cp.Projections = make([]sql.Expression, len(s.Projections))
		for i, e := range s.Projections {
			cp.Projections[i] = e.Clone()
		}
	}
	if s.From != nil {
		cp.From = s.From.Clone()
	}
	if s.Where != nil {
		cp.Where = s.Where.Clone()
	}
	if s.GroupBy != nil {
		cp.GroupBy = append([]int{}, s.GroupBy...)
	}
	if s.Having != nil {
		cp.Having = s.Having.clone()
	}
	if s.OrderBy != nil {
		cp.OrderBy = make([]SortField, len(s.OrderBy))
		for i, sf := range s.OrderBy {
			cp.OrderBy[i] = sf.clone()
		}
	}
	if s.Limit != nil {
		l := *s.Limit
		cp.Limit = &l
	}
	if s.Offset != nil {
		o := *s.Offset
		cp.Offset = &o
	}
	return cp
}

// orderByTarget resolves a SortField against this Select's own Projections:
// an explicit Target wins; otherwise the projection at ColumnIndex is used,
// by its alias name if it carries one.
func (s *Select) orderByTarget(sf SortField) sql.Expression {
	if sf.Target != nil {
		return sf.Target
	}
	expr := s.Projections[sf.ColumnIndex]
	if name, _ := expression.Unalias(expr); name != "" {
		return expression.NewColumn(name)
	}
	return expr
}

// groupByTarget resolves a GROUP BY index the same way orderByTarget does.
func (s *Select) groupByTarget(idx int) sql.Expression {
	expr := s.Projections[idx]
	if name, _ := expression.Unalias(expr); name != "" {
		return expression.NewColumn(name)
	}
	return expr
}

// havingLeft resolves Having's left operand: the splitter-reconstructed
// value if set, otherwise the tracked projection at HavingColumn.
func (s *Select) havingLeft() sql.Expression {
	if s.Having.Left != nil {
		return s.Having.Left
	}
	return s.groupByTarget(s.HavingColumn)
}

// String renders canonical SQL text in standard clause order: SELECT/FROM/
// WHERE/GROUP BY/HAVING/ORDER BY/LIMIT/OFFSET.
func (s *Select) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	cols := make([]string, s.VisibleCount)
	for i := 0; i < s.VisibleCount; i++ {
		cols[i] = s.Projections[i].String()
	}
	b.WriteString(strings.Join(cols, ", "))
	if s.From != nil {
		b.WriteString(" FROM ")
		b.WriteString(s.From.String())
	}
	if s.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		parts := make([]string, len(s.GroupBy))
		for i, idx := range s.GroupBy {
			parts[i] = s.groupByTarget(idx).String()
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if s.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(s.havingLeft().String())
		b.WriteString(" ")
		b.WriteString(s.Having.Op.String())
		b.WriteString(" ")
		b.WriteString(s.Having.Right.String())
	}
	if len(s.OrderBy) > 0 {
		parts := make([]string, len(s.OrderBy))
		for i, sf := range s.OrderBy {
			target := s.orderByTarget(sf)
			part := target.String()
			if sf.Direction == sql.Desc {
				part += " DESC"
			}
			switch sf.Nulls {
			case sql.NullsFirst:
				part += " NULLS FIRST"
			case sql.NullsLast:
				part += " NULLS LAST"
			}
			parts[i] = part
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(expression.NewLiteral(*s.Limit, sql.TypeInt64).String())
	}
	if s.Offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(expression.NewLiteral(*s.Offset, sql.TypeInt64).String())
	}
	return b.String()
}
