// Package aggregation holds the splitter's aggregate expression node and its
// constructors, mirroring the teacher's sql/expression/function/aggregation
// package (see aggregation.NewCount in sql/plan/group_by_test.go).
package aggregation

import "github.com/arborsql/splitqry/sql"

// Aggregate is one of AVG, SUM, MIN, MAX, COUNT, or COUNT(*). Arg is nil only
// for COUNT(*) (sql.AggCountAll); every other kind requires one.
//
// Unlike the teacher's aggregation constructors, these take no *sql.Context:
// the teacher's aggregate nodes are also runtime accumulators (they need a
// context to register with the function catalog and report memory use),
// while this Aggregate is construction-only — the splitter never evaluates
// it, only rewrites it — so there is nothing for a context to do here.
type Aggregate struct {
	Kind     sql.AggKind
	Distinct bool
	Arg      sql.Expression
}

// NewAggregate returns a fresh aggregate node of the given kind.
func NewAggregate(kind sql.AggKind, distinct bool, arg sql.Expression) *Aggregate {
	return &Aggregate{Kind: kind, Distinct: distinct, Arg: arg}
}

// NewAvg returns an AVG(arg) or AVG(DISTINCT arg) node.
func NewAvg(distinct bool, arg sql.Expression) *Aggregate {
	return NewAggregate(sql.AggAvg, distinct, arg)
}

// NewSum returns a SUM(arg) or SUM(DISTINCT arg) node.
func NewSum(distinct bool, arg sql.Expression) *Aggregate {
	return NewAggregate(sql.AggSum, distinct, arg)
}

// NewMin returns a MIN(arg) or MIN(DISTINCT arg) node.
func NewMin(distinct bool, arg sql.Expression) *Aggregate {
	return NewAggregate(sql.AggMin, distinct, arg)
}

// NewMax returns a MAX(arg) or MAX(DISTINCT arg) node.
func NewMax(distinct bool, arg sql.Expression) *Aggregate {
	return NewAggregate(sql.AggMax, distinct, arg)
}

// NewCount returns a COUNT(arg) or COUNT(DISTINCT arg) node.
func NewCount(distinct bool, arg sql.Expression) *Aggregate {
	return NewAggregate(sql.AggCount, distinct, arg)
}

// NewCountAll returns a COUNT(*) node.
func NewCountAll() *Aggregate {
	return &Aggregate{Kind: sql.AggCountAll}
}

func (a *Aggregate) String() string {
	if a.Kind == sql.AggCountAll {
		return "COUNT(*)"
	}
	arg := ""
	if a.Distinct {
		arg = "DISTINCT "
	}
	arg += a.Arg.String()
	return a.Kind.String() + "(" + arg + ")"
}

func (a *Aggregate) Clone() sql.Expression {
	cp := &Aggregate{Kind: a.Kind, Distinct: a.Distinct}
	if a.Arg != nil {
		cp.Arg = a.Arg.Clone()
	}
	return cp
}
