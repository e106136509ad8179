// Package plan holds statement-level nodes — currently just Select — built
// on top of sql and sql/expression, mirroring the teacher's split between
// sql/expression (scalar nodes) and sql/plan (statement nodes).
package plan

import "github.com/arborsql/splitqry/sql"

// SortField is one ORDER BY key. ColumnIndex identifies which projection
// slot of the owning Select it sorts by; Target, when set, overrides that
// lookup with an explicit expression (the splitter sets this on the reduce
// side when it needs to sort by something other than the map-side alias,
// see Options.ReresolveSortToReduce).
type SortField struct {
	ColumnIndex int
	Target      sql.Expression
	Direction   sql.Direction
	Nulls       sql.NullsOrder
}

func (sf SortField) clone() SortField {
	cp := sf
	if sf.Target != nil {
		cp.Target = sf.Target.Clone()
	}
	return cp
}
