// Package expression holds the concrete sql.Expression implementations and
// the factory functions the splitter uses to synthesize new AST nodes,
// mirroring the split between the teacher's sql (interfaces) and
// sql/expression (concrete nodes) packages.
package expression

import "github.com/arborsql/splitqry/sql"

// Column is a schema- or table-qualified column reference, or a bare name.
// LookupName is what a real binder resolves against a schema; Name is what
// gets rendered. The two differ for case-insensitive engines that fold
// LookupName but keep Name for display; the splitter never needs them to
// diverge, but carries both to match the data model in full.
type Column struct {
	Qualifier  string
	Name       string
	LookupName string
}

// NewColumn returns a bare, unqualified column reference whose lookup name
// equals its display name.
func NewColumn(name string) *Column {
	return &Column{Name: name, LookupName: name}
}

// NewQualifiedColumn returns a column reference qualified by a table or
// schema name, e.g. "t.a".
func NewQualifiedColumn(qualifier, name string) *Column {
	return &Column{Qualifier: qualifier, Name: name, LookupName: name}
}

func (c *Column) String() string {
	if c.Qualifier != "" {
		return c.Qualifier + "." + c.Name
	}
	return c.Name
}

func (c *Column) Clone() sql.Expression {
	cp := *c
	return &cp
}
