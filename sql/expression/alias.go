package expression

import "github.com/arborsql/splitqry/sql"

// Alias introduces a named projection: child AS name. Every map-side
// projection the splitter emits is wrapped in one of these, by invariant.
type Alias struct {
	Name  string
	Child sql.Expression
}

// NewAlias returns child wrapped under the given alias name.
func NewAlias(name string, child sql.Expression) *Alias {
	return &Alias{Name: name, Child: child}
}

func (a *Alias) String() string {
	return a.Child.String() + " AS " + a.Name
}

func (a *Alias) Clone() sql.Expression {
	return &Alias{Name: a.Name, Child: a.Child.Clone()}
}

// Unalias returns the user-facing alias name (empty if expr isn't an Alias)
// and the expression underneath it (expr itself if it isn't an Alias).
func Unalias(expr sql.Expression) (name string, inner sql.Expression) {
	if a, ok := expr.(*Alias); ok {
		return a.Name, a.Child
	}
	return "", expr
}
