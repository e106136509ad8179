package expression

import (
	"strings"

	"github.com/arborsql/splitqry/sql"
)

// Func is a scalar function call. CAST is the one variant the splitter
// itself synthesizes (to widen an AVG argument to DOUBLE, and to narrow a
// decomposed COUNT/SUM back to BIGINT); CastType only has meaning when Kind
// is "CAST".
type Func struct {
	Kind     string
	Args     []sql.Expression
	CastType string
}

// NewFunc returns a general function-call node.
func NewFunc(kind string, args ...sql.Expression) *Func {
	return &Func{Kind: kind, Args: args}
}

// NewCast returns a CAST(expr AS castType) node.
func NewCast(expr sql.Expression, castType string) *Func {
	return &Func{Kind: "CAST", Args: []sql.Expression{expr}, CastType: castType}
}

func (f *Func) String() string {
	if f.Kind == "CAST" {
		return "CAST(" + f.Args[0].String() + " AS " + f.CastType + ")"
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return f.Kind + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) Clone() sql.Expression {
	args := make([]sql.Expression, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Clone()
	}
	return &Func{Kind: f.Kind, Args: args, CastType: f.CastType}
}
