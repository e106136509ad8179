package expression

import (
	"fmt"
	"strings"

	"github.com/arborsql/splitqry/sql"
)

// Literal is a typed constant appearing in an expression tree (a LIMIT
// value, a HAVING threshold, and so on).
type Literal struct {
	Value interface{}
	Type  sql.Type
}

// NewLiteral returns a typed constant node.
func NewLiteral(value interface{}, typ sql.Type) *Literal {
	return &Literal{Value: value, Type: typ}
}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (l *Literal) Clone() sql.Expression {
	cp := *l
	return &cp
}
