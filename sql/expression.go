// Package sql defines the interface and enums of the typed SQL AST the
// splitter operates on. The concrete node variants live in sql/expression,
// sql/expression/aggregation and plan; they are immutable from the caller's
// point of view and deep-cloneable so the splitter can build a map-side copy
// without aliasing the source tree.
package sql

import "fmt"

// Expression is any node that can appear inside a projection, a WHERE/HAVING
// predicate, or a clause argument. The set of concrete implementations is
// closed: *Column, *Literal, *Alias, *BinaryOp, *Func, and the aggregation
// package's *Aggregate.
type Expression interface {
	fmt.Stringer
	// Clone returns a structurally fresh copy with fresh node identity. Leaf
	// values are copied by value; child expressions are cloned recursively.
	Clone() Expression
}

// AggKind is the closed set of aggregate functions the splitter knows how to
// decompose. It is a Go enum rather than an open string so an unhandled kind
// is caught by an explicit default branch instead of silently falling through.
type AggKind int

const (
	AggAvg AggKind = iota
	AggSum
	AggMin
	AggMax
	AggCount
	AggCountAll
)

func (k AggKind) String() string {
	switch k {
	case AggAvg:
		return "AVG"
	case AggSum:
		return "SUM"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggCount:
		return "COUNT"
	case AggCountAll:
		return "COUNT"
	default:
		return fmt.Sprintf("AGG(%d)", int(k))
	}
}

// OpKind is the closed set of binary operators the AST can represent.
type OpKind int

const (
	OpEq OpKind = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLike
)

func (k OpKind) String() string {
	switch k {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpLike:
		return "LIKE"
	default:
		return fmt.Sprintf("OP(%d)", int(k))
	}
}

// Type names a literal's or CAST target's SQL type. It is a thin string enum:
// the splitter never inspects a value's type beyond passing CastType through,
// so a closed struct hierarchy would add ceremony without buying safety.
type Type string

const (
	TypeUnknown Type = ""
	TypeInt64   Type = "BIGINT"
	TypeDouble  Type = "DOUBLE"
	TypeVarChar Type = "VARCHAR"
	TypeBool    Type = "BOOL"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// NullsOrder places NULLs first, last, or leaves it to the engine's default.
type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)
