// Package fromvitess adapts a gopkg.in/src-d/go-vitess.v0/vt/sqlparser AST
// — the parser collaborator named in the splitter's external interface — to
// this repository's own plan.Select tree. It covers the subset of SELECT
// syntax the splitter acts on: single-table queries with column/literal/
// function/aggregate projections, a flat WHERE, GROUP BY, one HAVING
// comparison, ORDER BY, LIMIT/OFFSET, and DISTINCT. Subqueries, joins, and
// window functions are out of scope and return an error rather than a
// best-effort guess.
package fromvitess

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"

	"github.com/arborsql/splitqry/plan"
	"github.com/arborsql/splitqry/sql"
	"github.com/arborsql/splitqry/sql/expression"
	"github.com/arborsql/splitqry/sql/expression/aggregation"
)

// aggNames maps lower-cased function-call names (convertFunc lowers them
// with Lowered before the lookup) to the splitter's closed AggKind enum.
var aggNames = map[string]sql.AggKind{
	"avg":   sql.AggAvg,
	"sum":   sql.AggSum,
	"min":   sql.AggMin,
	"max":   sql.AggMax,
	"count": sql.AggCount,
}

// Convert parses sqlText and builds the equivalent plan.Select. Bind
// variable placeholders are not converted: a placeholder literal makes
// Convert return an error.
func Convert(sqlText string) (*plan.Select, error) {
	stmt, err := sqlparser.Parse(sqlText)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.Errorf("fromvitess: %T is not a SELECT", stmt)
	}
	return convertSelect(sel)
}

func convertSelect(sel *sqlparser.Select) (*plan.Select, error) {
	out := &plan.Select{Distinct: sel.Distinct != ""}

	from, err := convertFrom(sel.From)
	if err != nil {
		return nil, err
	}
	out.From = from

	alias := map[string]int{}
	for _, se := range sel.SelectExprs {
		aliased, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, errors.Errorf("fromvitess: unsupported select item %T", se)
		}
		expr, err := convertExpr(aliased.Expr)
		if err != nil {
			return nil, err
		}
		if !aliased.As.IsEmpty() {
			expr = expression.NewAlias(aliased.As.String(), expr)
		}
		alias[columnLabel(aliased)] = len(out.Projections)
		out.Projections = append(out.Projections, expr)
	}
	out.VisibleCount = len(out.Projections)

	if sel.Where != nil {
		where, err := convertExpr(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		out.Where = where
	}

	for _, gb := range sel.GroupBy {
		idx, err := resolveProjectionRef(gb, alias, out)
		if err != nil {
			return nil, err
		}
		out.GroupBy = append(out.GroupBy, idx)
	}

	if sel.Having != nil {
		cmp, ok := sel.Having.Expr.(*sqlparser.ComparisonExpr)
		if !ok {
			return nil, errors.Errorf("fromvitess: HAVING must be a single comparison, got %T", sel.Having.Expr)
		}
		op, err := convertComparisonOp(cmp.Operator)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(cmp.Right)
		if err != nil {
			return nil, err
		}
		idx, err := resolveHavingRef(cmp.Left, alias, out)
		if err != nil {
			return nil, err
		}
		out.HavingColumn = idx
		out.Having = &plan.HavingPredicate{Op: op, Right: right}
	}

	for _, ob := range sel.OrderBy {
		idx, err := resolveProjectionRef(ob.Expr, alias, out)
		if err != nil {
			return nil, err
		}
		sf := plan.SortField{ColumnIndex: idx}
		if ob.Direction == sqlparser.DescScr {
			sf.Direction = sql.Desc
		}
		out.OrderBy = append(out.OrderBy, sf)
	}

	if sel.Limit != nil {
		if sel.Limit.Rowcount != nil {
			n, err := intLiteral(sel.Limit.Rowcount)
			if err != nil {
				return nil, err
			}
			out.Limit = &n
		}
		if sel.Limit.Offset != nil {
			n, err := intLiteral(sel.Limit.Offset)
			if err != nil {
				return nil, err
			}
			out.Offset = &n
		}
	}

	return out, nil
}

func convertFrom(tables sqlparser.TableExprs) (*expression.Table, error) {
	if len(tables) != 1 {
		return nil, errors.Errorf("fromvitess: expected exactly one FROM table, got %d", len(tables))
	}
	ate, ok := tables[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.Errorf("fromvitess: unsupported FROM item %T (joins are out of scope)", tables[0])
	}
	tn, ok := ate.Expr.(sqlparser.TableName)
	if !ok {
		return nil, errors.Errorf("fromvitess: unsupported table expression %T", ate.Expr)
	}
	if tn.Qualifier.IsEmpty() {
		return expression.NewTable(tn.Name.String()), nil
	}
	return expression.NewQualifiedTable(tn.Qualifier.String(), tn.Name.String()), nil
}

func convertExpr(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	case *sqlparser.ColName:
		if v.Qualifier.IsEmpty() {
			return expression.NewColumn(v.Name.String()), nil
		}
		return expression.NewQualifiedColumn(v.Qualifier.Name.String(), v.Name.String()), nil

	case *sqlparser.SQLVal:
		return convertLiteral(v)

	case *sqlparser.NullVal:
		return expression.NewLiteral(nil, sql.TypeUnknown), nil

	case *sqlparser.FuncExpr:
		return convertFunc(v)

	case *sqlparser.ConvertExpr:
		inner, err := convertExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return expression.NewCast(inner, v.Type.Type), nil

	case *sqlparser.AndExpr:
		return convertBinary(sql.OpAnd, v.Left, v.Right)
	case *sqlparser.OrExpr:
		return convertBinary(sql.OpOr, v.Left, v.Right)
	case *sqlparser.BinaryExpr:
		op, err := convertArithOp(v.Operator)
		if err != nil {
			return nil, err
		}
		return convertBinary(op, v.Left, v.Right)
	case *sqlparser.ComparisonExpr:
		op, err := convertComparisonOp(v.Operator)
		if err != nil {
			return nil, err
		}
		return convertBinary(op, v.Left, v.Right)

	case *sqlparser.ParenExpr:
		return convertExpr(v.Expr)

	default:
		return nil, errors.Errorf("fromvitess: unsupported expression %T", e)
	}
}

func convertBinary(op sql.OpKind, l, r sqlparser.Expr) (sql.Expression, error) {
	left, err := convertExpr(l)
	if err != nil {
		return nil, err
	}
	right, err := convertExpr(r)
	if err != nil {
		return nil, err
	}
	return expression.NewBinaryOp(op, left, right), nil
}

func convertFunc(f *sqlparser.FuncExpr) (sql.Expression, error) {
	name := f.Name.Lowered()
	if kind, ok := aggNames[name]; ok {
		if f.Distinct && len(f.Exprs) != 1 {
			return nil, errors.Errorf("fromvitess: DISTINCT aggregate needs exactly one argument")
		}
		if f.StarExpr() {
			if kind != sql.AggCount {
				return nil, errors.Errorf("fromvitess: %s(*) is not supported", name)
			}
			return aggregation.NewCountAll(), nil
		}
		arg, err := convertFuncArg(f.Exprs[0])
		if err != nil {
			return nil, err
		}
		return aggregation.NewAggregate(kind, f.Distinct, arg), nil
	}

	args := make([]sql.Expression, 0, len(f.Exprs))
	for _, se := range f.Exprs {
		arg, err := convertFuncArg(se)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return expression.NewFunc(f.Name.String(), args...), nil
}

func convertFuncArg(se sqlparser.SelectExpr) (sql.Expression, error) {
	aliased, ok := se.(*sqlparser.AliasedExpr)
	if !ok {
		return nil, errors.Errorf("fromvitess: unsupported function argument %T", se)
	}
	return convertExpr(aliased.Expr)
}

func convertLiteral(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse int literal")
		}
		return expression.NewLiteral(n, sql.TypeInt64), nil
	case sqlparser.FloatVal:
		n, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse float literal")
		}
		return expression.NewLiteral(n, sql.TypeDouble), nil
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.TypeVarChar), nil
	default:
		return nil, errors.Errorf("fromvitess: unsupported literal type %v", v.Type)
	}
}

func intLiteral(e sqlparser.Expr) (int64, error) {
	v, ok := e.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, errors.Errorf("fromvitess: expected an integer literal, got %T", e)
	}
	return strconv.ParseInt(string(v.Val), 10, 64)
}

func convertComparisonOp(op string) (sql.OpKind, error) {
	switch op {
	case sqlparser.EqualStr:
		return sql.OpEq, nil
	case sqlparser.NotEqualStr:
		return sql.OpNeq, nil
	case sqlparser.LessThanStr:
		return sql.OpLt, nil
	case sqlparser.LessEqualStr:
		return sql.OpLte, nil
	case sqlparser.GreaterThanStr:
		return sql.OpGt, nil
	case sqlparser.GreaterEqualStr:
		return sql.OpGte, nil
	case sqlparser.LikeStr:
		return sql.OpLike, nil
	default:
		return 0, errors.Errorf("fromvitess: unsupported comparison operator %q", op)
	}
}

func convertArithOp(op string) (sql.OpKind, error) {
	switch op {
	case sqlparser.PlusStr:
		return sql.OpAdd, nil
	case sqlparser.MinusStr:
		return sql.OpSub, nil
	case sqlparser.MultStr:
		return sql.OpMul, nil
	case sqlparser.DivStr:
		return sql.OpDiv, nil
	case sqlparser.ModStr:
		return sql.OpMod, nil
	default:
		return 0, errors.Errorf("fromvitess: unsupported arithmetic operator %q", op)
	}
}

// columnLabel names a select item for GROUP BY / ORDER BY / HAVING
// back-reference resolution: its explicit alias, or its source text when
// bare, matching how a real SQL engine resolves those clauses against the
// select list.
func columnLabel(a *sqlparser.AliasedExpr) string {
	if !a.As.IsEmpty() {
		return a.As.String()
	}
	if col, ok := a.Expr.(*sqlparser.ColName); ok {
		return col.Name.String()
	}
	return ""
}

// resolveProjectionRef resolves a GROUP BY / ORDER BY expression to a
// projection index: by alias/bare-name match against the select list, or,
// failing that, as an ordinal position (ORDER BY 1).
func resolveProjectionRef(e sqlparser.Expr, alias map[string]int, sel *plan.Select) (int, error) {
	if col, ok := e.(*sqlparser.ColName); ok && col.Qualifier.IsEmpty() {
		if idx, ok := alias[col.Name.String()]; ok {
			return idx, nil
		}
	}
	if lit, ok := e.(*sqlparser.SQLVal); ok && lit.Type == sqlparser.IntVal {
		n, err := strconv.Atoi(string(lit.Val))
		if err != nil {
			return 0, errors.Wrap(err, "parse ordinal reference")
		}
		if n < 1 || n > len(sel.Projections) {
			return 0, errors.Errorf("fromvitess: ordinal reference %d out of range", n)
		}
		return n - 1, nil
	}
	return 0, fmt.Errorf("fromvitess: cannot resolve %T against the select list", e)
}

// resolveHavingRef resolves HAVING's left operand to a projection index. If
// the aggregate already appears in the select list it is reused (matching
// the splitter's "reused" worked scenario); otherwise it is appended as a
// synthetic, non-visible projection so the splitter can still decompose it.
func resolveHavingRef(e sqlparser.Expr, alias map[string]int, sel *plan.Select) (int, error) {
	if idx, err := resolveProjectionRef(e, alias, sel); err == nil {
		return idx, nil
	}
	expr, err := convertExpr(e)
	if err != nil {
		return 0, err
	}
	for i, p := range sel.Projections {
		if _, inner := expression.Unalias(p); inner.String() == expr.String() {
			return i, nil
		}
	}
	sel.Projections = append(sel.Projections, expr)
	return len(sel.Projections) - 1, nil
}
