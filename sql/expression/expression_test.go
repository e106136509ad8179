package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborsql/splitqry/sql"
)

func TestColumn_String(t *testing.T) {
	require := require.New(t)

	require.Equal("a", NewColumn("a").String())
	require.Equal("t.a", NewQualifiedColumn("t", "a").String())
}

func TestColumn_Clone(t *testing.T) {
	require := require.New(t)

	c := NewQualifiedColumn("t", "a")
	cp := c.Clone().(*Column)
	require.Equal(c, cp)

	cp.Name = "b"
	require.Equal("a", c.Name)
}

func TestLiteral_String(t *testing.T) {
	require := require.New(t)

	require.Equal("NULL", NewLiteral(nil, sql.TypeUnknown).String())
	require.Equal("5", NewLiteral(int64(5), sql.TypeInt64).String())
	require.Equal("'it''s'", NewLiteral("it's", sql.TypeVarChar).String())
}

func TestAlias_StringAndUnalias(t *testing.T) {
	require := require.New(t)

	a := NewAlias("total", NewColumn("b"))
	require.Equal("b AS total", a.String())

	name, inner := Unalias(a)
	require.Equal("total", name)
	require.Equal(NewColumn("b"), inner)

	name, inner = Unalias(NewColumn("b"))
	require.Equal("", name)
	require.Equal(NewColumn("b"), inner)
}

func TestBinaryOp_String(t *testing.T) {
	require := require.New(t)

	op := NewBinaryOp(sql.OpMul, NewColumn("a"), NewColumn("b"))
	require.Equal("a * b", op.String())
}

func TestFunc_StringAndCast(t *testing.T) {
	require := require.New(t)

	f := NewFunc("UPPER", NewColumn("a"))
	require.Equal("UPPER(a)", f.String())

	cast := NewCast(NewColumn("a"), "DOUBLE")
	require.Equal("CAST(a AS DOUBLE)", cast.String())
}

func TestTable_String(t *testing.T) {
	require := require.New(t)

	require.Equal("t", NewTable("t").String())
	require.Equal("s.t", NewQualifiedTable("s", "t").String())
}

func TestClone_IsStructurallyFreshButEqual(t *testing.T) {
	require := require.New(t)

	orig := NewAlias("x", NewBinaryOp(sql.OpAdd, NewColumn("a"), NewLiteral(int64(1), sql.TypeInt64)))
	cloned := orig.Clone()
	require.Equal(orig, cloned)
	require.NotSame(orig, cloned)
}
