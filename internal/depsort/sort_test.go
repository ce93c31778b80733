package depsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/errors"
)

func defStmt(name string, expr ast.Expr) *ast.DefStm {
	return &ast.DefStm{Def: &ast.Definition{Name: name, Expr: expr}}
}

func names(stmts []ast.Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.StatementName()
	}
	return out
}

// y = x + 1 ; x = 0 ; z = y
func TestSortLeafRemovalOrdering(t *testing.T) {
	stmts := []ast.Statement{
		defStmt("y", &ast.OpChain{
			Terms: []ast.Expr{&ast.Ref{Name: "x"}, &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(1)}}},
			Ops:   []string{"+"},
		}),
		defStmt("x", &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(0)}}),
		defStmt("z", &ast.Ref{Name: "y"}),
	}

	sorted, err := Sort(stmts)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, names(sorted))
}

func TestSortIndependentStatementsKeepSourceOrder(t *testing.T) {
	stmts := []ast.Statement{
		defStmt("b", &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(1)}}),
		defStmt("a", &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(2)}}),
	}
	sorted, err := Sort(stmts)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names(sorted), "independent leaves keep their source order")
}

func TestSortDetectsCycle(t *testing.T) {
	stmts := []ast.Statement{
		defStmt("a", &ast.Ref{Name: "b"}),
		defStmt("b", &ast.Ref{Name: "a"}),
	}
	sorted, err := Sort(stmts)
	assert.Error(t, err)
	assert.Len(t, sorted, 2, "cyclic statements are still returned, best-effort")

	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeCyclicDependency, rep.Code)
}
