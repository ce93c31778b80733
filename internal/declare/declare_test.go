package declare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/infer"
)

func declNames(decls []ast.Declaration) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.DeclName()
	}
	return out
}

// type Adt = A | B
func TestAnalyzeAdtEmitsDescriptorAndConstructors(t *testing.T) {
	stm := &ast.AdtStm{
		Name: "Adt",
		Variants: []ast.AdtVariant{
			{Name: "A"},
			{Name: "B"},
		},
	}

	decls, err := AnalyzeStatement(env.New(), infer.NewAnalyzer(), stm)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	adtDecl, ok := decls[0].(*ast.AdtDecl)
	require.True(t, ok)
	assert.Equal(t, "Adt", adtDecl.Name)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{adtDecl.Descriptor.Variants[0].Name, adtDecl.Descriptor.Variants[1].Name})

	a, ok := decls[1].(*ast.DefDecl)
	require.True(t, ok)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, "Adt", a.Type.String())

	b, ok := decls[2].(*ast.DefDecl)
	require.True(t, ok)
	assert.Equal(t, "B", b.Name)
	assert.Equal(t, "Adt", b.Type.String())
}

// Alias A a = a, declared vars [] -> UndeclaredTypeVariables(["a"])
func TestAnalyzeAliasUndeclaredVariable(t *testing.T) {
	stm := &ast.AliasStm{Name: "A", Vars: nil, Type: &ast.Var{Name: "a"}}
	_, err := AnalyzeStatement(env.New(), infer.NewAnalyzer(), stm)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeUndeclaredTypeVariables, rep.Code)
}

// Alias A a = a, declared vars ["a","b"] -> UnusedTypeVariables(["b"])
func TestAnalyzeAliasUnusedVariable(t *testing.T) {
	stm := &ast.AliasStm{Name: "A", Vars: []string{"a", "b"}, Type: &ast.Var{Name: "a"}}
	_, err := AnalyzeStatement(env.New(), infer.NewAnalyzer(), stm)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeUnusedTypeVariables, rep.Code)
}

// alias body is Record([(f1,t1),...]) -> alias + Def(name, t1 -> ... -> Record)
func TestAnalyzeAliasRecordEmitsConstructor(t *testing.T) {
	recType := &ast.Record{Fields: []ast.RecordField{
		{Name: "x", Type: &ast.Tag{Name: "Int"}},
		{Name: "y", Type: &ast.Tag{Name: "Int"}},
	}}
	stm := &ast.AliasStm{Name: "Point", Vars: nil, Type: recType}

	decls, err := AnalyzeStatement(env.New(), infer.NewAnalyzer(), stm)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	alias, ok := decls[0].(*ast.AliasDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", alias.Name)

	ctor, ok := decls[1].(*ast.DefDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", ctor.Name)
	assert.Equal(t, "Int -> Int -> { x : Int, y : Int }", ctor.Type.String())
}

func TestAnalyzeStatementsPushesDeclarationsInOrder(t *testing.T) {
	e := env.New()
	stmts := []ast.Statement{
		&ast.DefStm{Def: &ast.Definition{Name: "z", Expr: &ast.Ref{Name: "y"}}},
		&ast.DefStm{Def: &ast.Definition{Name: "y", Expr: &ast.OpChain{
			Terms: []ast.Expr{&ast.Ref{Name: "x"}, &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(1)}}},
			Ops:   []string{"+"},
		}}},
		&ast.DefStm{Def: &ast.Definition{Name: "x", Expr: &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(0)}}}},
	}
	e.AddDefinition("+", &ast.Fun{In: &ast.Var{Name: "number"}, Out: &ast.Fun{In: &ast.Var{Name: "number"}, Out: &ast.Var{Name: "number"}}})

	decls, errs := AnalyzeStatements(e, infer.NewAnalyzer(), stmts)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"x", "y", "z"}, declNames(decls))

	zType, ok := e.FindDefinition("z")
	require.True(t, ok)
	assert.Equal(t, "number", zType.String())
}

func TestAnalyzeStatementsResolvesInfixInPostPass(t *testing.T) {
	e := env.New()
	stmts := []ast.Statement{
		&ast.InfixStm{Operator: "+++", Underlying: "concat", Precedence: 5},
		&ast.DefStm{Def: &ast.Definition{Name: "concat", Expr: &ast.LitExpr{Value: ast.Literal{Kind: ast.StringLit, Value: "x"}}}},
	}

	decls, errs := AnalyzeStatements(e, infer.NewAnalyzer(), stmts)
	assert.Empty(t, errs)

	var sawOperator bool
	for _, d := range decls {
		if d.DeclName() == "+++" {
			sawOperator = true
			assert.Equal(t, "String", d.(*ast.DefDecl).Type.String())
		}
	}
	assert.True(t, sawOperator, "expected +++ to resolve to concat's inferred type")
}

// type Maybe a = Just a | Nothing, checked structurally with go-cmp
// rather than field-by-field assertions, the way the teacher's
// internal/parser/testutil.go compares parsed trees.
func TestAnalyzeAdtDescriptorVariantShape(t *testing.T) {
	stm := &ast.AdtStm{
		Name: "Maybe",
		Vars: []string{"a"},
		Variants: []ast.AdtVariant{
			{Name: "Just", Args: []ast.Type{&ast.Var{Name: "a"}}},
			{Name: "Nothing"},
		},
	}

	decls, err := AnalyzeStatement(env.New(), infer.NewAnalyzer(), stm)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	adtDecl := decls[0].(*ast.AdtDecl)
	want := []ast.AdtVariant{
		{Name: "Just", Args: []ast.Type{&ast.Var{Name: "a"}}},
		{Name: "Nothing"},
	}
	if diff := cmp.Diff(want, adtDecl.Descriptor.Variants); diff != "" {
		t.Errorf("descriptor variants mismatch (-want +got):\n%s", diff)
	}
}
