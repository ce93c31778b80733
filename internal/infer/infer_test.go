package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/env"
)

// const = 1
func TestInferNumericLiteralStaysOpen(t *testing.T) {
	def := &ast.Definition{
		Name: "const",
		Expr: &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(1)}},
	}

	typ, err := NewAnalyzer().Infer(env.New(), def)
	require.NoError(t, err)
	assert.Equal(t, "number", typ.String())
}

// id arg1 = arg1
func TestInferIdentityFunction(t *testing.T) {
	def := &ast.Definition{
		Name:     "id",
		Patterns: []ast.Pattern{&ast.PVar{Name: "arg1"}},
		Expr:     &ast.Ref{Name: "arg1"},
	}

	typ, err := NewAnalyzer().Infer(env.New(), def)
	require.NoError(t, err)
	fn, ok := typ.(*ast.Fun)
	require.True(t, ok, "expected a function type, got %s", typ)
	assert.Equal(t, fn.In.String(), fn.Out.String(), "identity's argument and result must share one type variable")
}

// Basics exposes "+" : number -> number -> number; sum a b = a + b
func TestInferUsesImportedOperatorSignature(t *testing.T) {
	e := env.New()
	e.AddDefinition("+", &ast.Fun{
		In:  &ast.Var{Name: "number"},
		Out: &ast.Fun{In: &ast.Var{Name: "number"}, Out: &ast.Var{Name: "number"}},
	})

	def := &ast.Definition{
		Name:     "sum",
		Patterns: []ast.Pattern{&ast.PVar{Name: "a"}, &ast.PVar{Name: "b"}},
		Expr: &ast.OpChain{
			Terms: []ast.Expr{&ast.Ref{Name: "a"}, &ast.Ref{Name: "b"}},
			Ops:   []string{"+"},
		},
	}

	typ, err := NewAnalyzer().Infer(e, def)
	require.NoError(t, err)
	assert.Equal(t, "number -> number -> number", typ.String())
}

func TestInferIfBranchesMustUnify(t *testing.T) {
	def := &ast.Definition{
		Name: "pick",
		Expr: &ast.If{
			Cond: &ast.LitExpr{Value: ast.Literal{Kind: ast.BoolLit, Value: true}},
			Then: &ast.LitExpr{Value: ast.Literal{Kind: ast.StringLit, Value: "a"}},
			Else: &ast.LitExpr{Value: ast.Literal{Kind: ast.IntLit, Value: int64(1)}},
		},
	}
	_, err := NewAnalyzer().Infer(env.New(), def)
	assert.Error(t, err)
}

func TestInferSignatureMismatchIsRejected(t *testing.T) {
	def := &ast.Definition{
		Name:      "const",
		Expr:      &ast.LitExpr{Value: ast.Literal{Kind: ast.StringLit, Value: "x"}},
		Signature: &ast.Tag{Name: "Int"},
	}
	_, err := NewAnalyzer().Infer(env.New(), def)
	assert.Error(t, err)
}

func TestInferSignatureMoreGeneralIsAccepted(t *testing.T) {
	def := &ast.Definition{
		Name:      "id",
		Patterns:  []ast.Pattern{&ast.PVar{Name: "x"}},
		Expr:      &ast.Ref{Name: "x"},
		Signature: &ast.Fun{In: &ast.Var{Name: "a"}, Out: &ast.Var{Name: "a"}},
	}
	typ, err := NewAnalyzer().Infer(env.New(), def)
	require.NoError(t, err)
	assert.Equal(t, def.Signature, typ)
}
