package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
)

func TestEnterExitBlockDiscipline(t *testing.T) {
	e := New()
	assert.Equal(t, 1, e.Depth())

	e.EnterBlock()
	e.AddVariable("x", &ast.Tag{Name: "Int"})
	assert.Equal(t, 2, e.Depth())

	typ, ok := e.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, "Int", typ.String())

	require.NoError(t, e.ExitBlock())
	_, ok = e.FindVariable("x")
	assert.False(t, ok, "variable must not survive its block")
}

func TestExitBlockUnderflow(t *testing.T) {
	e := New()
	err := e.ExitBlock()
	assert.Error(t, err)
}

func TestVariableShadowsDefinition(t *testing.T) {
	e := New()
	e.AddDefinition("x", &ast.Tag{Name: "String"})

	e.EnterBlock()
	e.AddVariable("x", &ast.Tag{Name: "Int"})

	typ, ok := e.Find("x")
	require.True(t, ok)
	assert.Equal(t, "Int", typ.String(), "inner variable should shadow outer definition")

	require.NoError(t, e.ExitBlock())
	typ, ok = e.Find("x")
	require.True(t, ok)
	assert.Equal(t, "String", typ.String())
}

func TestNewWithNumericOperators(t *testing.T) {
	e := NewWithNumericOperators()
	for _, op := range []string{"+", "-", "*", "//", "/"} {
		_, ok := e.FindDefinition(op)
		assert.True(t, ok, "expected %s to be predefined", op)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e := New()
	e.AddDefinition("x", &ast.Tag{Name: "Int"})

	clone := e.Clone()
	clone.AddDefinition("y", &ast.Tag{Name: "Int"})

	_, ok := e.FindDefinition("y")
	assert.False(t, ok, "mutating the clone must not affect the original")

	_, ok = clone.FindDefinition("x")
	assert.True(t, ok, "clone should retain bindings present at clone time")
}

func TestAdtDescriptorSharedByPointer(t *testing.T) {
	e := New()
	desc := &ast.AdtDescriptor{
		Name:     "Maybe",
		TypeVars: []string{"a"},
		Variants: []ast.AdtVariant{{Name: "Nothing"}, {Name: "Just", Args: []ast.Type{&ast.Var{Name: "a"}}}},
	}
	e.AddAdt("Maybe", desc)

	found, ok := e.FindAdt("Maybe")
	require.True(t, ok)
	assert.Same(t, desc, found)
}
