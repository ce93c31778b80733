package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
)

// id arg1 = arg1
func TestLoadModuleSimpleDef(t *testing.T) {
	data := []byte(`{
		"statements": [
			{"kind": "def", "name": "id", "patterns": [{"kind": "var", "name": "arg1"}],
			 "expr": {"kind": "ref", "name": "arg1"}}
		]
	}`)

	m, err := LoadModule(data)
	require.NoError(t, err)
	require.Len(t, m.Statements, 1)

	defStm, ok := m.Statements[0].(*ast.DefStm)
	require.True(t, ok)
	assert.Equal(t, "id", defStm.Def.Name)
	assert.Equal(t, "arg1", defStm.Def.Expr.(*ast.Ref).Name)
}

// type Adt = A | B
func TestLoadModuleAdt(t *testing.T) {
	data := []byte(`{
		"statements": [
			{"kind": "adt", "name": "Adt", "variants": [{"name": "A"}, {"name": "B"}]}
		]
	}`)

	m, err := LoadModule(data)
	require.NoError(t, err)
	adt, ok := m.Statements[0].(*ast.AdtStm)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, []string{adt.Variants[0].Name, adt.Variants[1].Name})
}

// import Basics exposing (..); sum a b = a + b
func TestLoadModuleImportAndOpChain(t *testing.T) {
	data := []byte(`{
		"imports": [{"path": ["Basics"], "exposing": {"all": true}}],
		"statements": [
			{"kind": "def", "name": "sum",
			 "patterns": [{"kind": "var", "name": "a"}, {"kind": "var", "name": "b"}],
			 "expr": {"kind": "opChain",
			          "terms": [{"kind": "ref", "name": "a"}, {"kind": "ref", "name": "b"}],
			          "ops": ["+"]}}
		]
	}`)

	m, err := LoadModule(data)
	require.NoError(t, err)
	require.Len(t, m.Imports, 1)
	assert.Equal(t, "Basics", m.Imports[0].JoinedPath())
	assert.True(t, m.Imports[0].Exposing.All)

	defStm := m.Statements[0].(*ast.DefStm)
	chain := defStm.Def.Expr.(*ast.OpChain)
	assert.Equal(t, []string{"+"}, chain.Ops)
}

// const = 1, header exposing only "const"
func TestLoadModuleHeaderExposingJust(t *testing.T) {
	data := []byte(`{
		"header": {"name": "User", "exposing": {"all": false, "items": [{"kind": "def", "name": "const"}]}},
		"statements": [
			{"kind": "def", "name": "const", "expr": {"kind": "literal", "litKind": "int", "value": 1}}
		]
	}`)

	m, err := LoadModule(data)
	require.NoError(t, err)
	require.NotNil(t, m.Header)
	assert.False(t, m.Header.Exposing.All)
	require.Len(t, m.Header.Exposing.Items, 1)
	assert.Equal(t, ast.ExposeDefinition{Name: "const"}, m.Header.Exposing.Items[0])
}

func TestLoadModuleRejectsUnknownKind(t *testing.T) {
	_, err := LoadModule([]byte(`{"statements": [{"kind": "bogus"}]}`))
	assert.Error(t, err)
}
