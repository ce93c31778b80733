package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/errors"
)

func TestUnifyBindsFreshVar(t *testing.T) {
	u := newUnifier()
	v := u.freshVar()
	require.NoError(t, u.Unify(v, &ast.Tag{Name: "Int"}))
	assert.Equal(t, "Int", u.Apply(v).String())
}

func TestUnifyOccursCheck(t *testing.T) {
	u := newUnifier()
	v := u.freshVar()
	listOfV := &ast.Tag{Name: "List", Args: []ast.Type{v}}
	err := u.bind(v.Name, listOfV)
	assert.Error(t, err)
}

func TestUnifyMismatchedTagsFail(t *testing.T) {
	u := newUnifier()
	err := u.Unify(&ast.Tag{Name: "Int"}, &ast.Tag{Name: "String"})
	require.Error(t, err)
	var uerr *UnificationError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, errors.CodeUnification, uerr.Report().Code)
}

func TestDefaultNumericReplacesOpenVar(t *testing.T) {
	t1 := &ast.Var{Name: "number"}
	resolved := DefaultNumeric(t1)
	assert.Equal(t, "Int", resolved.String())
}

func TestDefaultNumericLeavesConcreteTypesAlone(t *testing.T) {
	t1 := &ast.Tag{Name: "Float"}
	assert.Equal(t, t1, DefaultNumeric(t1))
}

func TestApplyMergesRowIntoConcreteRecord(t *testing.T) {
	u := newUnifier()
	row := u.freshVar()
	ext := &ast.RecExt{Row: row.Name, Fields: []ast.RecordField{{Name: "x", Type: &ast.Tag{Name: "Int"}}}}
	require.NoError(t, u.bind(row.Name, &ast.Record{Fields: []ast.RecordField{{Name: "y", Type: &ast.Tag{Name: "Bool"}}}}))
	applied := u.Apply(ext)
	rec, ok := applied.(*ast.Record)
	require.True(t, ok)
	assert.Len(t, rec.Fields, 2)
}
