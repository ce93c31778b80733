// Package infer implements the function analyzer: inferring a single
// top-level or local definition's type from its patterns and body, and
// checking it against a declared signature when one is present.
package infer

import (
	"fmt"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/typeutil"
)

// Analyzer infers the type of a single definition against a static
// environment. The environment is read for references to outer
// definitions, aliases and ADTs, and is cloned before any pattern
// variables are added to it, so a definition's own argument names never
// leak into the caller's scope.
type Analyzer interface {
	Infer(env *env.StaticEnv, def *ast.Definition) (ast.Type, error)
}

type analyzer struct {
	u *unifier
}

// NewAnalyzer returns the reference Analyzer implementation.
func NewAnalyzer() Analyzer {
	return &analyzer{u: newUnifier()}
}

// Infer runs each call on a fresh unifier, so no bindings carry over
// from one definition to the next.
func (a *analyzer) Infer(e *env.StaticEnv, def *ast.Definition) (ast.Type, error) {
	return (&analyzer{u: newUnifier()}).inferDefinition(e, def)
}

// inferDefinition infers def on a's own unifier; a Let's local
// definitions go through here so they share the enclosing call's
// substitution.
func (a *analyzer) inferDefinition(e *env.StaticEnv, def *ast.Definition) (ast.Type, error) {
	scoped := e.Clone()
	scoped.EnterBlock()
	defer scoped.ExitBlock()

	argTypes := make([]ast.Type, len(def.Patterns))
	for i, p := range def.Patterns {
		t, err := a.inferPattern(scoped, p)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}

	bodyType, err := a.inferExpr(scoped, def.Expr)
	if err != nil {
		return nil, err
	}

	// Numeric literals stay bound to the open "number" row-variable unless
	// some later use forces Int or Float; Unify performs that binding as
	// it goes, so no separate defaulting pass runs here.
	inferred := a.u.Apply(typeutil.BuildFunType(argTypes, bodyType))
	inferred = alphaNormalize(inferred)

	if def.Signature != nil {
		if !isAssignable(inferred, def.Signature, map[string]ast.Type{}) {
			return nil, errors.WrapReport(&errors.Report{
				Schema:  "mlcheck.error/v1",
				Code:    errors.CodeUnification,
				Phase:   "infer",
				Message: fmt.Sprintf("%s: inferred type %s is not an instance of declared signature %s", def.Name, inferred, def.Signature),
				Data:    map[string]any{"inferred": inferred.String(), "signature": def.Signature.String()},
			})
		}
		return def.Signature, nil
	}

	return inferred, nil
}

// isAssignable reports whether inferred is an instance of declared: every
// type variable in declared may stand for any type, consistently, while
// every concrete part of declared must be matched exactly by inferred.
// This is the "inferred <= signature" direction: a signature may be more
// general (more polymorphic) than what was inferred, never less.
func isAssignable(inferred, declared ast.Type, bound map[string]ast.Type) bool {
	switch d := declared.(type) {
	case *ast.Var:
		if prior, ok := bound[d.Name]; ok {
			return typeutil.Equals(prior, inferred)
		}
		bound[d.Name] = inferred
		return true
	case ast.UnitType:
		_, ok := inferred.(ast.UnitType)
		return ok
	case *ast.Tag:
		it, ok := inferred.(*ast.Tag)
		if !ok || it.Name != d.Name || len(it.Args) != len(d.Args) {
			return false
		}
		for i := range d.Args {
			if !isAssignable(it.Args[i], d.Args[i], bound) {
				return false
			}
		}
		return true
	case *ast.Fun:
		it, ok := inferred.(*ast.Fun)
		if !ok {
			return false
		}
		return isAssignable(it.In, d.In, bound) && isAssignable(it.Out, d.Out, bound)
	case *ast.Tuple:
		it, ok := inferred.(*ast.Tuple)
		if !ok || len(it.Elems) != len(d.Elems) {
			return false
		}
		for i := range d.Elems {
			if !isAssignable(it.Elems[i], d.Elems[i], bound) {
				return false
			}
		}
		return true
	case *ast.Record, *ast.RecExt:
		return typeutil.Equals(inferred, declared)
	default:
		return false
	}
}

func (a *analyzer) inferPattern(e *env.StaticEnv, p ast.Pattern) (ast.Type, error) {
	switch pp := p.(type) {
	case *ast.PVar:
		t := a.u.freshVar()
		e.AddVariable(pp.Name, t)
		return t, nil

	case ast.PWildcard:
		return a.u.freshVar(), nil

	case ast.PUnit:
		return ast.UnitType{}, nil

	case *ast.PLiteral:
		return literalType(a.u, pp.Value), nil

	case *ast.PTuple:
		elems := make([]ast.Type, len(pp.Elems))
		for i, sub := range pp.Elems {
			t, err := a.inferPattern(e, sub)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &ast.Tuple{Elems: elems}, nil

	case *ast.PList:
		elemType := a.u.freshVar()
		for _, sub := range pp.Elems {
			t, err := a.inferPattern(e, sub)
			if err != nil {
				return nil, err
			}
			if err := a.u.Unify(elemType, t); err != nil {
				return nil, err
			}
		}
		return &ast.Tag{Name: "List", Args: []ast.Type{elemType}}, nil

	case *ast.PCons:
		elemType := a.u.freshVar()
		headType, err := a.inferPattern(e, pp.Head)
		if err != nil {
			return nil, err
		}
		if err := a.u.Unify(elemType, headType); err != nil {
			return nil, err
		}
		listType := &ast.Tag{Name: "List", Args: []ast.Type{elemType}}
		tailType, err := a.inferPattern(e, pp.Tail)
		if err != nil {
			return nil, err
		}
		if err := a.u.Unify(listType, tailType); err != nil {
			return nil, err
		}
		return listType, nil

	case *ast.PRecord:
		fields := make([]ast.RecordField, len(pp.Fields))
		for i, name := range pp.Fields {
			t := a.u.freshVar()
			e.AddVariable(name, t)
			fields[i] = ast.RecordField{Name: name, Type: t}
		}
		row := a.u.freshVar()
		return &ast.RecExt{Row: row.Name, Fields: fields}, nil

	case *ast.PTagArgs:
		descriptor, variant, ok := lookupVariant(e, pp.Ctor)
		if !ok {
			return nil, errors.WrapReport(&errors.Report{
				Schema:  "mlcheck.error/v1",
				Code:    errors.CodePatternMatching,
				Phase:   "infer",
				Message: fmt.Sprintf("unknown constructor %s", pp.Ctor),
			})
		}
		if len(variant.Args) != len(pp.Args) {
			return nil, errors.WrapReport(&errors.Report{
				Schema:  "mlcheck.error/v1",
				Code:    errors.CodePatternMatching,
				Phase:   "infer",
				Message: fmt.Sprintf("constructor %s expects %d argument(s), pattern has %d", pp.Ctor, len(variant.Args), len(pp.Args)),
			})
		}
		subst := make(map[string]ast.Type, len(descriptor.TypeVars))
		for _, tv := range descriptor.TypeVars {
			subst[tv] = a.u.freshVar()
		}
		for i, argPattern := range pp.Args {
			expected := typeutil.Substitute(variant.Args[i], subst)
			got, err := a.inferPattern(e, argPattern)
			if err != nil {
				return nil, err
			}
			if err := a.u.Unify(expected, got); err != nil {
				return nil, err
			}
		}
		resultArgs := make([]ast.Type, len(descriptor.TypeVars))
		for i, tv := range descriptor.TypeVars {
			resultArgs[i] = subst[tv]
		}
		return &ast.Tag{Name: descriptor.Name, Args: resultArgs}, nil

	case *ast.PAlias:
		t, err := a.inferPattern(e, pp.Inner)
		if err != nil {
			return nil, err
		}
		e.AddVariable(pp.Name, t)
		return t, nil

	default:
		return nil, fmt.Errorf("infer: unhandled pattern %T", p)
	}
}

func lookupVariant(e *env.StaticEnv, ctor string) (*ast.AdtDescriptor, ast.AdtVariant, bool) {
	if d, ok := e.FindAdt(ctor); ok {
		if v, ok := d.VariantNamed(ctor); ok {
			return d, v, true
		}
	}
	// Fall back to the constructor's own definition when the ctor name
	// differs from the ADT's own type name: its return type names the ADT.
	if t, ok := e.FindDefinition(ctor); ok {
		_, ret := typeutil.Uncurry(t)
		if tag, ok := ret.(*ast.Tag); ok {
			if d, ok := e.FindAdt(tag.Name); ok {
				if v, ok := d.VariantNamed(ctor); ok {
					return d, v, true
				}
			}
		}
	}
	return nil, ast.AdtVariant{}, false
}

func literalType(u *unifier, l ast.Literal) ast.Type {
	switch l.Kind {
	case ast.IntLit, ast.FloatLit:
		return u.freshVar() // left open; unification with its uses decides it
	case ast.StringLit:
		return &ast.Tag{Name: "String"}
	case ast.CharLit:
		return &ast.Tag{Name: "Char"}
	case ast.BoolLit:
		return &ast.Tag{Name: "Bool"}
	default:
		return u.freshVar()
	}
}

func (a *analyzer) inferExpr(e *env.StaticEnv, expr ast.Expr) (ast.Type, error) {
	switch ex := expr.(type) {
	case *ast.LitExpr:
		if ex.Value.Kind == ast.IntLit || ex.Value.Kind == ast.FloatLit {
			return &ast.Var{Name: numericDefault}, nil
		}
		return literalType(a.u, ex.Value), nil

	case *ast.Ref:
		if t, ok := e.Find(ex.Name); ok {
			return t, nil
		}
		return nil, errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeUnification,
			Phase:   "infer",
			Message: fmt.Sprintf("unbound name %s", ex.Name),
		})

	case *ast.QualifiedRef:
		qualified := ast.QualifiedName(ex.Path, ex.Name)
		if t, ok := e.FindDefinition(qualified); ok {
			return t, nil
		}
		return nil, errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeUnification,
			Phase:   "infer",
			Message: fmt.Sprintf("unbound qualified name %s", qualified),
		})

	case *ast.RecordFieldExpr:
		row := a.u.freshVar()
		fieldType := a.u.freshVar()
		recType := &ast.RecExt{Row: row.Name, Fields: []ast.RecordField{{Name: ex.Field, Type: fieldType}}}
		return &ast.Fun{In: recType, Out: fieldType}, nil

	case *ast.RecordAccess:
		recType, err := a.inferExpr(e, ex.Record)
		if err != nil {
			return nil, err
		}
		fieldType := a.u.freshVar()
		row := a.u.freshVar()
		expected := &ast.RecExt{Row: row.Name, Fields: []ast.RecordField{{Name: ex.Field, Type: fieldType}}}
		if err := a.u.Unify(recType, expected); err != nil {
			return nil, err
		}
		return fieldType, nil

	case *ast.RecordUpdate:
		base, ok := e.Find(ex.Name)
		if !ok {
			return nil, errors.WrapReport(&errors.Report{
				Schema: "mlcheck.error/v1", Code: errors.CodeUnification, Phase: "infer",
				Message: fmt.Sprintf("unbound record %s", ex.Name),
			})
		}
		for _, f := range ex.Fields {
			valueType, err := a.inferExpr(e, f.Value)
			if err != nil {
				return nil, err
			}
			row := a.u.freshVar()
			expected := &ast.RecExt{Row: row.Name, Fields: []ast.RecordField{{Name: f.Name, Type: valueType}}}
			if err := a.u.Unify(base, expected); err != nil {
				return nil, err
			}
		}
		return base, nil

	case *ast.If:
		condType, err := a.inferExpr(e, ex.Cond)
		if err != nil {
			return nil, err
		}
		if err := a.u.Unify(condType, &ast.Tag{Name: "Bool"}); err != nil {
			return nil, err
		}
		thenType, err := a.inferExpr(e, ex.Then)
		if err != nil {
			return nil, err
		}
		elseType, err := a.inferExpr(e, ex.Else)
		if err != nil {
			return nil, err
		}
		if err := a.u.Unify(thenType, elseType); err != nil {
			return nil, err
		}
		return thenType, nil

	case *ast.Case:
		scrutineeType, err := a.inferExpr(e, ex.Scrutinee)
		if err != nil {
			return nil, err
		}
		var result ast.Type
		for _, arm := range ex.Arms {
			armEnv := e.Clone()
			armEnv.EnterBlock()
			patType, err := a.inferPattern(armEnv, arm.Pattern)
			if err != nil {
				return nil, err
			}
			if err := a.u.Unify(scrutineeType, patType); err != nil {
				return nil, err
			}
			armType, err := a.inferExpr(armEnv, arm.Expr)
			armEnv.ExitBlock()
			if err != nil {
				return nil, err
			}
			if result == nil {
				result = armType
				continue
			}
			if err := a.u.Unify(result, armType); err != nil {
				return nil, err
			}
		}
		if result == nil {
			return a.u.freshVar(), nil
		}
		return result, nil

	case *ast.Application:
		fnType, err := a.inferExpr(e, ex.Fn)
		if err != nil {
			return nil, err
		}
		argType, err := a.inferExpr(e, ex.Arg)
		if err != nil {
			return nil, err
		}
		resultType := a.u.freshVar()
		if err := a.u.Unify(fnType, &ast.Fun{In: argType, Out: resultType}); err != nil {
			return nil, err
		}
		return resultType, nil

	case *ast.Lambda:
		nested := e.Clone()
		nested.EnterBlock()
		argTypes := make([]ast.Type, len(ex.Patterns))
		for i, p := range ex.Patterns {
			t, err := a.inferPattern(nested, p)
			if err != nil {
				return nil, err
			}
			argTypes[i] = t
		}
		bodyType, err := a.inferExpr(nested, ex.Body)
		nested.ExitBlock()
		if err != nil {
			return nil, err
		}
		return typeutil.BuildFunType(argTypes, bodyType), nil

	case *ast.Let:
		nested := e.Clone()
		nested.EnterBlock()
		for _, decl := range ex.Decls {
			switch dd := decl.(type) {
			case ast.LetDef:
				t, err := a.inferDefinition(nested, dd.Definition)
				if err != nil {
					nested.ExitBlock()
					return nil, err
				}
				nested.AddVariable(dd.Definition.Name, t)
			case ast.LetPattern:
				valueType, err := a.inferExpr(nested, dd.Expr)
				if err != nil {
					nested.ExitBlock()
					return nil, err
				}
				patType, err := a.inferPattern(nested, dd.Pattern)
				if err != nil {
					nested.ExitBlock()
					return nil, err
				}
				if err := a.u.Unify(valueType, patType); err != nil {
					nested.ExitBlock()
					return nil, err
				}
			}
		}
		bodyType, err := a.inferExpr(nested, ex.Body)
		nested.ExitBlock()
		if err != nil {
			return nil, err
		}
		return bodyType, nil

	case *ast.OpChain:
		if len(ex.Terms) == 0 {
			return nil, fmt.Errorf("infer: empty OpChain")
		}
		result, err := a.inferExpr(e, ex.Terms[0])
		if err != nil {
			return nil, err
		}
		for i, op := range ex.Ops {
			opType, ok := e.Find(op)
			if !ok {
				return nil, errors.WrapReport(&errors.Report{
					Schema: "mlcheck.error/v1", Code: errors.CodeUnification, Phase: "infer",
					Message: fmt.Sprintf("unbound operator %s", op),
				})
			}
			rhsType, err := a.inferExpr(e, ex.Terms[i+1])
			if err != nil {
				return nil, err
			}
			out := a.u.freshVar()
			if err := a.u.Unify(opType, &ast.Fun{In: result, Out: &ast.Fun{In: rhsType, Out: out}}); err != nil {
				return nil, err
			}
			result = out
		}
		return result, nil

	case *ast.TupleExpr:
		elems := make([]ast.Type, len(ex.Elems))
		for i, el := range ex.Elems {
			t, err := a.inferExpr(e, el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &ast.Tuple{Elems: elems}, nil

	case *ast.ListExpr:
		elemType := a.u.freshVar()
		for _, el := range ex.Elems {
			t, err := a.inferExpr(e, el)
			if err != nil {
				return nil, err
			}
			if err := a.u.Unify(elemType, t); err != nil {
				return nil, err
			}
		}
		return &ast.Tag{Name: "List", Args: []ast.Type{elemType}}, nil

	case *ast.RecordExpr:
		fields := make([]ast.RecordField, len(ex.Fields))
		for i, f := range ex.Fields {
			t, err := a.inferExpr(e, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.RecordField{Name: f.Name, Type: t}
		}
		return &ast.Record{Fields: fields}, nil

	default:
		return nil, fmt.Errorf("infer: unhandled expression %T", expr)
	}
}

// Apply applies the substitution of the analyzer's own unifier to t.
// Infer runs each call on a fresh unifier of its own, so the bindings
// an Infer call makes are not visible here.
func (a *analyzer) Apply(t ast.Type) ast.Type { return a.u.Apply(t) }
