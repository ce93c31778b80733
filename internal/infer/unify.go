package infer

import (
	"fmt"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/typeutil"
)

// UnificationError reports two types that could not be made equal.
type UnificationError struct {
	Left  ast.Type
	Right ast.Type
}

func (e *UnificationError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// Report renders the error as the analyzer's structured envelope.
func (e *UnificationError) Report() *errors.Report {
	return &errors.Report{
		Schema:  "mlcheck.error/v1",
		Code:    errors.CodeUnification,
		Phase:   "infer",
		Message: e.Error(),
		Data:    map[string]any{"left": e.Left.String(), "right": e.Right.String()},
	}
}

// numericDefault is the row-variable name numeric literals start out
// bound to; it unifies with Int or Float and stays open if nothing
// forces a concrete choice (only DefaultNumeric replaces it with Int).
const numericDefault = "number"

// unifier is a substitution-based unification engine, scoped to one
// Infer call. It is not safe for concurrent use, matching the rest of
// the analyzer's single-threaded contract.
type unifier struct {
	subst map[string]ast.Type
	fresh int
}

func newUnifier() *unifier {
	return &unifier{subst: make(map[string]ast.Type)}
}

// freshVar returns a new, never-before-used type variable.
func (u *unifier) freshVar() *ast.Var {
	u.fresh++
	return &ast.Var{Name: fmt.Sprintf("t%d", u.fresh)}
}

// isFreshVar reports whether name has the synthetic "t<N>" shape
// freshVar produces, as opposed to a meaningful name such as the
// numeric row variable "number" or a signature's own declared
// variable. Unify uses this to decide which of two unbound variables
// should survive as the substitution's representative.
func isFreshVar(name string) bool {
	if len(name) < 2 || name[0] != 't' {
		return false
	}
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolve follows the substitution chain for a Var until it reaches a
// non-Var or an unbound Var.
func (u *unifier) resolve(t ast.Type) ast.Type {
	for {
		v, ok := t.(*ast.Var)
		if !ok {
			return t
		}
		next, bound := u.subst[v.Name]
		if !bound {
			return v
		}
		t = next
	}
}

// Apply fully substitutes t using the current bindings.
func (u *unifier) Apply(t ast.Type) ast.Type {
	t = u.resolve(t)
	switch tt := t.(type) {
	case *ast.Tag:
		args := make([]ast.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = u.Apply(a)
		}
		return &ast.Tag{Name: tt.Name, Args: args}
	case *ast.Fun:
		return &ast.Fun{In: u.Apply(tt.In), Out: u.Apply(tt.Out)}
	case *ast.Tuple:
		elems := make([]ast.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = u.Apply(e)
		}
		return &ast.Tuple{Elems: elems}
	case *ast.Record:
		fields := make([]ast.RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = ast.RecordField{Name: f.Name, Type: u.Apply(f.Type)}
		}
		return &ast.Record{Fields: fields}
	case *ast.RecExt:
		fields := make([]ast.RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = ast.RecordField{Name: f.Name, Type: u.Apply(f.Type)}
		}
		// Once the row variable itself resolves to a concrete record, we
		// can merge: otherwise keep the row open.
		if bound, ok := u.subst[tt.Row]; ok {
			merged := u.Apply(bound)
			if rec, ok := merged.(*ast.Record); ok {
				return &ast.Record{Fields: append(append([]ast.RecordField{}, rec.Fields...), fields...)}
			}
		}
		return &ast.RecExt{Row: tt.Row, Fields: fields}
	default:
		return t
	}
}

// Unify makes a and b equal under the current substitution, extending it
// as needed. Numeric defaulting: unifying the "number" variable with a
// concrete Int or Float binds it to that type; unifying two "number"
// variables keeps them open.
func (u *unifier) Unify(a, b ast.Type) error {
	a = u.resolve(a)
	b = u.resolve(b)

	if av, ok := a.(*ast.Var); ok {
		if bv, ok := b.(*ast.Var); ok {
			if av.Name == bv.Name {
				return nil
			}
			// Prefer keeping a meaningful variable (the numeric row
			// variable, or a name carried in from the environment) as the
			// substitution's representative: bind the synthetic t%d var
			// to it rather than the other way around, so that name
			// survives Apply instead of being replaced by a throwaway
			// fresh variable nobody outside the unifier ever sees.
			if isFreshVar(av.Name) && !isFreshVar(bv.Name) {
				return u.bind(av.Name, b)
			}
			if isFreshVar(bv.Name) && !isFreshVar(av.Name) {
				return u.bind(bv.Name, a)
			}
			return u.bind(av.Name, b)
		}
		return u.bind(av.Name, b)
	}
	if bv, ok := b.(*ast.Var); ok {
		return u.bind(bv.Name, a)
	}

	switch av := a.(type) {
	case ast.UnitType:
		if _, ok := b.(ast.UnitType); ok {
			return nil
		}
	case *ast.Tag:
		bv, ok := b.(*ast.Tag)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			break
		}
		for i := range av.Args {
			if err := u.Unify(av.Args[i], bv.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *ast.Fun:
		bv, ok := b.(*ast.Fun)
		if !ok {
			break
		}
		if err := u.Unify(av.In, bv.In); err != nil {
			return err
		}
		return u.Unify(av.Out, bv.Out)
	case *ast.Tuple:
		bv, ok := b.(*ast.Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			break
		}
		for i := range av.Elems {
			if err := u.Unify(av.Elems[i], bv.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *ast.Record:
		bv, ok := b.(*ast.Record)
		if ok && typeutil.Equals(av, bv) {
			return nil
		}
	case *ast.RecExt:
		// A row-polymorphic record unifies with anything offering at
		// least its fields; missing-field detail is handled by callers
		// (record access/update) before Unify is reached.
		if bv, ok := b.(*ast.RecExt); ok && av.Row == bv.Row {
			return nil
		}
	}
	return &UnificationError{Left: a, Right: b}
}

func (u *unifier) bind(name string, t ast.Type) error {
	if v, ok := t.(*ast.Var); ok && v.Name == name {
		return nil
	}
	if occurs(name, t, u) {
		return fmt.Errorf("infinite type: %s occurs in %s", name, t)
	}
	if name == numericDefault {
		switch tt := t.(type) {
		case *ast.Var:
		case *ast.Tag:
			if tt.Name != "Int" && tt.Name != "Float" {
				return &UnificationError{Left: &ast.Var{Name: name}, Right: t}
			}
		default:
			return &UnificationError{Left: &ast.Var{Name: name}, Right: t}
		}
	}
	u.subst[name] = t
	return nil
}

func occurs(name string, t ast.Type, u *unifier) bool {
	found := false
	typeutil.Walk(u.Apply(t), func(sub ast.Type) {
		if v, ok := sub.(*ast.Var); ok && v.Name == name {
			found = true
		}
	})
	return found
}

// alphaNormalize renames every synthetic t%d variable still free in t
// to a successive letter (a, b, c, ..., z, aa, ab, ...) in order of
// first appearance, so e.g. `id arg1 = arg1` reports as "a -> a"
// rather than exposing the unifier's own fresh-variable counter.
// Meaningful names such as the numeric row variable are left alone.
func alphaNormalize(t ast.Type) ast.Type {
	subst := make(map[string]ast.Type)
	next := 0
	typeutil.Walk(t, func(sub ast.Type) {
		v, ok := sub.(*ast.Var)
		if !ok || !isFreshVar(v.Name) {
			return
		}
		if _, seen := subst[v.Name]; seen {
			return
		}
		subst[v.Name] = &ast.Var{Name: letterName(next)}
		next++
	})
	if len(subst) == 0 {
		return t
	}
	return typeutil.Substitute(t, subst)
}

// letterName returns the i-th name (0-indexed) in the sequence
// a, b, ..., z, aa, ab, ..., the same base-26 scheme spreadsheets use
// for column headers.
func letterName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	i++
	name := ""
	for i > 0 {
		i--
		name = string(letters[i%26]) + name
		i /= 26
	}
	return name
}

// DefaultNumeric replaces every remaining free variable named exactly
// "number" in t with Int, the numeric literal's default type when
// nothing in the definition forced a more specific choice.
func DefaultNumeric(t ast.Type) ast.Type {
	vars := typeutil.FreeVars(t)
	subst := make(map[string]ast.Type)
	for name := range vars {
		if name == numericDefault || isNumericVar(name) {
			subst[name] = &ast.Tag{Name: "Int"}
		}
	}
	if len(subst) == 0 {
		return t
	}
	return typeutil.Substitute(t, subst)
}

func isNumericVar(name string) bool {
	return name == numericDefault
}
