// Package typeutil provides the small set of structural operations the
// rest of the analyzer needs over ast.Type: a generic walk, curried
// function-type construction, free type-variable collection, and an
// order-insensitive structural equality.
package typeutil

import "github.com/sunholo/mlcheck/internal/ast"

// Walk calls visit on t and then recurses into every type nested inside
// it, pre-order. visit is called on t itself before its children.
func Walk(t ast.Type, visit func(ast.Type)) {
	if t == nil {
		return
	}
	visit(t)
	switch tt := t.(type) {
	case *ast.Var, ast.UnitType:
		// no children
	case *ast.Tag:
		for _, a := range tt.Args {
			Walk(a, visit)
		}
	case *ast.Fun:
		Walk(tt.In, visit)
		Walk(tt.Out, visit)
	case *ast.Tuple:
		for _, e := range tt.Elems {
			Walk(e, visit)
		}
	case *ast.Record:
		for _, f := range tt.Fields {
			Walk(f.Type, visit)
		}
	case *ast.RecExt:
		for _, f := range tt.Fields {
			Walk(f.Type, visit)
		}
	}
}

// BuildFunType folds a slice of argument types and a return type into a
// right-nested chain of ast.Fun, the representation a curried function's
// signature is built from, e.g. BuildFunType([a, b], c) == a -> b -> c.
func BuildFunType(args []ast.Type, ret ast.Type) ast.Type {
	result := ret
	for i := len(args) - 1; i >= 0; i-- {
		result = &ast.Fun{In: args[i], Out: result}
	}
	return result
}

// Uncurry flattens a right-nested Fun chain back into its argument types
// and final return type; the inverse of BuildFunType.
func Uncurry(t ast.Type) (args []ast.Type, ret ast.Type) {
	for {
		f, ok := t.(*ast.Fun)
		if !ok {
			return args, t
		}
		args = append(args, f.In)
		t = f.Out
	}
}

// FreeVars returns the set of type-variable names appearing anywhere in
// t, used by the declaration analyzer to validate an alias's declared
// variable list against the variables its body actually mentions.
func FreeVars(t ast.Type) map[string]bool {
	vars := make(map[string]bool)
	Walk(t, func(sub ast.Type) {
		if v, ok := sub.(*ast.Var); ok {
			vars[v.Name] = true
		}
	})
	return vars
}

// Equals reports whether a and b are structurally identical types, up to
// record field order (records are unordered in the type system even
// though RecordField slices preserve source order for constructor
// argument generation).
func Equals(a, b ast.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *ast.Var:
		bv, ok := b.(*ast.Var)
		return ok && av.Name == bv.Name
	case ast.UnitType:
		_, ok := b.(ast.UnitType)
		return ok
	case *ast.Tag:
		bv, ok := b.(*ast.Tag)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equals(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *ast.Fun:
		bv, ok := b.(*ast.Fun)
		return ok && Equals(av.In, bv.In) && Equals(av.Out, bv.Out)
	case *ast.Tuple:
		bv, ok := b.(*ast.Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equals(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *ast.Record:
		bv, ok := b.(*ast.Record)
		if !ok {
			return false
		}
		return fieldsEqual(av.Fields, bv.Fields)
	case *ast.RecExt:
		bv, ok := b.(*ast.RecExt)
		if !ok || av.Row != bv.Row {
			return false
		}
		return fieldsEqual(av.Fields, bv.Fields)
	default:
		return false
	}
}

func fieldsEqual(a, b []ast.RecordField) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[string]ast.Type, len(b))
	for _, f := range b {
		byName[f.Name] = f.Type
	}
	for _, f := range a {
		bt, ok := byName[f.Name]
		if !ok || !Equals(f.Type, bt) {
			return false
		}
	}
	return true
}

// Substitute returns a copy of t with every Var whose name is a key in
// subst replaced by the corresponding type. Used to instantiate an
// ADT's type variables in constructor patterns and to rename variables
// in inferred types.
func Substitute(t ast.Type, subst map[string]ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	switch tt := t.(type) {
	case *ast.Var:
		if r, ok := subst[tt.Name]; ok {
			return r
		}
		return tt
	case ast.UnitType:
		return tt
	case *ast.Tag:
		args := make([]ast.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = Substitute(a, subst)
		}
		return &ast.Tag{Name: tt.Name, Args: args}
	case *ast.Fun:
		return &ast.Fun{In: Substitute(tt.In, subst), Out: Substitute(tt.Out, subst)}
	case *ast.Tuple:
		elems := make([]ast.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = Substitute(e, subst)
		}
		return &ast.Tuple{Elems: elems}
	case *ast.Record:
		fields := make([]ast.RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = ast.RecordField{Name: f.Name, Type: Substitute(f.Type, subst)}
		}
		return &ast.Record{Fields: fields}
	case *ast.RecExt:
		fields := make([]ast.RecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = ast.RecordField{Name: f.Name, Type: Substitute(f.Type, subst)}
		}
		return &ast.RecExt{Row: tt.Row, Fields: fields}
	default:
		return t
	}
}
