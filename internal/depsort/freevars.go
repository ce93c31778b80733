package depsort

import (
	"sort"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/exprwalk"
)

// TypeTagNames returns the set of nominal type names (Tag.Name) a Type
// refers to, in first-occurrence order. A statement that mentions a type
// by name depends on whatever statement declares it.
func TypeTagNames(t ast.Type) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(ast.Type)
	walk = func(tt ast.Type) {
		if tt == nil {
			return
		}
		switch v := tt.(type) {
		case *ast.Tag:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.Fun:
			walk(v.In)
			walk(v.Out)
		case *ast.Tuple:
			for _, e := range v.Elems {
				walk(e)
			}
		case *ast.Record:
			for _, f := range v.Fields {
				walk(f.Type)
			}
		case *ast.RecExt:
			for _, f := range v.Fields {
				walk(f.Type)
			}
		}
	}
	walk(t)
	return names
}

// depVisitor records Ref, QualifiedRef, RecordUpdate and infix-operator
// names that are not bound by an enclosing Lambda or Let, using a
// throwaway environment purely to track shadowing — nothing here is
// type information, just a scope tracker.
type depVisitor struct {
	exprwalk.EmptyVisitor
	scratch *env.StaticEnv
	names   []string
	seen    map[string]bool
}

func newDepVisitor(scratch *env.StaticEnv) *depVisitor {
	return &depVisitor{scratch: scratch, seen: make(map[string]bool)}
}

func (d *depVisitor) record(name string) {
	if d.seen[name] {
		return
	}
	d.seen[name] = true
	d.names = append(d.names, name)
}

func (d *depVisitor) VisitRef(r *ast.Ref) {
	if !d.scratch.IsBound(r.Name) {
		d.record(r.Name)
	}
}

func (d *depVisitor) VisitQualifiedRef(r *ast.QualifiedRef) {
	d.record(ast.QualifiedName(r.Path, r.Name))
}

func (d *depVisitor) VisitRecordUpdate(r *ast.RecordUpdate) {
	if !d.scratch.IsBound(r.Name) {
		d.record(r.Name)
	}
}

func (d *depVisitor) VisitOp(name string) {
	if !d.scratch.IsBound(name) {
		d.record(name)
	}
}

func (d *depVisitor) EnterLambda(l *ast.Lambda) {
	d.scratch.EnterBlock()
	for _, p := range l.Patterns {
		for _, n := range ast.BoundNames(p) {
			d.scratch.AddVariable(n, nil)
		}
	}
}

func (d *depVisitor) ExitLambda(*ast.Lambda) {
	_ = d.scratch.ExitBlock()
}

func (d *depVisitor) EnterLet(l *ast.Let) {
	d.scratch.EnterBlock()
	for _, decl := range l.Decls {
		switch dd := decl.(type) {
		case ast.LetDef:
			d.scratch.AddVariable(dd.Definition.Name, nil)
		case ast.LetPattern:
			for _, n := range ast.BoundNames(dd.Pattern) {
				d.scratch.AddVariable(n, nil)
			}
		}
	}
}

func (d *depVisitor) ExitLet(*ast.Let) {
	_ = d.scratch.ExitBlock()
}

// ExprFreeNames returns the free names expr refers to that are not bound
// within expr itself by a Lambda or a Let, in first-occurrence order.
func ExprFreeNames(expr ast.Expr) []string {
	v := newDepVisitor(env.New())
	exprwalk.Walk(expr, v)
	return v.names
}

// DefinitionFreeNames returns def's free names: the names its body
// refers to that are neither one of def's own argument patterns nor
// bound inside the body by a nested Lambda or Let.
func DefinitionFreeNames(def *ast.Definition) []string {
	scratch := env.New()
	for _, p := range def.Patterns {
		for _, n := range ast.BoundNames(p) {
			scratch.AddVariable(n, nil)
		}
	}
	v := newDepVisitor(scratch)
	exprwalk.Walk(def.Expr, v)
	return v.names
}

// StatementDependencies returns the free names a statement refers to:
// for a Def, the names its body and signature mention; for an Alias,
// Adt or Port, the type names its body mentions; for an Infix, its
// underlying name.
func StatementDependencies(stmt ast.Statement) []string {
	switch s := stmt.(type) {
	case *ast.AliasStm:
		return TypeTagNames(s.Type)
	case *ast.AdtStm:
		var names []string
		for _, v := range s.Variants {
			for _, a := range v.Args {
				names = append(names, TypeTagNames(a)...)
			}
		}
		return dedupe(names)
	case *ast.PortStm:
		return TypeTagNames(s.Type)
	case *ast.DefStm:
		names := DefinitionFreeNames(s.Def)
		if s.Def.Signature != nil {
			names = append(names, TypeTagNames(s.Def.Signature)...)
		}
		return dedupe(names)
	case *ast.InfixStm:
		return []string{s.Underlying}
	default:
		return nil
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// sortedCopy returns a sorted copy of names, used only where a
// deterministic error message needs one; ordering here has no bearing
// on the sort algorithm's own tie-breaking.
func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
