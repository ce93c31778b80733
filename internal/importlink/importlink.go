// Package importlink resolves import directives against a set of
// already-analyzed modules, extending a static environment with
// qualified and (optionally) unqualified bindings.
package importlink

import (
	"fmt"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/typeutil"
)

// ModuleSet maps a dotted module path to its checked module.
type ModuleSet map[string]*ast.CheckedModule

// BasicsImport is the implicit default import prepended to a module's
// own imports when the caller analyzes with default imports enabled.
func BasicsImport() *ast.Import {
	all := ast.ExposingAll()
	return &ast.Import{Path: []string{"Basics"}, Exposing: &all}
}

// LinkImports resolves every import directive against modules, inserting
// both a qualified binding (under the alias, or the module's own path
// when no alias is given) and, when an exposing clause is present, the
// selected unqualified bindings.
func LinkImports(e *env.StaticEnv, modules ModuleSet, imports []*ast.Import) error {
	for _, imp := range imports {
		if err := linkOne(e, modules, imp); err != nil {
			return err
		}
	}
	return nil
}

func linkOne(e *env.StaticEnv, modules ModuleSet, imp *ast.Import) error {
	path := imp.JoinedPath()
	module, ok := modules[path]
	if !ok {
		return errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeMissingModule,
			Phase:   "importlink",
			Message: fmt.Sprintf("import references unknown module %q", path),
			Data:    map[string]any{"module": path},
		})
	}

	prefix := imp.Alias
	if prefix == "" {
		prefix = path
	}
	for _, d := range module.Exposing {
		insertQualified(e, prefix, d)
	}

	if imp.Exposing == nil {
		return nil
	}

	exposed := module.Exposing
	if !imp.Exposing.All {
		selected, err := SelectExposed(module.Exposing, imp.Exposing.Items)
		if err != nil {
			return err
		}
		exposed = selected
	}
	for _, d := range exposed {
		insertUnqualified(e, d)
	}

	return nil
}

func insertQualified(e *env.StaticEnv, prefix string, d ast.Declaration) {
	qualified := ast.QualifiedName([]string{prefix}, d.DeclName())
	switch dd := d.(type) {
	case *ast.DefDecl:
		e.AddDefinition(qualified, dd.Type)
	case *ast.AliasDecl:
		e.AddAlias(qualified, dd.Type)
	case *ast.AdtDecl:
		e.AddAdt(qualified, dd.Descriptor)
	}
}

func insertUnqualified(e *env.StaticEnv, d ast.Declaration) {
	switch dd := d.(type) {
	case *ast.DefDecl:
		e.AddDefinition(dd.Name, dd.Type)
	case *ast.AliasDecl:
		e.AddAlias(dd.Name, dd.Type)
	case *ast.AdtDecl:
		e.AddAdt(dd.Name, dd.Descriptor)
	}
}

// SelectExposed filters allDecls down to exactly the declarations named
// by items, applying the same selection rules used for a module header's
// own exposing clause (shared between import linking and the module
// orchestrator's final filtering pass).
func SelectExposed(allDecls []ast.Declaration, items []ast.Exposing) ([]ast.Declaration, error) {
	var out []ast.Declaration

	for _, item := range items {
		switch it := item.(type) {
		case ast.ExposeAdt:
			if it.Variants.All {
				out = append(out, constructorsOf(allDecls, it.Name)...)
			} else {
				out = append(out, variantConstructors(allDecls, it.Name, it.Variants.Variants)...)
			}
			decl, ok := findAdt(allDecls, it.Name)
			if !ok {
				return nil, missingExposing(it.Name)
			}
			out = append(out, decl)

		case ast.ExposeType:
			decl, ok := findTypeNamed(allDecls, it.Name)
			if !ok {
				return nil, missingExposing(it.Name)
			}
			out = append(out, decl)

		case ast.ExposeDefinition:
			decl, ok := findDef(allDecls, it.Name)
			if !ok {
				return nil, missingExposing(it.Name)
			}
			out = append(out, decl)

		case ast.ExposeOperator:
			decl, ok := findDef(allDecls, it.Name)
			if !ok {
				return nil, missingExposing(it.Name)
			}
			out = append(out, decl)
		}
	}

	return out, nil
}

func missingExposing(name string) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "mlcheck.error/v1",
		Code:    errors.CodeMissingExposing,
		Phase:   "importlink",
		Message: fmt.Sprintf("exposing list references unknown declaration %q", name),
		Data:    map[string]any{"name": name},
	})
}

func constructorsOf(decls []ast.Declaration, adtName string) []ast.Declaration {
	var out []ast.Declaration
	for _, d := range decls {
		def, ok := d.(*ast.DefDecl)
		if !ok {
			continue
		}
		if returnsTag(def.Type, adtName) {
			out = append(out, def)
		}
	}
	return out
}

func variantConstructors(decls []ast.Declaration, adtName string, names []string) []ast.Declaration {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []ast.Declaration
	for _, d := range decls {
		def, ok := d.(*ast.DefDecl)
		if !ok || !wanted[def.Name] {
			continue
		}
		if returnsTag(def.Type, adtName) {
			out = append(out, def)
		}
	}
	return out
}

func returnsTag(t ast.Type, name string) bool {
	_, ret := typeutil.Uncurry(t)
	tag, ok := ret.(*ast.Tag)
	return ok && tag.Name == name
}

func findAdt(decls []ast.Declaration, name string) (ast.Declaration, bool) {
	for _, d := range decls {
		if adt, ok := d.(*ast.AdtDecl); ok && adt.Name == name {
			return adt, true
		}
	}
	return nil, false
}

func findTypeNamed(decls []ast.Declaration, name string) (ast.Declaration, bool) {
	for _, d := range decls {
		switch dd := d.(type) {
		case *ast.AliasDecl:
			if dd.Name == name {
				return dd, true
			}
		case *ast.AdtDecl:
			if dd.Name == name {
				return dd, true
			}
		}
	}
	return nil, false
}

func findDef(decls []ast.Declaration, name string) (ast.Declaration, bool) {
	for _, d := range decls {
		if def, ok := d.(*ast.DefDecl); ok && def.Name == name {
			return def, true
		}
	}
	return nil, false
}
