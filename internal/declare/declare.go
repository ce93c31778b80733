// Package declare expands a module's sorted top-level statements into
// declarations, pushing each one into the static environment as soon as
// it is produced so later statements see it.
package declare

import (
	"fmt"
	"sort"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/depsort"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/infer"
	"github.com/sunholo/mlcheck/internal/typeutil"
)

// AnalyzeStatements sorts statements by dependency, expands each one into
// declarations in that order, and pushes successful declarations into e
// immediately. Infix statements are resolved in a post-pass, once every
// other statement has registered its definition, so a forward reference
// to the underlying name resolves. Errors are collected per statement,
// not short-circuited: the module is analyzed as far as possible so the
// caller can report every diagnostic in one pass.
func AnalyzeStatements(e *env.StaticEnv, analyzer infer.Analyzer, statements []ast.Statement) ([]ast.Declaration, []error) {
	sorted, sortErr := depsort.Sort(statements)

	var declarations []ast.Declaration
	var errs []error
	if sortErr != nil {
		errs = append(errs, sortErr)
	}

	var infixStmts []*ast.InfixStm
	for _, stmt := range sorted {
		infixStm, isInfix := stmt.(*ast.InfixStm)
		if isInfix {
			infixStmts = append(infixStmts, infixStm)
			continue
		}

		decls, err := AnalyzeStatement(e, analyzer, stmt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, d := range decls {
			declarations = append(declarations, d)
			pushDeclaration(e, d)
		}
	}

	for _, infixStm := range infixStmts {
		underlying, ok := e.FindDefinition(infixStm.Underlying)
		if !ok {
			continue
		}
		d := &ast.DefDecl{Name: infixStm.Operator, Type: underlying}
		declarations = append(declarations, d)
		pushDeclaration(e, d)
	}

	return declarations, errs
}

// AnalyzeStatement expands a single non-infix statement. Infix statements
// are handled by AnalyzeStatements' post-pass and are rejected here.
func AnalyzeStatement(e *env.StaticEnv, analyzer infer.Analyzer, stmt ast.Statement) ([]ast.Declaration, error) {
	switch s := stmt.(type) {
	case *ast.AliasStm:
		return analyzeAlias(s)
	case *ast.AdtStm:
		return analyzeAdt(s), nil
	case *ast.PortStm:
		return []ast.Declaration{&ast.DefDecl{Name: s.Name, Type: s.Type}}, nil
	case *ast.DefStm:
		t, err := analyzer.Infer(e, s.Def)
		if err != nil {
			return nil, err
		}
		return []ast.Declaration{&ast.DefDecl{Name: s.Def.Name, Type: t}}, nil
	case *ast.InfixStm:
		return nil, fmt.Errorf("declare: infix statement %q must be resolved in the post-pass", s.Operator)
	default:
		return nil, fmt.Errorf("declare: unhandled statement %T", stmt)
	}
}

func pushDeclaration(e *env.StaticEnv, d ast.Declaration) {
	switch dd := d.(type) {
	case *ast.DefDecl:
		e.AddDefinition(dd.Name, dd.Type)
	case *ast.AliasDecl:
		e.AddAlias(dd.Name, dd.Type)
	case *ast.AdtDecl:
		e.AddAdt(dd.Name, dd.Descriptor)
	}
}

func analyzeAlias(s *ast.AliasStm) ([]ast.Declaration, error) {
	used := typeutil.FreeVars(s.Type)
	declared := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		declared[v] = true
	}

	if len(used) < len(declared) {
		unused := diffSorted(declared, used)
		return nil, errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeUnusedTypeVariables,
			Phase:   "declare",
			Message: fmt.Sprintf("alias %s declares unused type variable(s): %v", s.Name, unused),
			Data:    map[string]any{"alias": s.Name, "variables": unused},
		})
	}
	if len(used) > len(declared) {
		undeclared := diffSorted(used, declared)
		return nil, errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeUndeclaredTypeVariables,
			Phase:   "declare",
			Message: fmt.Sprintf("alias %s uses undeclared type variable(s): %v", s.Name, undeclared),
			Data:    map[string]any{"alias": s.Name, "variables": undeclared},
		})
	}

	decls := []ast.Declaration{&ast.AliasDecl{Name: s.Name, Type: s.Type}}

	if rec, ok := s.Type.(*ast.Record); ok {
		args := make([]ast.Type, len(rec.Fields))
		for i, f := range rec.Fields {
			args[i] = f.Type
		}
		ctor := typeutil.BuildFunType(args, s.Type)
		decls = append(decls, &ast.DefDecl{Name: s.Name, Type: ctor})
	}

	return decls, nil
}

func analyzeAdt(s *ast.AdtStm) []ast.Declaration {
	varTypes := make([]ast.Type, len(s.Vars))
	for i, v := range s.Vars {
		varTypes[i] = &ast.Var{Name: v}
	}
	adtType := &ast.Tag{Name: s.Name, Args: varTypes}

	descriptor := &ast.AdtDescriptor{Name: s.Name, TypeVars: append([]string{}, s.Vars...), Variants: s.Variants}
	decls := []ast.Declaration{&ast.AdtDecl{Name: s.Name, Descriptor: descriptor}}

	for _, v := range s.Variants {
		ctor := typeutil.BuildFunType(v.Args, adtType)
		decls = append(decls, &ast.DefDecl{Name: v.Name, Type: ctor})
	}

	return decls
}

// diffSorted returns the (sorted, for determinism) names present in a but
// not in b.
func diffSorted(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
