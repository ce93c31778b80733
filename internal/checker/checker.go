// Package checker implements the module orchestrator: it glues the
// import linker, dependency sorter and declaration analyzer into the
// single entry point that turns a parsed Module into a CheckedModule.
//
// A *checker.Checker owns no mutable state shared across calls: every
// AnalyzeModule call builds a fresh env.StaticEnv for the module it is
// analyzing and returns it embedded in the resulting CheckedModule or
// not at all. Concurrent calls to AnalyzeModule on independent modules
// are therefore safe, as long as the caller has already topologically
// sorted the module import graph itself (§5 of the analyzer this
// package assembles puts that ordering requirement on the driver, not
// on AnalyzeModule).
package checker

import (
	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/declare"
	"github.com/sunholo/mlcheck/internal/env"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/importlink"
	"github.com/sunholo/mlcheck/internal/infer"
)

// Checker runs the five-step module analysis algorithm against a fixed
// function analyzer. The zero value is not usable; construct one with
// New or NewDefault.
type Checker struct {
	analyzer       infer.Analyzer
	defaultImports bool
}

// New returns a Checker that uses analyzer for value-definition
// inference. When withDefaultImports is true, AnalyzeModule prepends
// importlink.BasicsImport() to every module's own imports and seeds the
// environment with env.NewWithNumericOperators rather than the bare
// env.New, matching the original's get_default_imports behavior.
func New(analyzer infer.Analyzer, withDefaultImports bool) *Checker {
	return &Checker{analyzer: analyzer, defaultImports: withDefaultImports}
}

// NewDefault returns a Checker wired to the package's concrete
// substitution-based analyzer, with default imports enabled — the
// configuration a driver normally wants.
func NewDefault() *Checker {
	return New(infer.NewAnalyzer(), true)
}

// AnalyzeModule runs the orchestration algorithm of spec.md §4.7:
//
//  1. obtain the module's header, defaulting to {"Main", exposing all};
//  2. build a fresh environment and link every import into it;
//  3. sort and expand the module's own statements, extending the
//     environment with each successful declaration;
//  4. filter the accumulated declarations by the header's exposing
//     clause;
//  5. return a TypeError list if anything failed, otherwise the
//     CheckedModule.
//
// modules supplies every previously-analyzed module an import might
// reference, keyed by dotted path; it is read-only here.
func (c *Checker) AnalyzeModule(path string, module *ast.Module, modules importlink.ModuleSet) (*ast.CheckedModule, error) {
	header := module.HeaderOrDefault()

	e := env.New()
	if c.defaultImports {
		e = env.NewWithNumericOperators()
	}

	imports := module.Imports
	if c.defaultImports {
		imports = append([]*ast.Import{importlink.BasicsImport()}, imports...)
	}

	var errs []error
	if err := importlink.LinkImports(e, modules, imports); err != nil {
		errs = append(errs, err)
	}

	declarations, declErrs := declare.AnalyzeStatements(e, c.analyzer, module.Statements)
	errs = append(errs, declErrs...)

	if len(errs) > 0 {
		return nil, errorList(errs)
	}

	exposing, err := selectHeaderExposing(declarations, header)
	if err != nil {
		return nil, errorList([]error{err})
	}

	return &ast.CheckedModule{
		Path:     path,
		Original: module,
		Env:      e,
		Exposing: exposing,
	}, nil
}

// selectHeaderExposing applies the module header's own exposing clause
// to the full set of declarations produced during analysis, reusing the
// import linker's selection rules (the same rules govern both "what an
// importer sees of another module" and "what this module exposes").
func selectHeaderExposing(declarations []ast.Declaration, header ast.ModuleHeader) ([]ast.Declaration, error) {
	if header.Exposing.All {
		return declarations, nil
	}
	return importlink.SelectExposed(declarations, header.Exposing.Items)
}

// errorList wraps one or more component errors as a single
// errors.Report with code CodeErrorList, the aggregate TypeError::List
// of spec.md §7. A single error is still wrapped in the list shape so
// callers have one error type to switch on regardless of how many
// statements failed.
func errorList(errs []error) error {
	reports := make([]*errors.Report, 0, len(errs))
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		if rep, ok := errors.AsReport(err); ok {
			reports = append(reports, rep)
			messages = append(messages, rep.Message)
			continue
		}
		generic := errors.NewGeneric("checker", err)
		reports = append(reports, generic)
		messages = append(messages, generic.Message)
	}

	return errors.WrapReport(&errors.Report{
		Schema:  "mlcheck.error/v1",
		Code:    errors.CodeErrorList,
		Phase:   "checker",
		Message: joinMessages(messages),
		Data:    map[string]any{"errors": reports},
	})
}

func joinMessages(messages []string) string {
	switch len(messages) {
	case 0:
		return "module analysis failed"
	case 1:
		return messages[0]
	default:
		out := messages[0]
		for _, m := range messages[1:] {
			out += "; " + m
		}
		return out
	}
}

// Errors unwraps an aggregate errorList Report back into its component
// Reports, for callers (e.g. cmd/envshell) that want to render each
// diagnostic separately rather than as one joined message.
func Errors(err error) []*errors.Report {
	rep, ok := errors.AsReport(err)
	if !ok || rep.Code != errors.CodeErrorList {
		if ok {
			return []*errors.Report{rep}
		}
		return nil
	}
	raw, ok := rep.Data["errors"].([]*errors.Report)
	if !ok {
		return nil
	}
	return raw
}
