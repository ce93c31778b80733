// Package depsort topologically orders a module's top-level statements
// so that each statement is analyzed only after everything it refers to.
package depsort

import (
	"fmt"
	"strings"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/errors"
)

type entry struct {
	stmt        ast.Statement
	deps        []string
	sourceIndex int
}

// Sort reorders statements so that every statement appears after every
// other statement (among those being sorted) it depends on.
//
// The algorithm repeatedly removes the current "leaf set" — statements
// with no remaining unresolved dependency — from the working set. Within
// one round, leaves are appended in their original source order, making
// the result deterministic regardless of map iteration order.
//
// If a round produces no leaves, the statements still standing form one
// or more dependency cycles. Sort appends them in their original order
// so the caller gets a best-effort result, and returns a non-nil error
// describing the cycle.
func Sort(statements []ast.Statement) ([]ast.Statement, error) {
	entries := make(map[string]*entry, len(statements))
	order := make([]string, 0, len(statements))
	for i, stmt := range statements {
		name := stmt.StatementName()
		entries[name] = &entry{stmt: stmt, deps: StatementDependencies(stmt), sourceIndex: i}
		order = append(order, name)
	}

	remaining := order
	sorted := make([]ast.Statement, 0, len(statements))

	for len(remaining) > 0 {
		remainingSet := make(map[string]bool, len(remaining))
		for _, n := range remaining {
			remainingSet[n] = true
		}

		var leaves []string
		for _, name := range remaining {
			unresolved := false
			for _, dep := range entries[name].deps {
				if remainingSet[dep] {
					unresolved = true
					break
				}
			}
			if !unresolved {
				leaves = append(leaves, name)
			}
		}

		if len(leaves) == 0 {
			for _, name := range remaining {
				sorted = append(sorted, entries[name].stmt)
			}
			return sorted, cyclicDependencyError(remaining)
		}

		leafSet := make(map[string]bool, len(leaves))
		for _, l := range leaves {
			leafSet[l] = true
			sorted = append(sorted, entries[l].stmt)
		}

		next := remaining[:0]
		for _, n := range remaining {
			if !leafSet[n] {
				next = append(next, n)
			}
		}
		remaining = next
	}

	return sorted, nil
}

func cyclicDependencyError(names []string) error {
	sortedNames := sortedCopy(names)
	rep := &errors.Report{
		Schema:  "mlcheck.error/v1",
		Code:    errors.CodeCyclicDependency,
		Phase:   "depsort",
		Message: fmt.Sprintf("cyclic dependency among: %s", strings.Join(sortedNames, ", ")),
		Data:    map[string]any{"statements": sortedNames},
	}
	return errors.WrapReport(rep)
}
