// Package env implements the static environment the analyzer threads
// through every component: a stack of lexical blocks, each holding the
// definitions, aliases, ADTs and monomorphic pattern variables visible
// at that scope.
package env

import (
	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/identnorm"
)

// block holds everything introduced at one lexical level.
type block struct {
	definitions map[string]ast.Type
	aliases     map[string]ast.Type
	adts        map[string]*ast.AdtDescriptor
	variables   map[string]ast.Type
}

func newBlock() *block {
	return &block{
		definitions: make(map[string]ast.Type),
		aliases:     make(map[string]ast.Type),
		adts:        make(map[string]*ast.AdtDescriptor),
		variables:   make(map[string]ast.Type),
	}
}

// StaticEnv is a stack of blocks with strict enter/exit discipline: every
// EnterBlock must be matched by exactly one ExitBlock, innermost first.
// It implements ast.StaticEnvReader.
type StaticEnv struct {
	blocks []*block
}

// New returns an environment with a single, empty base block.
func New() *StaticEnv {
	return &StaticEnv{blocks: []*block{newBlock()}}
}

// NewWithNumericOperators returns an environment seeded with the
// arithmetic operators +, -, * and // bound over the numeric row
// variable and / bound as Float -> Float -> Float, so that a bare
// expression like `1 + 2` type-checks without an explicit import.
func NewWithNumericOperators() *StaticEnv {
	e := New()
	number := &ast.Var{Name: "number"}
	binOp := &ast.Fun{In: number, Out: &ast.Fun{In: number, Out: number}}
	for _, name := range []string{"+", "-", "*", "//"} {
		e.AddDefinition(name, binOp)
	}
	floatDiv := &ast.Fun{
		In:  &ast.Tag{Name: "Float"},
		Out: &ast.Fun{In: &ast.Tag{Name: "Float"}, Out: &ast.Tag{Name: "Float"}},
	}
	e.AddDefinition("/", floatDiv)
	return e
}

// Clone returns a deep-enough copy for a nested analysis that must not
// let its own scratch bindings leak back into the caller's environment
// (used by the function analyzer's per-definition pass and its Let
// scopes).
func (e *StaticEnv) Clone() *StaticEnv {
	clone := &StaticEnv{blocks: make([]*block, len(e.blocks))}
	for i, b := range e.blocks {
		nb := newBlock()
		for k, v := range b.definitions {
			nb.definitions[k] = v
		}
		for k, v := range b.aliases {
			nb.aliases[k] = v
		}
		for k, v := range b.adts {
			nb.adts[k] = v
		}
		for k, v := range b.variables {
			nb.variables[k] = v
		}
		clone.blocks[i] = nb
	}
	return clone
}

// EnterBlock pushes a new, empty lexical scope.
func (e *StaticEnv) EnterBlock() {
	e.blocks = append(e.blocks, newBlock())
}

// ExitBlock pops the innermost lexical scope. It is an internal error to
// call ExitBlock without a matching EnterBlock; the base block created by
// New is never popped.
func (e *StaticEnv) ExitBlock() error {
	if len(e.blocks) <= 1 {
		return errors.WrapReport(&errors.Report{
			Schema:  "mlcheck.error/v1",
			Code:    errors.CodeInternalError,
			Phase:   "env",
			Message: "exit_block called with no matching enter_block",
		})
	}
	e.blocks = e.blocks[:len(e.blocks)-1]
	return nil
}

// Depth returns the number of currently active blocks.
func (e *StaticEnv) Depth() int { return len(e.blocks) }

func (e *StaticEnv) innermost() *block { return e.blocks[len(e.blocks)-1] }

// AddDefinition binds name to typ in the innermost block.
func (e *StaticEnv) AddDefinition(name string, typ ast.Type) {
	e.innermost().definitions[identnorm.Normalize(name)] = typ
}

// AddAlias binds a type-alias name to its expanded type in the innermost block.
func (e *StaticEnv) AddAlias(name string, typ ast.Type) {
	e.innermost().aliases[identnorm.Normalize(name)] = typ
}

// AddAdt binds an ADT name to its descriptor in the innermost block.
// Variant constructors are separate Def declarations the caller adds
// with AddDefinition (see internal/declare), not part of this call.
func (e *StaticEnv) AddAdt(name string, descriptor *ast.AdtDescriptor) {
	e.innermost().adts[identnorm.Normalize(name)] = descriptor
}

// AddVariable binds a monomorphic, pattern-introduced name (a function
// argument or a case-arm binder) in the innermost block.
func (e *StaticEnv) AddVariable(name string, typ ast.Type) {
	e.innermost().variables[identnorm.Normalize(name)] = typ
}

// FindDefinition looks up name from the innermost block outward.
func (e *StaticEnv) FindDefinition(name string) (ast.Type, bool) {
	n := identnorm.Normalize(name)
	for i := len(e.blocks) - 1; i >= 0; i-- {
		if t, ok := e.blocks[i].definitions[n]; ok {
			return t, true
		}
	}
	return nil, false
}

// FindAlias looks up a type alias from the innermost block outward.
func (e *StaticEnv) FindAlias(name string) (ast.Type, bool) {
	n := identnorm.Normalize(name)
	for i := len(e.blocks) - 1; i >= 0; i-- {
		if t, ok := e.blocks[i].aliases[n]; ok {
			return t, true
		}
	}
	return nil, false
}

// FindAdt looks up an ADT descriptor from the innermost block outward.
func (e *StaticEnv) FindAdt(name string) (*ast.AdtDescriptor, bool) {
	n := identnorm.Normalize(name)
	for i := len(e.blocks) - 1; i >= 0; i-- {
		if d, ok := e.blocks[i].adts[n]; ok {
			return d, true
		}
	}
	return nil, false
}

// FindVariable looks up a pattern-bound variable from the innermost
// block outward. Variables shadow definitions of the same name.
func (e *StaticEnv) FindVariable(name string) (ast.Type, bool) {
	n := identnorm.Normalize(name)
	for i := len(e.blocks) - 1; i >= 0; i-- {
		if t, ok := e.blocks[i].variables[n]; ok {
			return t, true
		}
	}
	return nil, false
}

// Find looks up name as a variable first, then as a definition — the
// lookup order a reference in an expression body should use, since a
// pattern binder always shadows an outer top-level definition.
func (e *StaticEnv) Find(name string) (ast.Type, bool) {
	if t, ok := e.FindVariable(name); ok {
		return t, ok
	}
	return e.FindDefinition(name)
}

// IsBound reports whether name is bound as either a variable or a
// definition anywhere in the stack; used by the dependency sorter to
// decide whether a Ref is a free external reference or a local binding.
func (e *StaticEnv) IsBound(name string) bool {
	_, ok := e.Find(name)
	return ok
}
