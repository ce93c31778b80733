// Package ast defines the immutable tree shapes the semantic analyzer
// consumes: types, patterns, expressions, statements and modules. The
// tokenizer and parser (external collaborators) are the only producers
// of these values; everything downstream treats them as shared-immutable.
package ast

import (
	"fmt"
	"sort"
	"strings"
)

// Node is the base interface implemented by every tree shape in this
// package that participates in a generic walk.
type Node interface {
	String() string
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// Type is an immutable type term. The concrete variants are Var, Tag,
// Fun, UnitType, Tuple, Record and RecExt.
type Type interface {
	Node
	typeNode()
}

// Var is a type variable, e.g. "a", or the numeric row-variable "number".
type Var struct {
	Name string
}

func (v *Var) typeNode()      {}
func (v *Var) String() string { return v.Name }

// Tag is a nominal type applied to argument types, e.g. Tag("List", [Int]).
type Tag struct {
	Name string
	Args []Type
}

func (t *Tag) typeNode() {}
func (t *Tag) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", t.Name, strings.Join(parts, " "))
}

// Fun is a single-argument function type. Multi-argument functions are
// right-nested chains of Fun.
type Fun struct {
	In  Type
	Out Type
}

func (f *Fun) typeNode() {}
func (f *Fun) String() string {
	return fmt.Sprintf("%s -> %s", wrapIfFun(f.In), f.Out.String())
}

func wrapIfFun(t Type) string {
	if _, ok := t.(*Fun); ok {
		return "(" + t.String() + ")"
	}
	return t.String()
}

// UnitType is the 0-tuple.
type UnitType struct{}

func (UnitType) typeNode()      {}
func (UnitType) String() string { return "()" }

// Tuple is an ordered product of two or more types.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) typeNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("( %s )", strings.Join(parts, ", "))
}

// RecordField is one field of a Record or RecExt, kept in source order.
type RecordField struct {
	Name string
	Type Type
}

// Record is a closed record type. Field order is preserved (it matters
// for record-constructor argument order) but equality ignores it.
type Record struct {
	Fields []RecordField
}

func (r *Record) typeNode() {}
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s : %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// RecExt is a row-polymorphic record extension: { rowVar | fields }.
type RecExt struct {
	Row    string
	Fields []RecordField
}

func (r *RecExt) typeNode() {}
func (r *RecExt) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s : %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("{ %s | %s }", r.Row, strings.Join(parts, ", "))
}

// SortedFieldNames returns field names sorted, independent of source
// order.
func SortedFieldNames(fields []RecordField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

// LiteralKind identifies the shape of a Literal value.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	CharLit
	BoolLit
)

func (k LiteralKind) String() string {
	switch k {
	case IntLit:
		return "Int"
	case FloatLit:
		return "Float"
	case StringLit:
		return "String"
	case CharLit:
		return "Char"
	case BoolLit:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Literal is a literal constant carried by both expressions and patterns.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
}

func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

// Pattern is an immutable pattern term matched against a scrutinee.
type Pattern interface {
	Node
	patternNode()
}

// PVar binds the scrutinee to a name.
type PVar struct{ Name string }

func (p *PVar) patternNode()   {}
func (p *PVar) String() string { return p.Name }

// PWildcard matches anything, binding nothing.
type PWildcard struct{}

func (PWildcard) patternNode()   {}
func (PWildcard) String() string { return "_" }

// PUnit matches the unit value.
type PUnit struct{}

func (PUnit) patternNode()   {}
func (PUnit) String() string { return "()" }

// PLiteral matches an exact literal value.
type PLiteral struct{ Value Literal }

func (p *PLiteral) patternNode()   {}
func (p *PLiteral) String() string { return p.Value.String() }

// PTuple matches a tuple element-wise.
type PTuple struct{ Elems []Pattern }

func (p *PTuple) patternNode() {}
func (p *PTuple) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("( %s )", strings.Join(parts, ", "))
}

// PList matches a fixed-length list.
type PList struct{ Elems []Pattern }

func (p *PList) patternNode() {}
func (p *PList) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// PCons matches a non-empty list by head/tail.
type PCons struct {
	Head Pattern
	Tail Pattern
}

func (p *PCons) patternNode()   {}
func (p *PCons) String() string { return fmt.Sprintf("%s :: %s", p.Head, p.Tail) }

// PRecord matches a record by the presence of named fields, binding each
// field name to a value of the same name.
type PRecord struct{ Fields []string }

func (p *PRecord) patternNode() {}
func (p *PRecord) String() string {
	return fmt.Sprintf("{ %s }", strings.Join(p.Fields, ", "))
}

// PTagArgs matches an ADT constructor application.
type PTagArgs struct {
	Ctor string
	Args []Pattern
}

func (p *PTagArgs) patternNode() {}
func (p *PTagArgs) String() string {
	if len(p.Args) == 0 {
		return p.Ctor
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", p.Ctor, strings.Join(parts, " "))
}

// PAlias binds the whole matched value to Name in addition to matching Inner.
type PAlias struct {
	Inner Pattern
	Name  string
}

func (p *PAlias) patternNode()   {}
func (p *PAlias) String() string { return fmt.Sprintf("%s as %s", p.Inner, p.Name) }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is an immutable expression term.
type Expr interface {
	Node
	exprNode()
}

// LitExpr is a literal constant expression.
type LitExpr struct{ Value Literal }

func (e *LitExpr) exprNode()     {}
func (e *LitExpr) String() string { return e.Value.String() }

// Ref is a reference to an unqualified name in scope.
type Ref struct{ Name string }

func (e *Ref) exprNode()     {}
func (e *Ref) String() string { return e.Name }

// QualifiedRef is a reference to a name exposed by an imported module,
// addressed through its qualifier path (e.g. List.map).
type QualifiedRef struct {
	Path []string
	Name string
}

func (e *QualifiedRef) exprNode() {}
func (e *QualifiedRef) String() string {
	return QualifiedName(e.Path, e.Name)
}

// QualifiedName joins a module path and a declaration name into the dotted
// form used throughout the environment and the import linker.
func QualifiedName(path []string, name string) string {
	if len(path) == 0 {
		return name
	}
	return strings.Join(path, ".") + "." + name
}

// RecordFieldExpr is a point-free field accessor, e.g. ".name".
type RecordFieldExpr struct{ Field string }

func (e *RecordFieldExpr) exprNode()     {}
func (e *RecordFieldExpr) String() string { return "." + e.Field }

// RecordAccess reads a field off a record expression.
type RecordAccess struct {
	Record Expr
	Field  string
}

func (e *RecordAccess) exprNode() {}
func (e *RecordAccess) String() string {
	return fmt.Sprintf("%s.%s", e.Record, e.Field)
}

// FieldAssign is one field of a Record literal or RecordUpdate.
type FieldAssign struct {
	Name  string
	Value Expr
}

// RecordUpdate builds a new record from an existing binding plus field
// overrides: { name | f1 = e1, ... }.
type RecordUpdate struct {
	Name   string
	Fields []FieldAssign
}

func (e *RecordUpdate) exprNode() {}
func (e *RecordUpdate) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{ %s | %s }", e.Name, strings.Join(parts, ", "))
}

// If is a conditional expression.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (e *If) exprNode() {}
func (e *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", e.Cond, e.Then, e.Else)
}

// CaseArm is one arm of a Case expression.
type CaseArm struct {
	Pattern Pattern
	Expr    Expr
}

// Case is a pattern-match expression.
type Case struct {
	Scrutinee Expr
	Arms      []CaseArm
}

func (e *Case) exprNode() {}
func (e *Case) String() string {
	parts := make([]string, len(e.Arms))
	for i, a := range e.Arms {
		parts[i] = fmt.Sprintf("%s -> %s", a.Pattern, a.Expr)
	}
	return fmt.Sprintf("case %s of %s", e.Scrutinee, strings.Join(parts, "; "))
}

// Application is single-argument function application; curried calls are
// right-nested chains of Application.
type Application struct {
	Fn  Expr
	Arg Expr
}

func (e *Application) exprNode() {}
func (e *Application) String() string {
	return fmt.Sprintf("(%s %s)", e.Fn, e.Arg)
}

// Lambda is an anonymous function over one or more patterns.
type Lambda struct {
	Patterns []Pattern
	Body     Expr
}

func (e *Lambda) exprNode() {}
func (e *Lambda) String() string {
	parts := make([]string, len(e.Patterns))
	for i, p := range e.Patterns {
		parts[i] = p.String()
	}
	return fmt.Sprintf("\\%s -> %s", strings.Join(parts, " "), e.Body)
}

// LetDeclaration is one binding of a Let expression: either a named
// Definition or a destructuring pattern binding.
type LetDeclaration interface {
	letDeclNode()
}

// LetDef is a function or value definition local to a Let.
type LetDef struct{ Definition *Definition }

func (LetDef) letDeclNode() {}

// LetPattern destructures Expr according to Pattern.
type LetPattern struct {
	Pattern Pattern
	Expr    Expr
}

func (LetPattern) letDeclNode() {}

// Let introduces one or more local bindings in scope for Body.
type Let struct {
	Decls []LetDeclaration
	Body  Expr
}

func (e *Let) exprNode() {}
func (e *Let) String() string {
	return fmt.Sprintf("let ... in %s", e.Body)
}

// OpChain is the flat sequence of terms and operator names the parser
// produces before precedence resolution; resolving precedence is a
// parser concern, out of scope here.
type OpChain struct {
	Terms []Expr
	Ops   []string
}

func (e *OpChain) exprNode() {}
func (e *OpChain) String() string {
	parts := make([]string, 0, len(e.Terms)+len(e.Ops))
	for i, t := range e.Terms {
		parts = append(parts, t.String())
		if i < len(e.Ops) {
			parts = append(parts, e.Ops[i])
		}
	}
	return strings.Join(parts, " ")
}

// TupleExpr is a tuple literal.
type TupleExpr struct{ Elems []Expr }

func (e *TupleExpr) exprNode() {}
func (e *TupleExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return fmt.Sprintf("( %s )", strings.Join(parts, ", "))
}

// ListExpr is a list literal.
type ListExpr struct{ Elems []Expr }

func (e *ListExpr) exprNode() {}
func (e *ListExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// RecordExpr is a record literal.
type RecordExpr struct{ Fields []FieldAssign }

func (e *RecordExpr) exprNode() {}
func (e *RecordExpr) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// ---------------------------------------------------------------------
// Definitions and top-level statements
// ---------------------------------------------------------------------

// Definition is a value definition: a name, its argument patterns, its
// body and an optional declared signature.
type Definition struct {
	Name      string
	Patterns  []Pattern
	Expr      Expr
	Signature Type // nil when absent
}

// Associativity is the associativity of an infix operator declaration.
type Associativity int

const (
	Left Associativity = iota
	Right
	NonAssoc
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "non"
	}
}

// Statement is a top-level statement of a module.
type Statement interface {
	Node
	stmtNode()
	StatementName() string
}

// AliasStm is a type alias declaration: `A vars = t`.
type AliasStm struct {
	Name string
	Vars []string
	Type Type
}

func (s *AliasStm) stmtNode()             {}
func (s *AliasStm) StatementName() string { return s.Name }
func (s *AliasStm) String() string {
	return fmt.Sprintf("type alias %s %s = %s", s.Name, strings.Join(s.Vars, " "), s.Type)
}

// AdtVariant is one constructor of an Adt declaration.
type AdtVariant struct {
	Name string
	Args []Type
}

// AdtStm is an algebraic data type declaration.
type AdtStm struct {
	Name     string
	Vars     []string
	Variants []AdtVariant
}

func (s *AdtStm) stmtNode()             {}
func (s *AdtStm) StatementName() string { return s.Name }
func (s *AdtStm) String() string {
	parts := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		parts[i] = v.Name
	}
	return fmt.Sprintf("type %s %s = %s", s.Name, strings.Join(s.Vars, " "), strings.Join(parts, " | "))
}

// PortStm is an externally-provided binding whose value comes from the host.
type PortStm struct {
	Name string
	Type Type
}

func (s *PortStm) stmtNode()             {}
func (s *PortStm) StatementName() string { return s.Name }
func (s *PortStm) String() string        { return fmt.Sprintf("port %s : %s", s.Name, s.Type) }

// DefStm wraps a top-level value definition.
type DefStm struct{ Def *Definition }

func (s *DefStm) stmtNode()             {}
func (s *DefStm) StatementName() string { return s.Def.Name }
func (s *DefStm) String() string        { return fmt.Sprintf("%s = ...", s.Def.Name) }

// InfixStm registers an operator symbol as an alias of an existing value.
type InfixStm struct {
	Assoc      Associativity
	Precedence int
	Operator   string
	Underlying string
}

func (s *InfixStm) stmtNode()             {}
func (s *InfixStm) StatementName() string { return s.Operator }
func (s *InfixStm) String() string {
	return fmt.Sprintf("infix %d %s = %s", s.Precedence, s.Operator, s.Underlying)
}

// ---------------------------------------------------------------------
// Modules and imports
// ---------------------------------------------------------------------

// AdtExposing selects which variants of an exposed ADT cross the module
// boundary.
type AdtExposing struct {
	All      bool
	Variants []string
}

// Exposing is one item of an exposing list.
type Exposing interface {
	exposingNode()
}

// ExposeDefinition exposes a value definition by name.
type ExposeDefinition struct{ Name string }

func (ExposeDefinition) exposingNode() {}

// ExposeOperator exposes an infix operator by symbol.
type ExposeOperator struct{ Name string }

func (ExposeOperator) exposingNode() {}

// ExposeType exposes a type alias or an ADT's type name (but not its
// constructors, unless also selected via ExposeAdt).
type ExposeType struct{ Name string }

func (ExposeType) exposingNode() {}

// ExposeAdt exposes an ADT together with some or all of its variants.
type ExposeAdt struct {
	Name     string
	Variants AdtExposing
}

func (ExposeAdt) exposingNode() {}

// ModuleExposing is a module header's or import's exposing clause.
type ModuleExposing struct {
	All   bool
	Items []Exposing // meaningful only when All is false
}

// ExposingAll is the `exposing (..)` clause.
func ExposingAll() ModuleExposing { return ModuleExposing{All: true} }

// ExposingJust is an explicit exposing list.
func ExposingJust(items ...Exposing) ModuleExposing {
	return ModuleExposing{Items: items}
}

// Import is one import directive.
type Import struct {
	Path     []string
	Alias    string // empty when absent
	Exposing *ModuleExposing
}

// JoinedPath returns the dotted module path, e.g. "Data.List".
func (i *Import) JoinedPath() string { return strings.Join(i.Path, ".") }

func (i *Import) String() string { return fmt.Sprintf("import %s", i.JoinedPath()) }

// ModuleHeader names a module and states what it exposes.
type ModuleHeader struct {
	Name     string
	Exposing ModuleExposing
}

// DefaultModuleHeader is used when a module has no explicit header: named
// "Main", exposing everything.
func DefaultModuleHeader() ModuleHeader {
	return ModuleHeader{Name: "Main", Exposing: ExposingAll()}
}

// Module is a parsed compilation unit, prior to analysis.
type Module struct {
	Header     *ModuleHeader // nil when absent
	Imports    []*Import
	Statements []Statement
}

// HeaderOrDefault returns the module's header, defaulting per the rule
// above when none was parsed.
func (m *Module) HeaderOrDefault() ModuleHeader {
	if m.Header != nil {
		return *m.Header
	}
	return DefaultModuleHeader()
}

func (m *Module) String() string {
	return fmt.Sprintf("module %s", m.HeaderOrDefault().Name)
}

// ---------------------------------------------------------------------
// Post-analysis declarations
// ---------------------------------------------------------------------

// Declaration is a named binding, alias, or ADT exposed by an analyzed
// module.
type Declaration interface {
	Node
	declNode()
	DeclName() string
}

// DefDecl is a value binding with its inferred or declared type.
type DefDecl struct {
	Name string
	Type Type
}

func (d *DefDecl) declNode()        {}
func (d *DefDecl) DeclName() string { return d.Name }
func (d *DefDecl) String() string   { return fmt.Sprintf("%s : %s", d.Name, d.Type) }

// AliasDecl is a type alias binding.
type AliasDecl struct {
	Name string
	Type Type
}

func (d *AliasDecl) declNode()        {}
func (d *AliasDecl) DeclName() string { return d.Name }
func (d *AliasDecl) String() string   { return fmt.Sprintf("alias %s = %s", d.Name, d.Type) }

// AdtDescriptor describes an algebraic data type. It is shared by
// pointer: the same descriptor is referenced from a module's declaration
// list and from every environment that imports it, and must never be
// mutated after construction.
type AdtDescriptor struct {
	Name     string
	TypeVars []string
	Variants []AdtVariant
}

// VariantNamed returns the variant with the given name, if any.
func (d *AdtDescriptor) VariantNamed(name string) (AdtVariant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return AdtVariant{}, false
}

// AdtDecl is an ADT binding.
type AdtDecl struct {
	Name       string
	Descriptor *AdtDescriptor
}

func (d *AdtDecl) declNode()        {}
func (d *AdtDecl) DeclName() string { return d.Name }
func (d *AdtDecl) String() string   { return fmt.Sprintf("type %s", d.Name) }

// StaticEnvReader is the read-only surface of the environment that a
// CheckedModule exposes to callers outside the env package, avoiding an
// import cycle between ast and env (env.StaticEnv implements this).
type StaticEnvReader interface {
	FindDefinition(name string) (Type, bool)
	FindAlias(name string) (Type, bool)
	FindAdt(name string) (*AdtDescriptor, bool)
}

// CheckedModule is the result of analyzing a Module: the original AST,
// the environment built while analyzing it, and the declarations it
// exposes to importers.
type CheckedModule struct {
	Path     string
	Original *Module
	Env      StaticEnvReader
	Exposing []Declaration
}
