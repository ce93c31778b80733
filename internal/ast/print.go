package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node.
// Used for golden snapshot testing.
//
// It omits nothing instance-specific (this tree carries no positions or
// IDs to begin with) but always emits an explicit "type" discriminator
// so golden diffs read as a type change rather than a field-shape change.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact returns a compact single-line JSON representation.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {

	// Types
	case *Var:
		return map[string]interface{}{"type": "Var", "name": n.Name}
	case *Tag:
		return map[string]interface{}{"type": "Tag", "name": n.Name, "args": simplifyTypes(n.Args)}
	case *Fun:
		return map[string]interface{}{"type": "Fun", "in": simplify(n.In), "out": simplify(n.Out)}
	case UnitType:
		return map[string]interface{}{"type": "UnitType"}
	case *Tuple:
		return map[string]interface{}{"type": "Tuple", "elems": simplifyTypes(n.Elems)}
	case *Record:
		return map[string]interface{}{"type": "Record", "fields": simplifyFields(n.Fields)}
	case *RecExt:
		return map[string]interface{}{"type": "RecExt", "row": n.Row, "fields": simplifyFields(n.Fields)}

	// Patterns
	case *PVar:
		return map[string]interface{}{"type": "PVar", "name": n.Name}
	case PWildcard:
		return map[string]interface{}{"type": "PWildcard"}
	case PUnit:
		return map[string]interface{}{"type": "PUnit"}
	case *PLiteral:
		return map[string]interface{}{"type": "PLiteral", "value": simplifyLiteral(n.Value)}
	case *PTuple:
		return map[string]interface{}{"type": "PTuple", "elems": simplifyPatterns(n.Elems)}
	case *PList:
		return map[string]interface{}{"type": "PList", "elems": simplifyPatterns(n.Elems)}
	case *PCons:
		return map[string]interface{}{"type": "PCons", "head": simplify(n.Head), "tail": simplify(n.Tail)}
	case *PRecord:
		return map[string]interface{}{"type": "PRecord", "fields": n.Fields}
	case *PTagArgs:
		return map[string]interface{}{"type": "PTagArgs", "ctor": n.Ctor, "args": simplifyPatterns(n.Args)}
	case *PAlias:
		return map[string]interface{}{"type": "PAlias", "inner": simplify(n.Inner), "name": n.Name}

	// Expressions
	case *LitExpr:
		return map[string]interface{}{"type": "LitExpr", "value": simplifyLiteral(n.Value)}
	case *Ref:
		return map[string]interface{}{"type": "Ref", "name": n.Name}
	case *QualifiedRef:
		return map[string]interface{}{"type": "QualifiedRef", "path": n.Path, "name": n.Name}
	case *RecordFieldExpr:
		return map[string]interface{}{"type": "RecordFieldExpr", "field": n.Field}
	case *RecordAccess:
		return map[string]interface{}{"type": "RecordAccess", "record": simplify(n.Record), "field": n.Field}
	case *RecordUpdate:
		return map[string]interface{}{"type": "RecordUpdate", "name": n.Name, "fields": simplifyFieldAssigns(n.Fields)}
	case *If:
		return map[string]interface{}{
			"type": "If", "cond": simplify(n.Cond), "then": simplify(n.Then), "else": simplify(n.Else),
		}
	case *Case:
		arms := make([]interface{}, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = map[string]interface{}{"pattern": simplify(a.Pattern), "expr": simplify(a.Expr)}
		}
		return map[string]interface{}{"type": "Case", "scrutinee": simplify(n.Scrutinee), "arms": arms}
	case *Application:
		return map[string]interface{}{"type": "Application", "fn": simplify(n.Fn), "arg": simplify(n.Arg)}
	case *Lambda:
		return map[string]interface{}{"type": "Lambda", "patterns": simplifyPatterns(n.Patterns), "body": simplify(n.Body)}
	case *Let:
		decls := make([]interface{}, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = simplifyLetDecl(d)
		}
		return map[string]interface{}{"type": "Let", "decls": decls, "body": simplify(n.Body)}
	case *OpChain:
		return map[string]interface{}{"type": "OpChain", "terms": simplifyExprs(n.Terms), "ops": n.Ops}
	case *TupleExpr:
		return map[string]interface{}{"type": "TupleExpr", "elems": simplifyExprs(n.Elems)}
	case *ListExpr:
		return map[string]interface{}{"type": "ListExpr", "elems": simplifyExprs(n.Elems)}
	case *RecordExpr:
		return map[string]interface{}{"type": "RecordExpr", "fields": simplifyFieldAssigns(n.Fields)}

	// Statements
	case *AliasStm:
		return map[string]interface{}{"type": "AliasStm", "name": n.Name, "vars": n.Vars, "typ": simplify(n.Type)}
	case *AdtStm:
		return map[string]interface{}{"type": "AdtStm", "name": n.Name, "vars": n.Vars, "variants": simplifyVariants(n.Variants)}
	case *PortStm:
		return map[string]interface{}{"type": "PortStm", "name": n.Name, "typ": simplify(n.Type)}
	case *DefStm:
		return map[string]interface{}{"type": "DefStm", "def": simplifyDefinition(n.Def)}
	case *InfixStm:
		return map[string]interface{}{
			"type": "InfixStm", "assoc": n.Assoc.String(), "precedence": n.Precedence,
			"operator": n.Operator, "underlying": n.Underlying,
		}

	// Module-level
	case *Module:
		header := n.HeaderOrDefault()
		stmts := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			stmts[i] = simplify(s)
		}
		imports := make([]interface{}, len(n.Imports))
		for i, imp := range n.Imports {
			imports[i] = simplify(imp)
		}
		return map[string]interface{}{
			"type": "Module", "name": header.Name, "imports": imports, "statements": stmts,
		}
	case *Import:
		m := map[string]interface{}{"type": "Import", "path": n.Path}
		if n.Alias != "" {
			m["alias"] = n.Alias
		}
		return m

	// Declarations
	case *DefDecl:
		return map[string]interface{}{"type": "DefDecl", "name": n.Name, "typ": simplify(n.Type)}
	case *AliasDecl:
		return map[string]interface{}{"type": "AliasDecl", "name": n.Name, "typ": simplify(n.Type)}
	case *AdtDecl:
		return map[string]interface{}{
			"type": "AdtDecl", "name": n.Name, "variants": simplifyVariants(n.Descriptor.Variants),
		}

	default:
		return map[string]interface{}{
			"type":  fmt.Sprintf("%T", node),
			"_note": "not handled by printer",
		}
	}
}

func simplifyLetDecl(d LetDeclaration) interface{} {
	switch dd := d.(type) {
	case LetDef:
		return map[string]interface{}{"kind": "def", "def": simplifyDefinition(dd.Definition)}
	case LetPattern:
		return map[string]interface{}{"kind": "pattern", "pattern": simplify(dd.Pattern), "expr": simplify(dd.Expr)}
	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", d)}
	}
}

func simplifyDefinition(d *Definition) interface{} {
	if d == nil {
		return nil
	}
	m := map[string]interface{}{
		"name":     d.Name,
		"patterns": simplifyPatterns(d.Patterns),
		"expr":     simplify(d.Expr),
	}
	if d.Signature != nil {
		m["signature"] = simplify(d.Signature)
	}
	return m
}

func simplifyVariants(variants []AdtVariant) []interface{} {
	result := make([]interface{}, len(variants))
	for i, v := range variants {
		result[i] = map[string]interface{}{"name": v.Name, "args": simplifyTypes(v.Args)}
	}
	return result
}

func simplifyLiteral(l Literal) interface{} {
	return map[string]interface{}{"kind": l.Kind.String(), "value": l.Value}
}

func simplifyFields(fields []RecordField) []interface{} {
	result := make([]interface{}, len(fields))
	for i, f := range fields {
		result[i] = map[string]interface{}{"name": f.Name, "typ": simplify(f.Type)}
	}
	return result
}

func simplifyFieldAssigns(fields []FieldAssign) []interface{} {
	result := make([]interface{}, len(fields))
	for i, f := range fields {
		result[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
	}
	return result
}

func simplifyTypes(types []Type) []interface{} {
	result := make([]interface{}, len(types))
	for i, t := range types {
		result[i] = simplify(t)
	}
	return result
}

func simplifyPatterns(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifyExprs(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}
