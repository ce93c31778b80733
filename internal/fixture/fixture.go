// Package fixture decodes a JSON-encoded ast.Module for use outside
// the real parser —
// tokenization and parsing are out of scope for this analyzer, so
// cmd/envshell and tests that want a Module from something other than
// hand-built Go literals load one from a small JSON schema instead.
//
// The schema is intentionally a plain mirror of the ast package's own
// variant set: every node is a JSON object with a "kind" discriminator
// plus the fields that variant needs. It is not meant to be a stable
// public wire format — it exists to let a developer hand-author a
// module fixture without writing Go.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/sunholo/mlcheck/internal/ast"
)

// LoadModule decodes data as a Module fixture.
func LoadModule(data []byte) (*ast.Module, error) {
	var raw rawModule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixture: invalid module JSON: %w", err)
	}
	return raw.toModule()
}

type rawModule struct {
	Header     *rawHeader        `json:"header"`
	Imports    []rawImport       `json:"imports"`
	Statements []json.RawMessage `json:"statements"`
}

type rawHeader struct {
	Name     string        `json:"name"`
	Exposing rawExposingSet `json:"exposing"`
}

type rawExposingSet struct {
	All   bool         `json:"all"`
	Items []rawExposed `json:"items"`
}

type rawExposed struct {
	Kind     string   `json:"kind"` // "def" | "operator" | "type" | "adt"
	Name     string   `json:"name"`
	Variants []string `json:"variants,omitempty"` // only for kind == "adt"
	AllVars  bool      `json:"allVariants,omitempty"`
}

type rawImport struct {
	Path     []string        `json:"path"`
	Alias    string          `json:"alias"`
	Exposing *rawExposingSet `json:"exposing"`
}

func (rm *rawModule) toModule() (*ast.Module, error) {
	m := &ast.Module{}

	if rm.Header != nil {
		exposing, err := rm.Header.Exposing.toAst()
		if err != nil {
			return nil, err
		}
		m.Header = &ast.ModuleHeader{Name: rm.Header.Name, Exposing: exposing}
	}

	for _, ri := range rm.Imports {
		imp := &ast.Import{Path: ri.Path, Alias: ri.Alias}
		if ri.Exposing != nil {
			exposing, err := ri.Exposing.toAst()
			if err != nil {
				return nil, err
			}
			imp.Exposing = &exposing
		}
		m.Imports = append(m.Imports, imp)
	}

	for _, raw := range rm.Statements {
		stmt, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}
		m.Statements = append(m.Statements, stmt)
	}

	return m, nil
}

func (res rawExposingSet) toAst() (ast.ModuleExposing, error) {
	if res.All {
		return ast.ExposingAll(), nil
	}
	items := make([]ast.Exposing, 0, len(res.Items))
	for _, it := range res.Items {
		switch it.Kind {
		case "def":
			items = append(items, ast.ExposeDefinition{Name: it.Name})
		case "operator":
			items = append(items, ast.ExposeOperator{Name: it.Name})
		case "type":
			items = append(items, ast.ExposeType{Name: it.Name})
		case "adt":
			variants := ast.AdtExposing{All: it.AllVars, Variants: it.Variants}
			items = append(items, ast.ExposeAdt{Name: it.Name, Variants: variants})
		default:
			return ast.ModuleExposing{}, fmt.Errorf("fixture: unknown exposing kind %q", it.Kind)
		}
	}
	return ast.ExposingJust(items...), nil
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

type kindEnvelope struct {
	Kind string `json:"kind"`
}

func decodeStatement(raw json.RawMessage) (ast.Statement, error) {
	var k kindEnvelope
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("fixture: invalid statement: %w", err)
	}

	switch k.Kind {
	case "alias":
		var s struct {
			Name string          `json:"name"`
			Vars []string        `json:"vars"`
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		t, err := decodeType(s.Type)
		if err != nil {
			return nil, err
		}
		return &ast.AliasStm{Name: s.Name, Vars: s.Vars, Type: t}, nil

	case "adt":
		var s struct {
			Name     string   `json:"name"`
			Vars     []string `json:"vars"`
			Variants []struct {
				Name string            `json:"name"`
				Args []json.RawMessage `json:"args"`
			} `json:"variants"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		variants := make([]ast.AdtVariant, len(s.Variants))
		for i, v := range s.Variants {
			args, err := decodeTypes(v.Args)
			if err != nil {
				return nil, err
			}
			variants[i] = ast.AdtVariant{Name: v.Name, Args: args}
		}
		return &ast.AdtStm{Name: s.Name, Vars: s.Vars, Variants: variants}, nil

	case "port":
		var s struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		t, err := decodeType(s.Type)
		if err != nil {
			return nil, err
		}
		return &ast.PortStm{Name: s.Name, Type: t}, nil

	case "def":
		var s struct {
			Name      string            `json:"name"`
			Patterns  []json.RawMessage `json:"patterns"`
			Expr      json.RawMessage   `json:"expr"`
			Signature json.RawMessage   `json:"signature"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		patterns, err := decodePatterns(s.Patterns)
		if err != nil {
			return nil, err
		}
		expr, err := decodeExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		var sig ast.Type
		if len(s.Signature) > 0 {
			sig, err = decodeType(s.Signature)
			if err != nil {
				return nil, err
			}
		}
		return &ast.DefStm{Def: &ast.Definition{Name: s.Name, Patterns: patterns, Expr: expr, Signature: sig}}, nil

	case "infix":
		var s struct {
			Assoc      string `json:"assoc"` // "left" | "right" | "non"
			Precedence int    `json:"precedence"`
			Operator   string `json:"operator"`
			Underlying string `json:"underlying"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		assoc := ast.Left
		switch s.Assoc {
		case "right":
			assoc = ast.Right
		case "non":
			assoc = ast.NonAssoc
		}
		return &ast.InfixStm{Assoc: assoc, Precedence: s.Precedence, Operator: s.Operator, Underlying: s.Underlying}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown statement kind %q", k.Kind)
	}
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

func decodeTypes(raws []json.RawMessage) ([]ast.Type, error) {
	out := make([]ast.Type, len(raws))
	for i, r := range raws {
		t, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeType(raw json.RawMessage) (ast.Type, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var k kindEnvelope
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("fixture: invalid type: %w", err)
	}

	switch k.Kind {
	case "var":
		var t struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return &ast.Var{Name: t.Name}, nil

	case "tag":
		var t struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		args, err := decodeTypes(t.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Tag{Name: t.Name, Args: args}, nil

	case "fun":
		var t struct {
			In  json.RawMessage `json:"in"`
			Out json.RawMessage `json:"out"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		in, err := decodeType(t.In)
		if err != nil {
			return nil, err
		}
		out, err := decodeType(t.Out)
		if err != nil {
			return nil, err
		}
		return &ast.Fun{In: in, Out: out}, nil

	case "unit":
		return ast.UnitType{}, nil

	case "tuple":
		var t struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		elems, err := decodeTypes(t.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elems: elems}, nil

	case "record":
		fields, err := decodeRecordFields(raw)
		if err != nil {
			return nil, err
		}
		return &ast.Record{Fields: fields}, nil

	case "recext":
		var t struct {
			Row string `json:"row"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		fields, err := decodeRecordFields(raw)
		if err != nil {
			return nil, err
		}
		return &ast.RecExt{Row: t.Row, Fields: fields}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown type kind %q", k.Kind)
	}
}

func decodeRecordFields(raw json.RawMessage) ([]ast.RecordField, error) {
	var t struct {
		Fields []struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	fields := make([]ast.RecordField, len(t.Fields))
	for i, f := range t.Fields {
		typ, err := decodeType(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = ast.RecordField{Name: f.Name, Type: typ}
	}
	return fields, nil
}

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

func decodePatterns(raws []json.RawMessage) ([]ast.Pattern, error) {
	out := make([]ast.Pattern, len(raws))
	for i, r := range raws {
		p, err := decodePattern(r)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func decodePattern(raw json.RawMessage) (ast.Pattern, error) {
	var k kindEnvelope
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("fixture: invalid pattern: %w", err)
	}

	switch k.Kind {
	case "var":
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &ast.PVar{Name: p.Name}, nil

	case "wildcard":
		return ast.PWildcard{}, nil

	case "unit":
		return ast.PUnit{}, nil

	case "literal":
		var p struct {
			LitKind string `json:"litKind"`
			Value   any    `json:"value"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		lit, err := decodeLiteral(p.LitKind, p.Value)
		if err != nil {
			return nil, err
		}
		return &ast.PLiteral{Value: lit}, nil

	case "tuple":
		var p struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		elems, err := decodePatterns(p.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.PTuple{Elems: elems}, nil

	case "list":
		var p struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		elems, err := decodePatterns(p.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.PList{Elems: elems}, nil

	case "cons":
		var p struct {
			Head json.RawMessage `json:"head"`
			Tail json.RawMessage `json:"tail"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		head, err := decodePattern(p.Head)
		if err != nil {
			return nil, err
		}
		tail, err := decodePattern(p.Tail)
		if err != nil {
			return nil, err
		}
		return &ast.PCons{Head: head, Tail: tail}, nil

	case "record":
		var p struct {
			Fields []string `json:"fields"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &ast.PRecord{Fields: p.Fields}, nil

	case "tagArgs":
		var p struct {
			Ctor string            `json:"ctor"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		args, err := decodePatterns(p.Args)
		if err != nil {
			return nil, err
		}
		return &ast.PTagArgs{Ctor: p.Ctor, Args: args}, nil

	case "alias":
		var p struct {
			Inner json.RawMessage `json:"inner"`
			Name  string          `json:"name"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		inner, err := decodePattern(p.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.PAlias{Inner: inner, Name: p.Name}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown pattern kind %q", k.Kind)
	}
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func decodeExprs(raws []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(raws))
	for i, r := range raws {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	var k kindEnvelope
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("fixture: invalid expression: %w", err)
	}

	switch k.Kind {
	case "literal":
		var e struct {
			LitKind string `json:"litKind"`
			Value   any    `json:"value"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		lit, err := decodeLiteral(e.LitKind, e.Value)
		if err != nil {
			return nil, err
		}
		return &ast.LitExpr{Value: lit}, nil

	case "ref":
		var e struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return &ast.Ref{Name: e.Name}, nil

	case "qualifiedRef":
		var e struct {
			Path []string `json:"path"`
			Name string   `json:"name"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return &ast.QualifiedRef{Path: e.Path, Name: e.Name}, nil

	case "recordField":
		var e struct {
			Field string `json:"field"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return &ast.RecordFieldExpr{Field: e.Field}, nil

	case "recordAccess":
		var e struct {
			Record json.RawMessage `json:"record"`
			Field  string          `json:"field"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		rec, err := decodeExpr(e.Record)
		if err != nil {
			return nil, err
		}
		return &ast.RecordAccess{Record: rec, Field: e.Field}, nil

	case "recordUpdate":
		var e struct {
			Name   string `json:"name"`
			Fields []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		fields := make([]ast.FieldAssign, len(e.Fields))
		for i, f := range e.Fields {
			v, err := decodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.FieldAssign{Name: f.Name, Value: v}
		}
		return &ast.RecordUpdate{Name: e.Name, Fields: fields}, nil

	case "if":
		var e struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(e.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil

	case "case":
		var e struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Arms      []struct {
				Pattern json.RawMessage `json:"pattern"`
				Expr    json.RawMessage `json:"expr"`
			} `json:"arms"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		scrutinee, err := decodeExpr(e.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]ast.CaseArm, len(e.Arms))
		for i, a := range e.Arms {
			pat, err := decodePattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			body, err := decodeExpr(a.Expr)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.CaseArm{Pattern: pat, Expr: body}
		}
		return &ast.Case{Scrutinee: scrutinee, Arms: arms}, nil

	case "application":
		var e struct {
			Fn  json.RawMessage `json:"fn"`
			Arg json.RawMessage `json:"arg"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		fn, err := decodeExpr(e.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := decodeExpr(e.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.Application{Fn: fn, Arg: arg}, nil

	case "lambda":
		var e struct {
			Patterns []json.RawMessage `json:"patterns"`
			Body     json.RawMessage   `json:"body"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		patterns, err := decodePatterns(e.Patterns)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(e.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Patterns: patterns, Body: body}, nil

	case "let":
		var e struct {
			Decls []json.RawMessage `json:"decls"`
			Body  json.RawMessage   `json:"body"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		decls, err := decodeLetDecls(e.Decls)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(e.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Decls: decls, Body: body}, nil

	case "opChain":
		var e struct {
			Terms []json.RawMessage `json:"terms"`
			Ops   []string          `json:"ops"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		terms, err := decodeExprs(e.Terms)
		if err != nil {
			return nil, err
		}
		return &ast.OpChain{Terms: terms, Ops: e.Ops}, nil

	case "tuple":
		var e struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		elems, err := decodeExprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Elems: elems}, nil

	case "list":
		var e struct {
			Elems []json.RawMessage `json:"elems"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		elems, err := decodeExprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.ListExpr{Elems: elems}, nil

	case "record":
		var e struct {
			Fields []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		fields := make([]ast.FieldAssign, len(e.Fields))
		for i, f := range e.Fields {
			v, err := decodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.FieldAssign{Name: f.Name, Value: v}
		}
		return &ast.RecordExpr{Fields: fields}, nil

	default:
		return nil, fmt.Errorf("fixture: unknown expression kind %q", k.Kind)
	}
}

func decodeLetDecls(raws []json.RawMessage) ([]ast.LetDeclaration, error) {
	out := make([]ast.LetDeclaration, len(raws))
	for i, raw := range raws {
		var k kindEnvelope
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		switch k.Kind {
		case "letDef":
			var d struct {
				Name      string            `json:"name"`
				Patterns  []json.RawMessage `json:"patterns"`
				Expr      json.RawMessage   `json:"expr"`
				Signature json.RawMessage   `json:"signature"`
			}
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, err
			}
			patterns, err := decodePatterns(d.Patterns)
			if err != nil {
				return nil, err
			}
			expr, err := decodeExpr(d.Expr)
			if err != nil {
				return nil, err
			}
			var sig ast.Type
			if len(d.Signature) > 0 {
				sig, err = decodeType(d.Signature)
				if err != nil {
					return nil, err
				}
			}
			out[i] = ast.LetDef{Definition: &ast.Definition{Name: d.Name, Patterns: patterns, Expr: expr, Signature: sig}}

		case "letPattern":
			var d struct {
				Pattern json.RawMessage `json:"pattern"`
				Expr    json.RawMessage `json:"expr"`
			}
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, err
			}
			pat, err := decodePattern(d.Pattern)
			if err != nil {
				return nil, err
			}
			expr, err := decodeExpr(d.Expr)
			if err != nil {
				return nil, err
			}
			out[i] = ast.LetPattern{Pattern: pat, Expr: expr}

		default:
			return nil, fmt.Errorf("fixture: unknown let-declaration kind %q", k.Kind)
		}
	}
	return out, nil
}

func decodeLiteral(kind string, value any) (ast.Literal, error) {
	switch kind {
	case "int":
		n, ok := value.(float64)
		if !ok {
			return ast.Literal{}, fmt.Errorf("fixture: int literal value must be a number")
		}
		return ast.Literal{Kind: ast.IntLit, Value: int64(n)}, nil
	case "float":
		n, ok := value.(float64)
		if !ok {
			return ast.Literal{}, fmt.Errorf("fixture: float literal value must be a number")
		}
		return ast.Literal{Kind: ast.FloatLit, Value: n}, nil
	case "string":
		s, _ := value.(string)
		return ast.Literal{Kind: ast.StringLit, Value: s}, nil
	case "char":
		s, _ := value.(string)
		return ast.Literal{Kind: ast.CharLit, Value: s}, nil
	case "bool":
		b, _ := value.(bool)
		return ast.Literal{Kind: ast.BoolLit, Value: b}, nil
	default:
		return ast.Literal{}, fmt.Errorf("fixture: unknown literal kind %q", kind)
	}
}
