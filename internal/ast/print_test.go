package ast

import "testing"

func TestPrint_AliasStm(t *testing.T) {
	stm := &AliasStm{
		Name: "Point",
		Vars: nil,
		Type: &Record{Fields: []RecordField{
			{Name: "x", Type: &Tag{Name: "Int"}},
			{Name: "y", Type: &Tag{Name: "Int"}},
		}},
	}

	output := Print(stm)
	if output == "" {
		t.Fatal("Print returned empty string")
	}
	for _, want := range []string{"AliasStm", "Point", "Record", "\"x\"", "\"y\""} {
		if !contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestPrint_AdtStm(t *testing.T) {
	stm := &AdtStm{
		Name: "Result",
		Vars: []string{"a", "e"},
		Variants: []AdtVariant{
			{Name: "Ok", Args: []Type{&Var{Name: "a"}}},
			{Name: "Err", Args: []Type{&Var{Name: "e"}}},
		},
	}

	output := Print(stm)
	if output == "" {
		t.Fatal("Print returned empty string")
	}
	for _, want := range []string{"AdtStm", "Result", "Ok", "Err"} {
		if !contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestPrint_TupleExpr(t *testing.T) {
	tup := &TupleExpr{
		Elems: []Expr{
			&LitExpr{Value: Literal{Kind: IntLit, Value: int64(1)}},
			&LitExpr{Value: Literal{Kind: IntLit, Value: int64(2)}},
			&LitExpr{Value: Literal{Kind: IntLit, Value: int64(3)}},
		},
	}

	output := Print(tup)
	if output == "" {
		t.Fatal("Print returned empty string")
	}
	if !contains(output, "TupleExpr") {
		t.Errorf("output missing TupleExpr: %s", output)
	}
	if !contains(output, "elems") {
		t.Errorf("output missing elems: %s", output)
	}
}

func TestPrint_Deterministic(t *testing.T) {
	stm := &AdtStm{
		Name: "Result",
		Vars: []string{"a", "e"},
		Variants: []AdtVariant{
			{Name: "Ok", Args: []Type{&Var{Name: "a"}}},
			{Name: "Err", Args: []Type{&Var{Name: "e"}}},
		},
	}

	var outputs []string
	for i := 0; i < 100; i++ {
		outputs = append(outputs, Print(stm))
	}

	baseline := outputs[0]
	for i, output := range outputs[1:] {
		if output != baseline {
			t.Errorf("iteration %d produced different output", i+1)
			break
		}
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && hasSubstring(s, substr)
}

func hasSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
