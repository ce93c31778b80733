package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDependencyError(t *testing.T) {
	err := NewDependencyError(CodeCyclicDependency, "cyclic dependency among x, y", nil)

	if err.Schema != schemaV1 {
		t.Errorf("expected schema %s, got %s", schemaV1, err.Schema)
	}
	if err.Phase != "depsort" {
		t.Errorf("expected phase depsort, got %s", err.Phase)
	}
	if err.Code != CodeCyclicDependency {
		t.Errorf("expected code %s, got %s", CodeCyclicDependency, err.Code)
	}
}

func TestWithFix(t *testing.T) {
	err := NewDeclareError(CodeUnusedTypeVariables, "unused type variable b", nil)
	err = err.WithFix("remove b from the alias variable list", 0.9)

	if err.Fix.Suggestion != "remove b from the alias variable list" {
		t.Errorf("expected fix suggestion set, got %q", err.Fix.Suggestion)
	}
	if err.Fix.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", err.Fix.Confidence)
	}
}

func TestWithMeta(t *testing.T) {
	meta := map[string]string{"hint": "check the exposing list"}
	err := NewImportError(CodeMissingExposing, "List does not expose foldl", nil)
	err = err.WithMeta(meta)

	if err.Context == nil {
		t.Error("expected context to be set")
	}
}

func TestEncodedToJSON(t *testing.T) {
	err := NewInferError(CodeUnification, "cannot unify Int with String", map[string]string{
		"left": "Int", "right": "String",
	}).WithFix("check the argument type", 0.85)

	data, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("ToJSON failed: %v", jsonErr)
	}

	var result map[string]interface{}
	if parseErr := json.Unmarshal(data, &result); parseErr != nil {
		t.Fatalf("failed to parse JSON: %v", parseErr)
	}

	if result["schema"] != schemaV1 {
		t.Errorf("expected schema %s, got %v", schemaV1, result["schema"])
	}
	if result["phase"] != "infer" {
		t.Errorf("expected phase infer, got %v", result["phase"])
	}
	if result["code"] != CodeUnification {
		t.Errorf("expected code %s, got %v", CodeUnification, result["code"])
	}
	if _, ok := result["fix"]; !ok {
		t.Error("fix field should always be present")
	}
}

func TestSafeEncodeError(t *testing.T) {
	if result := SafeEncodeError(nil, "infer"); result != nil {
		t.Error("expected nil for nil error")
	}

	testErr := &testError{msg: "boom"}
	result := SafeEncodeError(testErr, "infer")

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if parsed["phase"] != "infer" {
		t.Errorf("expected phase infer, got %v", parsed["phase"])
	}
	if !strings.Contains(parsed["message"].(string), "boom") {
		t.Errorf("expected message to contain 'boom', got %v", parsed["message"])
	}
}

func TestSafeEncodeErrorUnwrapsReport(t *testing.T) {
	rep := &Report{Schema: schemaV1, Code: CodeMissingModule, Phase: "importlink", Message: "module List not found"}
	result := SafeEncodeError(WrapReport(rep), "importlink")

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if parsed["code"] != CodeMissingModule {
		t.Errorf("expected code %s, got %v", CodeMissingModule, parsed["code"])
	}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
