package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"cyclic dependency", CodeCyclicDependency, "depsort", "dependency"},
		{"unused type variable", CodeUnusedTypeVariables, "declare", "alias"},
		{"undeclared type variable", CodeUndeclaredTypeVariables, "declare", "alias"},
		{"missing module", CodeMissingModule, "importlink", "resolution"},
		{"missing exposing", CodeMissingExposing, "importlink", "resolution"},
		{"pattern matching", CodePatternMatching, "infer", "pattern"},
		{"unification", CodeUnification, "infer", "unification"},
		{"error list", CodeErrorList, "checker", "aggregate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestErrorTypeCheckers(t *testing.T) {
	if !IsDependencyError(CodeCyclicDependency) {
		t.Errorf("IsDependencyError(%s) = false, want true", CodeCyclicDependency)
	}
	if IsDependencyError(CodeMissingModule) {
		t.Errorf("IsDependencyError(%s) = true, want false", CodeMissingModule)
	}
	if !IsImportError(CodeMissingModule) || !IsImportError(CodeMissingExposing) {
		t.Errorf("expected IMP codes to be import errors")
	}
	if !IsInferenceError(CodePatternMatching) || !IsInferenceError(CodeUnification) {
		t.Errorf("expected INF codes to be inference errors")
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if info.Description == "" {
			t.Errorf("empty description for %s", code)
		}
	}
}
