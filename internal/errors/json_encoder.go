package errors

import (
	"bytes"
	"encoding/json"
)

// Fix is a suggested remediation attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Encoded is a flatter, phase-tagged error shape, kept separate from
// Report (which the checker's diagnostic printer uses) so callers that just
// want "one error, one line" don't have to build a full envelope.
type Encoded struct {
	Schema  string      `json:"schema"`
	Phase   string      `json:"phase"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Fix     Fix         `json:"fix"`
	Context interface{} `json:"context,omitempty"`
}

const schemaV1 = "mlcheck.error/v1"

func newEncoded(phase, code, msg string, ctx interface{}) Encoded {
	return Encoded{
		Schema:  schemaV1,
		Phase:   phase,
		Code:    code,
		Message: msg,
		Fix:     Fix{},
		Context: ctx,
	}
}

// NewDependencyError builds an Encoded error for the dependency sorter.
func NewDependencyError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("depsort", code, msg, ctx)
}

// NewDeclareError builds an Encoded error for the declaration analyzer.
func NewDeclareError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("declare", code, msg, ctx)
}

// NewImportError builds an Encoded error for the import linker.
func NewImportError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("importlink", code, msg, ctx)
}

// NewInferError builds an Encoded error for the function analyzer.
func NewInferError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("infer", code, msg, ctx)
}

// WithFix attaches a suggested fix.
func (e Encoded) WithFix(suggestion string, confidence float64) Encoded {
	e.Fix = Fix{Suggestion: suggestion, Confidence: confidence}
	return e
}

// WithMeta attaches extra context, replacing any already set.
func (e Encoded) WithMeta(meta interface{}) Encoded {
	e.Context = meta
	return e
}

// ToJSON renders the error as deterministic, indented JSON: fields in
// struct order, map keys inside Context sorted.
func (e Encoded) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		fallback := Encoded{Schema: schemaV1, Message: "encoding failed"}
		fb, _ := json.Marshal(fallback)
		return fb, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return data, nil
	}
	return buf.Bytes(), nil
}

// SafeEncodeError never panics, falling back to a generic envelope if err
// doesn't carry any of the richer error types in this package.
func SafeEncodeError(err error, phase string) []byte {
	if err == nil {
		return nil
	}
	if rep, ok := AsReport(err); ok {
		data, _ := rep.ToJSON(false)
		return []byte(data)
	}
	encoded := newEncoded(phase, CodeInternalError, err.Error(), nil)
	data, _ := encoded.ToJSON()
	return data
}
