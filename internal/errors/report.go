package errors

import (
	"encoding/json"
	"errors"
)

// Report is the canonical structured error envelope for the analyzer.
// Components build a *Report and wrap it as a ReportError so it
// survives errors.As() unwrapping through ordinary error-returning code
// (the New*Error builders in json_encoder.go return the flatter Encoded).
type Report struct {
	Schema  string         `json:"schema"` // always "mlcheck.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON with deterministic field order.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric wraps an arbitrary error as an InternalError report.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "mlcheck.error/v1",
		Code:    CodeInternalError,
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
