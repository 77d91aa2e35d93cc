package nutrition

import (
	"errors"
	"fmt"
)

// ErrInvalidNumber is returned by CleanNumber when nothing numeric survives cleaning.
var ErrInvalidNumber = errors.New("invalid number")

// AnalysisParseError reports a model answer that lacks a required field or
// carries a value that cannot be cleaned. Field is a dotted path, e.g. "macronutrients.Fiber".
type AnalysisParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *AnalysisParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis parse error: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis parse error: %s: %s", e.Field, e.Reason)
}

func (e *AnalysisParseError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &AnalysisParseError{Field: field, Reason: "missing"}
}
