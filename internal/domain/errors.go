package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrServiceUnavailable is returned by every store call when no database connection was established.
	ErrServiceUnavailable = errors.New("database not configured")
	ErrInvalidDateFormat  = errors.New("invalid date format")
	ErrUnknownKind        = errors.New("unknown content kind")
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError reports request or document fields that break their declared constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, rule, param string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Param: param}}}
}
