package model

import "fmt"

// Stage names the engine step that raised an InvariantError
type Stage string

const (
	StageMap       Stage = "map"
	StageSerialize Stage = "serialize"
	StageTransmit  Stage = "transmit"
)

// MissingFieldError reports a mandatory field that has no value and no fallback
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing mandatory field: %s", e.Field)
}

// NewMissingFieldError creates a new missing field error
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

// MalformedInputError represents a present but invalid input value
type MalformedInputError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *MalformedInputError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("malformed %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("malformed %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewMalformedInputError creates a new malformed input error
func NewMalformedInputError(field string, value interface{}, rule, message string) *MalformedInputError {
	return &MalformedInputError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// InvariantError signals an internal defect, such as handing the
// serializer a structurally invalid document
type InvariantError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *InvariantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invariant violated [%s]: %s (%v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("invariant violated [%s]: %s", e.Stage, e.Message)
}

func (e *InvariantError) Unwrap() error {
	return e.Cause
}

// NewInvariantError creates a new invariant error
func NewInvariantError(stage Stage, message string, cause error) *InvariantError {
	return &InvariantError{
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// ParseError represents a failure reading XML or JSON input
type ParseError struct {
	Source  string
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Source, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Source, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(source, field, message string, cause error) *ParseError {
	return &ParseError{
		Source:  source,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}
