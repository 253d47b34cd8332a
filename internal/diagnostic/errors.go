package diagnostic

import (
	"fmt"
	"strings"
)

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a source range; End is exclusive.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// String formats the start of the span as line:column.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// Record is a translated validation failure.
type Record struct {
	Location     []string `json:"location"`
	YAMLLocation Span     `json:"yaml_location"`
	Message      string   `json:"message"`
	Input        string   `json:"input"`
}

// String formats r as "line:col: location: message".
func (r Record) String() string {
	var b strings.Builder

	b.WriteString(r.YAMLLocation.String())
	b.WriteString(": ")

	if len(r.Location) > 0 {
		b.WriteString(strings.Join(r.Location, "."))
		b.WriteString(": ")
	}

	b.WriteString(r.Message)

	return b.String()
}

// ValidationError is returned when a document fails validation.
type ValidationError struct {
	// File is the input path, empty for raw input.
	File    string
	Records []Record
}

// Error joins the records one per line.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Records)+1)
	lines = append(lines, fmt.Sprintf("validation failed with %d error(s):", len(e.Records)))

	for _, r := range e.Records {
		if e.File != "" {
			lines = append(lines, e.File+":"+r.String())
		} else {
			lines = append(lines, r.String())
		}
	}

	return strings.Join(lines, "\n")
}

// UserError is a runtime problem the user can fix: a missing file, an
// unsupported extension, a failing compiler.
type UserError struct {
	Message string
	Err     error
}

// NewUserError builds a UserError; err may be nil.
func NewUserError(message string, err error) *UserError {
	return &UserError{Message: message, Err: err}
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// InternalError signals a broken invariant inside the validator or the
// renderer.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError builds an InternalError; err may be nil.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

func (e *InternalError) Error() string {
	msg := "internal error: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
