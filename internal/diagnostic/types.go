package diagnostic

import (
	"strconv"
	"strings"

	"rendercv/internal/common"
)

// Kind classifies a failure. The translator uses it to pick the node a
// record points at and to rewrite the message.
type Kind string

const (
	KindMissing       Kind = "missing"
	KindUnknownKey    Kind = "unknown_key"
	KindType          Kind = "type"
	KindValue         Kind = "value"
	KindHeterogeneous Kind = "heterogeneous_section"
	KindDuplicate     Kind = "duplicate"
)

// Severity of a failure.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Path addresses a node of the input document: mapping keys and sequence
// indexes as strings.
type Path []string

// Child returns a copy of p extended with key.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, key)
}

// Index returns a copy of p extended with a sequence index.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// String joins p with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Field returns the last mapping key of p, skipping indexes.
func (p Path) Field() string {
	for i := len(p) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(p[i]); err != nil {
			return p[i]
		}
	}

	return ""
}

// Failure is a single validation problem before translation.
type Failure struct {
	Severity Severity
	Path     Path
	Kind     Kind
	Message  string
	// Input is the offending value as written.
	Input string
	// Err is the underlying validator error, used for message rewriting.
	Err error
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Diagnostics accumulates failures while a document is validated.
type Diagnostics struct {
	Errors   []Failure
	Warnings []Failure
}

// AddError adds an error failure.
func (d *Diagnostics) AddError(path Path, kind Kind, message, input string) {
	d.Errors = append(d.Errors, Failure{
		Severity: SeverityError,
		Path:     path,
		Kind:     kind,
		Message:  message,
		Input:    input,
	})
}

// AddCause adds an error failure produced by a validator error.
func (d *Diagnostics) AddCause(path Path, kind Kind, err error, input string) {
	d.Errors = append(d.Errors, Failure{
		Severity: SeverityError,
		Path:     path,
		Kind:     kind,
		Message:  err.Error(),
		Input:    input,
		Err:      err,
	})
}

// AddUnknown reports an unknown key or name and attaches suggestions taken
// from candidates.
func (d *Diagnostics) AddUnknown(path Path, kind Kind, message, input string, candidates []string) {
	d.Errors = append(d.Errors, Failure{
		Severity:    SeverityError,
		Path:        path,
		Kind:        kind,
		Message:     message,
		Input:       input,
		Suggestions: Suggest(input, candidates),
	})
}

// AddWarning adds a warning. Warnings never fail validation.
func (d *Diagnostics) AddWarning(path Path, message, input string) {
	d.Warnings = append(d.Warnings, Failure{
		Severity: SeverityWarning,
		Path:     path,
		Kind:     KindValue,
		Message:  message,
		Input:    input,
	})
}

// HasErrors returns true if there are any error failures.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// String returns a formatted failure string.
func (f Failure) String() string {
	msg := f.Message
	if len(f.Suggestions) > 0 {
		msg += " (did you mean " + quoteJoin(f.Suggestions) + "?)"
	}

	if len(f.Path) > 0 {
		return f.Path.String() + ": " + msg
	}

	return msg
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}

	return strings.Join(quoted, " or ")
}
