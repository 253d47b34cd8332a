package diagnostic

import (
	"fmt"
)

// Locator resolves a document path to its source span. Mapping segments
// resolve to the key node, sequence segments to the item node.
type Locator interface {
	Locate(path []string) (Span, bool)
}

// Translate maps failures onto source coordinates. Records keep the order of
// failures; a failure with the same location and message as an earlier one
// is dropped. A path that cannot be walked is a bug in the validator and
// yields an *InternalError.
func Translate(loc Locator, failures []Failure) ([]Record, error) {
	records := make([]Record, 0, len(failures))
	seen := make(map[string]struct{}, len(failures))

	for _, f := range failures {
		target := f.Path
		if f.Kind == KindMissing && len(target) > 0 {
			target = target[:len(target)-1]
		}

		span, ok := loc.Locate(target)
		if !ok {
			return nil, NewInternalError(
				fmt.Sprintf("validation reported %q but the document has no such node", f.Path.String()), f.Err)
		}

		msg := Rewrite(f)

		key := f.Path.String() + "\x00" + msg
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		records = append(records, Record{
			Location:     append([]string(nil), f.Path...),
			YAMLLocation: span,
			Message:      msg,
			Input:        f.Input,
		})
	}

	return records, nil
}

// Validation translates d.Errors into a *ValidationError, or returns nil
// when d holds no errors.
func (d *Diagnostics) Validation(loc Locator, file string) error {
	if !d.HasErrors() {
		return nil
	}

	records, err := Translate(loc, d.Errors)
	if err != nil {
		return err
	}

	return &ValidationError{File: file, Records: records}
}
