package grading

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachableGrade = errors.New("you cannot achieve this grade, please choose a lower grade")
	ErrLastRow          = errors.New("at least one row is required")
)

// MissingFieldError reports a required input that is blank or not a number.
type MissingFieldError struct {
	Row   string
	Field Field
	// Raw is set when the input was present but not numeric.
	Raw string
}

func (e *MissingFieldError) Error() string {
	prefix := ""
	if e.Row != "" {
		prefix = e.Row + ": "
	}
	if e.Raw != "" {
		return fmt.Sprintf("%s%s must be a number, got %q", prefix, e.Field.Label(), e.Raw)
	}
	return fmt.Sprintf("%splease enter %s", prefix, e.Field.Label())
}

type OutOfRangeError struct {
	Row   string
	Field Field
	Value float64
}

func (e *OutOfRangeError) Error() string {
	prefix := ""
	if e.Row != "" {
		prefix = e.Row + ": "
	}
	spec := Spec(e.Field)
	kind := ""
	if spec.Integer {
		kind = "a whole number "
	}
	return fmt.Sprintf("%s%s must be %s%s (got %s)", prefix, spec.Label, kind, spec.Bound, FormatMark(e.Value))
}

func (e *OutOfRangeError) Bound() Bound {
	return Spec(e.Field).Bound
}

// ValidationError carries every violation found in one submission. Error
// reports the first, which is what the user is asked to fix.
type ValidationError struct {
	Violations []error
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid input"
	}
	return e.Violations[0].Error()
}

func (e *ValidationError) Unwrap() []error {
	return e.Violations
}

func (e *ValidationError) First() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e.Violations[0]
}

// Merge folds the violations of err into e. err may itself be a
// *ValidationError.
func (e *ValidationError) Merge(err error) {
	if err == nil {
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		e.Violations = append(e.Violations, ve.Violations...)
		return
	}
	e.Violations = append(e.Violations, err)
}

func (e *ValidationError) Err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
