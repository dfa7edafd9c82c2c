package apperr

import "errors"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ParseKind classifies why a judge payload could not be decoded.
type ParseKind string

const (
	ParseNoJSON      ParseKind = "no_json_object"
	ParseInvalidJSON ParseKind = "invalid_json"
	ParseNotObject   ParseKind = "not_object"
)

// ParseError reports a judge payload that could not be turned into a verdict record.
type ParseError struct {
	Kind ParseKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse judge payload (" + string(e.Kind) + "): " + e.Err.Error()
	}
	return "parse judge payload (" + string(e.Kind) + ")"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParse(kind ParseKind, err error) *ParseError {
	return &ParseError{Kind: kind, Err: err}
}

// KindOf returns a short label for err suitable for log fields and reason tallies.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "validation"
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return "panic"
	}
	return "internal"
}

// PanicError carries a recovered panic value as an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "recovered panic: " + stringify(e.Value)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	default:
		return "non-error value"
	}
}
