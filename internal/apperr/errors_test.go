package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("thresholds.reject is required")

	if err.Error() != "thresholds.reject is required" {
		t.Errorf("expected 'thresholds.reject is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("missing closing paren")
	err := apperr.NewValidationWrap("invalid article pattern", inner)

	if err.Error() != "invalid article pattern: missing closing paren" {
		t.Errorf("expected 'invalid article pattern: missing closing paren', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("empty hard block markers")

	wrapped := fmt.Errorf("failed to load rules: %w", original)
	doubleWrapped := fmt.Errorf("startup: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "empty hard block markers" {
		t.Errorf("expected 'empty hard block markers', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestParseError_KindOf(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := fmt.Errorf("row 3: %w", apperr.NewParse(apperr.ParseInvalidJSON, inner))

	if got := apperr.KindOf(err); got != "invalid_json" {
		t.Errorf("expected invalid_json, got %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected ParseError to unwrap to inner error")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":        {err: nil, want: ""},
		"validation": {err: apperr.NewValidation("bad"), want: "validation"},
		"panic":      {err: &apperr.PanicError{Value: "boom"}, want: "panic"},
		"plain":      {err: errors.New("io"), want: "internal"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := apperr.KindOf(tc.err); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
