package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// GlobalErrorHandler renders typed errors: validation failures as 400,
// unparseable judge payloads as 422, echo errors with their own status and
// anything else as an opaque 500.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Response(err)
		if status == http.StatusInternalServerError {
			slog.Error("Unhandled error",
				"error", err,
				"kind", KindOf(err),
				"method", c.Request().Method,
				"uri", c.Request().RequestURI)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

// Response maps err to a status code and body.
func Response(err error) (int, ErrorResponse) {
	var (
		ve *ValidationError
		pe *ParseError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Kind: KindOf(err)}
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: pe.Error(), Kind: string(pe.Kind)}
	case errors.As(err, &he):
		return he.Code, ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}
