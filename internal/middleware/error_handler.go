package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GrooVITy-Community/groovity-backend/internal/dto"
	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// NewErrorHandler renders every error as {"message": ...}. Validation failures
// attached as the internal error also list the offending fields.
func NewErrorHandler(log *zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var fields []schema.FieldError

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = fmt.Sprint(he.Message)
			}
			var verr *schema.ValidationError
			if errors.As(he.Internal, &verr) {
				fields = verr.Fields
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", code).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, dto.ErrorResponse{Message: msg, Errors: fields})
	}
}
