package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/profileform/internal/core"
	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler renders every error that reaches echo as {"error": "..."}
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var httpErr *echo.HTTPError
		var validationErr *core.ValidationError
		switch {
		case errors.As(err, &httpErr):
			if inner, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = inner
			}
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		case errors.As(err, &validationErr):
			code = http.StatusBadRequest
			message = validationErr.Message
		default:
			slog.Error("unhandled request error", "status", code, "error", err, "path", ctx.Request().URL.Path)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, errorResponse{Error: message})
		}
		if err != nil {
			slog.Error("failed to write error response", "error", err)
		}
	}
}
