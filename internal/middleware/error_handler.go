package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/pkg/logger"
)

type errorBody struct {
	Status    string `json:"status"`
	Exception string `json:"exception"`
}

// ErrorHandler maps errors that escape a handler to the transport error
// envelope. Stack traces never cross the boundary.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if s, ok := httpErr.Message.(string); ok {
			msg = s
		}
	case errors.Is(err, domain.ErrInvalidOption):
		code = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, domain.ErrDataUnavailable):
		code = http.StatusServiceUnavailable
		msg = err.Error()
	case errors.Is(err, domain.ErrTimeout):
		code = http.StatusGatewayTimeout
		msg = err.Error()
	default:
		logger.Error("unhandled error", "path", c.Path(), "error", err)
	}

	if jsonErr := c.JSON(code, errorBody{Status: "error", Exception: msg}); jsonErr != nil {
		logger.Error("failed to write error response", "error", jsonErr)
	}
}
