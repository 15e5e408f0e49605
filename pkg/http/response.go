package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// TextResponse writes a text/plain body.
func TextResponse(c echo.Context, statusCode int, body string) error {
	return c.String(statusCode, body)
}

// FloatResponse writes v as the shortest decimal that round-trips.
func FloatResponse(c echo.Context, v float64) error {
	return TextResponse(c, http.StatusOK, strconv.FormatFloat(v, 'f', -1, 64))
}

// ErrorText writes err as a text/plain response with the status FromError
// assigns it.
func ErrorText(c echo.Context, err error) error {
	appErr := FromError(err)
	if c.Request().Method == http.MethodHead {
		return c.NoContent(appErr.Status)
	}
	return TextResponse(c, appErr.Status, appErr.Message)
}
