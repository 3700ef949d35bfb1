package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the body of every error response
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CustomHTTPErrorHandler renders HttpError values and echo errors as a Response. Any
// other error is reported as an internal server error without exposing its message.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	response := Response{
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}

	var httpErr HttpError
	var echoErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		response.Code = httpErr.Code
		response.Message = err.Error()
	} else if errors.As(err, &echoErr) {
		response.Code = echoErr.Code
		response.Message = fmt.Sprint(echoErr.Message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(response.Code)
		return
	}
	_ = c.JSON(response.Code, response)
}
