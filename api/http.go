package api

import (
	"errors"
	"net/http"

	"github.com/flanksource/commons/logger"
	"github.com/labstack/echo/v4"
	"github.com/samber/oops"
)

// HTTPError is the JSON error envelope every handler returns on failure.
type HTTPError struct {
	Err     string `json:"error"`
	Message string `json:"message,omitempty"`

	// Data for machine-machine communication. Usually contains JSON.
	Data string `json:"data,omitempty"`
}

type HTTPSuccess struct {
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

func WriteSuccess(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, HTTPSuccess{Message: "success", Payload: payload})
}

// WriteError maps an application error onto the HTTP response. Data source
// errors arrive oops-wrapped and keep their structured form; anything with
// debug info gets that logged but never sent to the client.
func WriteError(c echo.Context, err error) error {
	var oopsErr oops.OopsError
	if errors.As(err, &oopsErr) {
		return c.JSON(ErrorStatusCode(oopsErr.Code()), oopsErr)
	}

	code, message := ErrorCode(err), ErrorMessage(err)
	if debugInfo := ErrorDebugInfo(err); debugInfo != "" {
		logger.WithValues("code", code, "error", message).Errorf(debugInfo)
	}

	return c.JSON(ErrorStatusCode(code), &HTTPError{Err: message, Data: ErrorData(err)})
}

var statusCodes = map[string]int{
	ECONFLICT:       http.StatusConflict,
	EINVALID:        http.StatusBadRequest,
	ENOTFOUND:       http.StatusNotFound,
	EFORBIDDEN:      http.StatusForbidden,
	ENOTIMPLEMENTED: http.StatusNotImplemented,
	EUNAUTHORIZED:   http.StatusUnauthorized,
	EINTERNAL:       http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := statusCodes[code]; ok {
		return v
	}

	return http.StatusInternalServerError
}
