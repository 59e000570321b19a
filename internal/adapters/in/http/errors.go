package http

import (
	"errors"
	"net/http"

	"servicedesk/internal/generated/servers"
	"servicedesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusCode maps a core error to the HTTP status it is reported with.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrRetentionPolicy):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(ctx echo.Context, err error) error {
	code := statusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
		ctx.Logger().Error(err)
	}
	return ctx.JSON(code, servers.Error{
		Code:    code,
		Message: message,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
