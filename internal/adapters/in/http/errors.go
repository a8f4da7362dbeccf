package http

import (
	"errors"
	"net/http"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON error body for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusForError maps the domain error taxonomy to HTTP status codes:
// missing or hidden objects to 404, graph and role violations to 422,
// lost write races and duplicates to 409, bad input to 400, and the
// admin-only gate to 403.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, commands.ErrAssignmentForbidden):
		return http.StatusForbidden
	case errors.Is(err, driver.ErrDriverIsInactive),
		errors.Is(err, parcel.ErrParcelIsDeleted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, commands.ErrBulkAssignItemsAreRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Internal errors are not
// echoed back to the client.
func respondError(ctx echo.Context, err error) error {
	code := statusForError(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal error"
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
