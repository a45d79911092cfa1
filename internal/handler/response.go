package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/repository"
	"github.com/quiverhq/accounts-api/internal/service"
)

// ServiceResponse is the envelope wrapping every successful response. Data
// marshals to null when no payload applies.
type ServiceResponse struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, ServiceResponse{Status: status, Data: data})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Status: status, Message: message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses in a
// single place so every handler reports failures consistently.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, repository.ErrEmailDuplicate):
		return Error(c, http.StatusConflict, "email already exists")
	case errors.Is(err, service.ErrPasswordMismatch):
		return Error(c, http.StatusBadRequest, "the current password does not match")
	case errors.Is(err, service.ErrStorageFailure):
		return Error(c, http.StatusBadRequest, "file storage operation failed")
	case errors.Is(err, service.ErrValidation):
		return Error(c, http.StatusUnprocessableEntity, err.Error())
	default:
		return Error(c, http.StatusInternalServerError, "internal server error")
	}
}
