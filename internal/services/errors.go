package services

import (
	"errors"
	"net/http"

	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

// HTTPStatus maps service errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, healthcare_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, healthcare_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, healthcare_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, healthcare_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, healthcare_errors.ErrSlotTaken),
		errors.Is(err, healthcare_errors.ErrAlreadyExists),
		errors.Is(err, healthcare_errors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, healthcare_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
