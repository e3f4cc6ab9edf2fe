package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error taxonomy for booking and trip operations. Controllers translate
// these to HTTP status codes with HTTPStatus.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrNoVehicle    = errors.New("no vehicle assigned to route")
	ErrInvalidState = errors.New("invalid state")
)

// HTTPStatus maps a service error to its response code. Anything outside
// the taxonomy is an internal error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoVehicle), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
