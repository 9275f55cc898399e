package model

import (
	"net/http"

	"innkeeper/shared/failure"
)

// Reservation error kinds. Services wrap these with context; handlers map
// them to HTTP codes through failure.GetCode, and callers can match them
// with errors.Is.
var (
	ErrInvalidRange      = &failure.Failure{Code: http.StatusBadRequest, Message: "check-out date must be after check-in date"}
	ErrRoomUnavailable   = &failure.Failure{Code: http.StatusConflict, Message: "room is not available for the requested dates"}
	ErrBookingNotFound   = &failure.Failure{Code: http.StatusNotFound, Message: "booking not found"}
	ErrInvalidTransition = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "illegal booking status transition"}
	ErrPaymentRejected   = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "payment rejected"}
	ErrStoreUnavailable  = &failure.Failure{Code: http.StatusServiceUnavailable, Message: "booking store unavailable"}
)
