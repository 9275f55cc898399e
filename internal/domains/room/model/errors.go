package model

import (
	"net/http"

	"innkeeper/shared/failure"
)

var (
	ErrRoomNotFound      = &failure.Failure{Code: http.StatusNotFound, Message: "room not found"}
	ErrDuplicateRoom     = &failure.Failure{Code: http.StatusConflict, Message: "room number already exists"}
	ErrRoomHasBookings   = &failure.Failure{Code: http.StatusConflict, Message: "room still has active bookings"}
	ErrRoomTypeNotFound  = &failure.Failure{Code: http.StatusNotFound, Message: "room type not found"}
	ErrDuplicateRoomType = &failure.Failure{Code: http.StatusConflict, Message: "room type already exists"}
)
