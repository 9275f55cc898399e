package model

import (
	"innkeeper/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldCustomerID   = "customer_id"
	FieldRoomNumber   = "room_number"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldStatus       = "status"
	FieldTotalCost    = "total_cost"
	FieldBookingDate  = "booking_date"
	FieldCreatedBy    = "created_by"
)

type Booking struct {
	ID           string    `db:"id"`
	CustomerID   string    `db:"customer_id"`
	RoomNumber   int       `db:"room_number"`
	CheckInDate  time.Time `db:"check_in_date"`
	CheckOutDate time.Time `db:"check_out_date"`
	Status       Status    `db:"status"`
	TotalCost    float64   `db:"total_cost"`
	BookingDate  time.Time `db:"booking_date"`
	model.Metadata
}

func (b Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate}
}
