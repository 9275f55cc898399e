package model

import (
	"innkeeper/shared/model"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldAmount    = "amount"
	FieldMethod    = "method"
	FieldPaidAt    = "paid_at"
)

const (
	MethodCard = "CREDIT_CARD"
	MethodCash = "CASH"
)

type Payment struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	Amount    float64   `db:"amount"`
	Method    string    `db:"method"`
	PaidAt    time.Time `db:"paid_at"`
	model.Metadata
}
