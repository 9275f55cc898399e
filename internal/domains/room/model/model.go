package model

import "innkeeper/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldRoomNumber    = "room_number"
	FieldTypeName      = "type_name"
	FieldPricePerNight = "price_per_night"
	FieldIsAvailable   = "is_available"
	FieldLocation      = "location"
	FieldAmenities     = "amenities"
)

// Room is a single bookable unit. IsAvailable is the coarse browse flag,
// a cache only; the per-date overlap check against bookings is the
// authoritative availability source.
type Room struct {
	RoomNumber    int     `db:"room_number"`
	TypeName      string  `db:"type_name"`
	PricePerNight float64 `db:"price_per_night"`
	IsAvailable   bool    `db:"is_available"`
	Location      string  `db:"location"`
	Amenities     string  `db:"amenities"`
	model.Metadata
}
