package model

import "innkeeper/shared/model"

const (
	TypeTableName  = "room_types"
	TypeEntityName = "room_type"

	FieldDescription  = "description"
	FieldBasePrice    = "base_price"
	FieldMaxOccupancy = "max_occupancy"
	FieldHasExtraBed  = "has_extra_bed"
)

// RoomType groups rooms sharing a base price and capacity. A room may
// override the base price with its own nightly price.
type RoomType struct {
	TypeName     string  `db:"type_name"`
	Description  string  `db:"description"`
	BasePrice    float64 `db:"base_price"`
	MaxOccupancy int     `db:"max_occupancy"`
	HasExtraBed  bool    `db:"has_extra_bed"`
	model.Metadata
}
