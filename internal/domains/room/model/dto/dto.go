package dto

import (
	"innkeeper/internal/domains/room/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"
)

type CreateRoomRequest struct {
	RoomNumber    int     `json:"room_number"     validate:"required,min=1"`
	TypeName      string  `json:"type_name"       validate:"required,max=50"`
	PricePerNight float64 `json:"price_per_night" validate:"omitempty,gt=0"`
	Location      string  `json:"location"        validate:"omitempty,max=100"`
	Amenities     string  `json:"amenities"       validate:"omitempty,max=500"`
}

func (c *CreateRoomRequest) ToModel(user string, pricePerNight float64) model.Room {
	return model.Room{
		RoomNumber:    c.RoomNumber,
		TypeName:      c.TypeName,
		PricePerNight: pricePerNight,
		IsAvailable:   true,
		Location:      c.Location,
		Amenities:     c.Amenities,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	TypeName      string   `db:"type_name"       json:"type_name"       validate:"omitempty,max=50"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Location      string   `db:"location"        json:"location"        validate:"omitempty,max=100"`
	Amenities     string   `db:"amenities"       json:"amenities"       validate:"omitempty,max=500"`
}

type RoomResponse struct {
	RoomNumber    int     `json:"room_number"`
	TypeName      string  `json:"type_name"`
	PricePerNight float64 `json:"price_per_night"`
	IsAvailable   bool    `json:"is_available"`
	Location      string  `json:"location"`
	Amenities     string  `json:"amenities"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.RoomNumber = model.RoomNumber
	r.TypeName = model.TypeName
	r.PricePerNight = model.PricePerNight
	r.IsAvailable = model.IsAvailable
	r.Location = model.Location
	r.Amenities = model.Amenities
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CreateRoomTypeRequest struct {
	TypeName     string  `json:"type_name"     validate:"required,max=50"`
	Description  string  `json:"description"   validate:"omitempty,max=500"`
	BasePrice    float64 `json:"base_price"    validate:"required,gt=0"`
	MaxOccupancy int     `json:"max_occupancy" validate:"required,min=1"`
	HasExtraBed  bool    `json:"has_extra_bed"`
}

type UpdateRoomTypeRequest struct {
	Description  string   `db:"description"   json:"description"   validate:"omitempty,max=500"`
	BasePrice    *float64 `db:"base_price"    json:"base_price"    validate:"omitempty,gt=0"`
	MaxOccupancy *int     `db:"max_occupancy" json:"max_occupancy" validate:"omitempty,min=1"`
	HasExtraBed  *bool    `db:"has_extra_bed" json:"has_extra_bed" validate:"omitempty"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	return model.RoomType{
		TypeName:     c.TypeName,
		Description:  c.Description,
		BasePrice:    c.BasePrice,
		MaxOccupancy: c.MaxOccupancy,
		HasExtraBed:  c.HasExtraBed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type RoomTypeResponse struct {
	TypeName     string  `json:"type_name"`
	Description  string  `json:"description"`
	BasePrice    float64 `json:"base_price"`
	MaxOccupancy int     `json:"max_occupancy"`
	HasExtraBed  bool    `json:"has_extra_bed"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.TypeName = model.TypeName
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.MaxOccupancy = model.MaxOccupancy
	r.HasExtraBed = model.HasExtraBed
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
