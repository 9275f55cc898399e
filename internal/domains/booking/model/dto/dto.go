package dto

import (
	"fmt"
	"time"

	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/payment/processor"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	RoomNumber int    `json:"room_number" validate:"required,min=1"`
	CheckIn    string `json:"check_in"    validate:"required"`
	CheckOut   string `json:"check_out"   validate:"required"`
}

// Stay parses the requested date range. Callers still validate the range
// itself; this only rejects unparseable dates.
func (r *ReserveRequest) Stay() (model.Stay, error) {
	checkIn, err := time.Parse(constant.DateFormatDate, r.CheckIn)
	if err != nil {
		return model.Stay{}, fmt.Errorf("check_in %q: %w", r.CheckIn, model.ErrInvalidRange)
	}

	checkOut, err := time.Parse(constant.DateFormatDate, r.CheckOut)
	if err != nil {
		return model.Stay{}, fmt.Errorf("check_out %q: %w", r.CheckOut, model.ErrInvalidRange)
	}

	return model.Stay{CheckIn: checkIn, CheckOut: checkOut}, nil
}

func (r *ReserveRequest) ToModel(stay model.Stay, customerID string, totalCost float64) model.Booking {
	return model.Booking{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		RoomNumber:   r.RoomNumber,
		CheckInDate:  stay.CheckIn,
		CheckOutDate: stay.CheckOut,
		Status:       model.StatusPending,
		TotalCost:    totalCost,
		BookingDate:  timezone.Now(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

type CardRequest struct {
	Number     string `json:"number"      validate:"required"`
	HolderName string `json:"holder_name" validate:"required"`
	Expiry     string `json:"expiry"      validate:"required"`
	CVV        string `json:"cvv"         validate:"required"`
}

type ConfirmPaymentRequest struct {
	Amount float64      `json:"amount" validate:"required,gt=0"`
	Method string       `json:"method" validate:"required,oneof=CREDIT_CARD CASH"`
	Card   *CardRequest `json:"card"   validate:"required_if=Method CREDIT_CARD"`
}

func (r *ConfirmPaymentRequest) ToChargeRequest(bookingID string) processor.ChargeRequest {
	req := processor.ChargeRequest{
		BookingID: bookingID,
		Method:    r.Method,
		Amount:    r.Amount,
	}

	if r.Card != nil {
		req.Card = &processor.Card{
			Number:     r.Card.Number,
			HolderName: r.Card.HolderName,
			Expiry:     r.Card.Expiry,
			CVV:        r.Card.CVV,
		}
	}

	return req
}

type BookingResponse struct {
	ID          string  `json:"id"`
	CustomerID  string  `json:"customer_id"`
	RoomNumber  int     `json:"room_number"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Status      string  `json:"status"`
	TotalCost   float64 `json:"total_cost"`
	BookingDate string  `json:"booking_date"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.RoomNumber = model.RoomNumber
	r.CheckIn = model.CheckInDate.Format(constant.DateFormatDate)
	r.CheckOut = model.CheckOutDate.Format(constant.DateFormatDate)
	r.Status = model.Status.String()
	r.TotalCost = model.TotalCost
	r.BookingDate = model.BookingDate.Format(constant.DateFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
