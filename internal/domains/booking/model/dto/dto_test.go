package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
)

func TestReserveRequest_Stay(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
	}{
		{name: "valid dates", checkIn: "2026-03-01", checkOut: "2026-03-04"},
		{name: "bad check in", checkIn: "01-03-2026", checkOut: "2026-03-04", wantErr: true},
		{name: "bad check out", checkIn: "2026-03-01", checkOut: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.ReserveRequest{RoomNumber: 101, CheckIn: tt.checkIn, CheckOut: tt.checkOut}

			stay, err := req.Stay()

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidRange)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), stay.CheckIn)
			assert.Equal(t, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC), stay.CheckOut)
		})
	}
}

func TestReserveRequest_ToModel(t *testing.T) {
	req := dto.ReserveRequest{RoomNumber: 101, CheckIn: "2026-03-01", CheckOut: "2026-03-04"}

	stay, err := req.Stay()
	assert.NoError(t, err)

	booking := req.ToModel(stay, "customer-1", 300)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "customer-1", booking.CustomerID)
	assert.Equal(t, 101, booking.RoomNumber)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, 300.0, booking.TotalCost)
	assert.Equal(t, "customer-1", booking.CreatedBy)
}

func TestConfirmPaymentRequest_ToChargeRequest(t *testing.T) {
	t.Run("card details carry over", func(t *testing.T) {
		req := dto.ConfirmPaymentRequest{
			Amount: 300,
			Method: "CREDIT_CARD",
			Card: &dto.CardRequest{
				Number:     "4111111111111111",
				HolderName: "Jane Roe",
				Expiry:     "11/27",
				CVV:        "123",
			},
		}

		charge := req.ToChargeRequest("booking-1")

		assert.Equal(t, "booking-1", charge.BookingID)
		assert.Equal(t, 300.0, charge.Amount)
		assert.NotNil(t, charge.Card)
		assert.Equal(t, "4111111111111111", charge.Card.Number)
	})

	t.Run("cash has no card", func(t *testing.T) {
		req := dto.ConfirmPaymentRequest{Amount: 300, Method: "CASH"}

		charge := req.ToChargeRequest("booking-1")

		assert.Nil(t, charge.Card)
	})
}
