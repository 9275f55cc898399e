package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeeper/infras/otel/mocks"
	"innkeeper/internal/domains/payment/processor"
)

func validCard() *processor.Card {
	return &processor.Card{
		Number:     "4111111111111111",
		HolderName: "Jane Roe",
		Expiry:     "11/27",
		CVV:        "123",
	}
}

func TestProcessor_Charge(t *testing.T) {
	svc := processor.New(mocks.NewOtel())

	tests := []struct {
		name         string
		req          processor.ChargeRequest
		wantApproved bool
		wantReason   string
	}{
		{
			name: "cash always approves",
			req: processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "CASH",
				Amount:    300,
			},
			wantApproved: true,
		},
		{
			name: "valid card approves",
			req: processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "CREDIT_CARD",
				Amount:    300,
				Card:      validCard(),
			},
			wantApproved: true,
		},
		{
			name: "zero amount",
			req: processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "CASH",
			},
			wantReason: "amount must be positive",
		},
		{
			name: "unsupported method",
			req: processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "BARTER",
				Amount:    300,
			},
			wantReason: "unsupported payment method",
		},
		{
			name: "card method without card details",
			req: processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "CREDIT_CARD",
				Amount:    300,
			},
			wantReason: "card details are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Charge(context.Background(), tt.req)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantApproved, result.Approved)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}

func TestProcessor_Charge_CardValidation(t *testing.T) {
	svc := processor.New(mocks.NewOtel())

	tests := []struct {
		name       string
		mutate     func(card *processor.Card)
		wantReason string
	}{
		{
			name:       "short card number",
			mutate:     func(card *processor.Card) { card.Number = "41111111" },
			wantReason: "card number must be 16 digits",
		},
		{
			name:       "non numeric card number",
			mutate:     func(card *processor.Card) { card.Number = "4111-1111-1111-1111" },
			wantReason: "card number must be 16 digits",
		},
		{
			name:       "blank holder name",
			mutate:     func(card *processor.Card) { card.HolderName = "   " },
			wantReason: "card holder name is required",
		},
		{
			name:       "expiry month out of range",
			mutate:     func(card *processor.Card) { card.Expiry = "13/27" },
			wantReason: "expiry date must be in MM/YY format",
		},
		{
			name:       "expiry missing slash",
			mutate:     func(card *processor.Card) { card.Expiry = "1127" },
			wantReason: "expiry date must be in MM/YY format",
		},
		{
			name:       "cvv too long",
			mutate:     func(card *processor.Card) { card.CVV = "1234" },
			wantReason: "cvv must be 3 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(card)

			result, err := svc.Charge(context.Background(), processor.ChargeRequest{
				BookingID: "booking-1",
				Method:    "CREDIT_CARD",
				Amount:    300,
				Card:      card,
			})

			assert.NoError(t, err)
			assert.False(t, result.Approved)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}
