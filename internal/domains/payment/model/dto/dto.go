package dto

import (
	"innkeeper/internal/domains/payment/model"
	"innkeeper/shared/constant"
)

type PaymentResponse struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	PaidAt    string  `json:"paid_at"`
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Amount = model.Amount
	r.Method = model.Method
	r.PaidAt = model.PaidAt.Format(constant.DateFormat)
}

type GetPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment) {
	r.Payments = make([]PaymentResponse, 0, len(models))

	for _, m := range models {
		payment := PaymentResponse{}
		payment.FromModel(m)

		r.Payments = append(r.Payments, payment)
	}
}
