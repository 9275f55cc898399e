package processor

//go:generate go run go.uber.org/mock/mockgen -source=./processor.go -destination=../mocks/processor_mock.go -package=mocks

import (
	"context"
	"regexp"
	"strings"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/payment/model"
	"innkeeper/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

type Card struct {
	Number     string
	HolderName string
	Expiry     string
	CVV        string
}

type ChargeRequest struct {
	BookingID string
	Method    string
	Amount    float64
	Card      *Card
}

// Result reports the processor's decision. A declined charge is a normal
// outcome, not an error; Reason explains the decline.
type Result struct {
	Approved bool
	Reason   string
}

// Processor authorizes a charge against a payment instrument. Card charges
// validate the instrument locally; there is no external gateway call.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
}

type processorImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) Processor {
	return &processorImpl{otel: otel}
}

func (p *processorImpl) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	_, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".processor.Charge")
	defer scope.End()

	if req.Amount <= 0 {
		return Result{Reason: "amount must be positive"}, nil
	}

	switch req.Method {
	case model.MethodCash:
		return Result{Approved: true}, nil
	case model.MethodCard:
		result := validateCard(req.Card)
		if !result.Approved {
			log.Warn().Str("booking_id", req.BookingID).Str("reason", result.Reason).Msg("card charge declined")
		}

		return result, nil
	default:
		return Result{Reason: "unsupported payment method"}, nil
	}
}

func validateCard(card *Card) Result {
	if card == nil {
		return Result{Reason: "card details are required"}
	}

	if !cardNumberPattern.MatchString(card.Number) {
		return Result{Reason: "card number must be 16 digits"}
	}

	if strings.TrimSpace(card.HolderName) == "" {
		return Result{Reason: "card holder name is required"}
	}

	if !expiryPattern.MatchString(card.Expiry) {
		return Result{Reason: "expiry date must be in MM/YY format"}
	}

	if !cvvPattern.MatchString(card.CVV) {
		return Result{Reason: "cvv must be 3 digits"}
	}

	return Result{Approved: true}
}
