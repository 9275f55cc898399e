package service

import (
	"context"
	"errors"
	"fmt"

	"innkeeper/config"
	"innkeeper/infras/kafka"
	"innkeeper/infras/otel"
	"innkeeper/infras/s3"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/repository"
	paymentModel "innkeeper/internal/domains/payment/model"
	paymentDto "innkeeper/internal/domains/payment/model/dto"
	paymentRepo "innkeeper/internal/domains/payment/repository"
	"innkeeper/internal/domains/payment/processor"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepo "innkeeper/internal/domains/room/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	invoiceDirectory   = "invoices"
	invoiceContentType = "text/plain"
)

type bookingEvent struct {
	Event      string  `json:"event"`
	BookingID  string  `json:"booking_id"`
	CustomerID string  `json:"customer_id"`
	RoomNumber int     `json:"room_number"`
	Status     string  `json:"status"`
	TotalCost  float64 `json:"total_cost"`
	OccurredAt string  `json:"occurred_at"`
}

type Booking interface {
	Reserve(ctx context.Context, req dto.ReserveRequest) (dto.BookingResponse, error)
	ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Payments(ctx context.Context, id string) (paymentDto.GetPaymentsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo        repository.Booking
	roomRepo    roomRepo.Room
	paymentRepo paymentRepo.Payment
	processor   processor.Processor
	broker      kafka.Client
	storage     s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	paymentRepo paymentRepo.Payment,
	processor processor.Processor,
	broker kafka.Client,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		processor:   processor,
		broker:      broker,
		storage:     storage,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Reserve places a new booking in PENDING. Room existence and the price
// snapshot happen here; the overlap check is enforced again inside the
// repository under the room lock, so a stale read never double-books.
func (s *serviceImpl) Reserve(ctx context.Context, req dto.ReserveRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	stay, err := req.Stay()
	if err != nil {
		return res, err
	}

	if !stay.Valid() {
		return res, fmt.Errorf("check-out must be after check-in: %w", model.ErrInvalidRange)
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByField(req.RoomNumber, roomModel.FieldRoomNumber, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for reservation")

		return res, fmt.Errorf("failed to get room for reservation: %w", err)
	}

	if room.RoomNumber == 0 {
		return res, fmt.Errorf("room %d: %w", req.RoomNumber, roomModel.ErrRoomNotFound)
	}

	// Fast pre-flight on the read replica; a conflict found here skips the
	// write transaction entirely. Reserve still re-checks under the lock.
	conflict, err := s.repo.HasOverlap(ctx, req.RoomNumber, stay)
	if err != nil {
		log.Error().Err(err).Int("room_number", req.RoomNumber).Msg("failed to pre-check booking conflicts")

		return res, err
	}

	if conflict {
		return res, fmt.Errorf("room %d: %w", req.RoomNumber, model.ErrRoomUnavailable)
	}

	customerID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	booking := req.ToModel(stay, customerID, stay.Cost(room.PricePerNight))

	if err = s.repo.Reserve(ctx, booking); err != nil {
		log.Error().Err(err).Int("room_number", req.RoomNumber).Msg("failed to reserve booking")

		return res, err
	}

	res.FromModel(booking)
	s.afterChange(ctx, booking)

	return res, nil
}

// ConfirmPayment charges the instrument and moves a PENDING booking to
// CONFIRMED. The booking is validated before the instrument is charged,
// so a booking past PENDING or an insufficient amount never reaches the
// processor. The payment row is written in the transition's transaction,
// so a rejected or failed payment leaves the booking untouched.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking for payment")

		return res, fmt.Errorf("failed to get booking for payment: %w", err)
	}

	if current.ID == constant.Empty {
		return res, fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
	}

	if err = ownershipGuard(ctx, id, current.CustomerID); err != nil {
		return res, err
	}

	if current.Status != model.StatusPending {
		return res, fmt.Errorf("booking is not awaiting payment: %w", model.ErrPaymentRejected)
	}

	if req.Amount < current.TotalCost {
		return res, fmt.Errorf("amount %.2f is less than total cost %.2f: %w", req.Amount, current.TotalCost, model.ErrPaymentRejected)
	}

	result, err := s.processor.Charge(ctx, req.ToChargeRequest(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to charge payment")

		return res, fmt.Errorf("failed to charge payment: %w", err)
	}

	if !result.Approved {
		return res, fmt.Errorf("%s: %w", result.Reason, model.ErrPaymentRejected)
	}

	booking, err := s.repo.Transition(ctx, id, model.StatusConfirmed, func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
		if req.Amount < booking.TotalCost {
			return fmt.Errorf("amount %.2f is less than total cost %.2f: %w", req.Amount, booking.TotalCost, model.ErrPaymentRejected)
		}

		payment := paymentModel.Payment{
			ID:        uuid.NewString(),
			BookingID: booking.ID,
			Amount:    req.Amount,
			Method:    req.Method,
			PaidAt:    timezone.Now(),
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  booking.CustomerID,
				ModifiedBy: booking.CustomerID,
			},
		}

		return s.paymentRepo.InsertTx(ctx, tx, payment)
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			return res, fmt.Errorf("booking is not awaiting payment: %w", model.ErrPaymentRejected)
		}

		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm payment")

		return res, err
	}

	res.FromModel(booking)
	s.afterChange(ctx, booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	booking, err := s.repo.Transition(ctx, id, model.StatusCancelled, func(ctx context.Context, _ *sqlx.Tx, booking model.Booking) error {
		return ownershipGuard(ctx, id, booking.CustomerID)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		return res, err
	}

	res.FromModel(booking)
	s.afterChange(ctx, booking)

	return res, nil
}

// CheckIn moves a CONFIRMED booking to CHECKED_IN and flips the room's
// availability flag in the same transaction.
func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	booking, err := s.repo.Transition(ctx, id, model.StatusCheckedIn, func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
		return s.roomRepo.SetAvailabilityTx(ctx, tx, booking.RoomNumber, false)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to check in booking")

		return res, err
	}

	res.FromModel(booking)
	s.afterChange(ctx, booking)

	return res, nil
}

// CheckOut completes the stay, releases the room, and archives an invoice.
func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	booking, err := s.repo.Transition(ctx, id, model.StatusCompleted, func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
		return s.roomRepo.SetAvailabilityTx(ctx, tx, booking.RoomNumber, true)
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to check out booking")

		return res, err
	}

	res.FromModel(booking)
	s.afterChange(ctx, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		// Settled bookings have exactly one payment row; a missing row
		// only leaves the invoice without its payment block.
		payment, err := s.paymentRepo.Get(c, shared.FilterByField(booking.ID, paymentModel.FieldBookingID, paymentModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to get payment for invoice")
		}

		invoice := buildInvoice(booking, payment)
		fileName := fmt.Sprintf("%s.txt", booking.ID)

		if _, err := s.storage.UploadFileBytes(c, constant.Empty, invoiceDirectory, fileName, invoiceContentType, invoice); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to archive invoice")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if err = ownershipGuard(ctx, id, res.CustomerID); err != nil {
			return dto.BookingResponse{}, err
		}

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
	}

	if err = ownershipGuard(ctx, id, booking.CustomerID); err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Payments lists the settlement history of a booking.
func (s *serviceImpl) Payments(ctx context.Context, id string) (res paymentDto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payments")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validBookingID(id); err != nil {
		return res, err
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking for payments")

		return res, fmt.Errorf("failed to get booking for payments: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
	}

	if err = ownershipGuard(ctx, id, booking.CustomerID); err != nil {
		return res, err
	}

	payments, err := s.paymentRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: paymentModel.FieldPaidAt, SortDir: "DESC"},
		shared.FilterByField(id, paymentModel.FieldBookingID, paymentModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(payments)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// afterChange invalidates caches and publishes the lifecycle event. Both
// run off the request path; a slow broker never delays the response.
func (s *serviceImpl) afterChange(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		event := bookingEvent{
			Event:      booking.Status.Event(),
			BookingID:  booking.ID,
			CustomerID: booking.CustomerID,
			RoomNumber: booking.RoomNumber,
			Status:     booking.Status.String(),
			TotalCost:  booking.TotalCost,
			OccurredAt: timezone.Now().Format(constant.DateFormat),
		}

		if err := s.broker.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

// validBookingID rejects malformed ids before they reach the store, where
// a non-UUID would fail the lookup as a cast error instead of a miss.
func validBookingID(id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
	}

	return nil
}

// ownershipGuard hides other customers' bookings from a customer caller.
// Staff roles pass through.
func ownershipGuard(ctx context.Context, id, customerID string) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleCustomer {
		return nil
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if customerID != userID {
		return fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
	}

	return nil
}

func buildInvoice(booking model.Booking, payment paymentModel.Payment) []byte {
	stay := booking.Stay()

	content := fmt.Sprintf(
		"INVOICE %s\nCustomer: %s\nRoom: %d\nCheck-in: %s\nCheck-out: %s\nNights: %d\nTotal: %.2f\n",
		booking.ID,
		booking.CustomerID,
		booking.RoomNumber,
		stay.CheckIn.Format(constant.DateFormatDate),
		stay.CheckOut.Format(constant.DateFormatDate),
		stay.Nights(),
		booking.TotalCost,
	)

	if payment.ID != constant.Empty {
		content += fmt.Sprintf(
			"Paid: %.2f via %s on %s\n",
			payment.Amount,
			payment.Method,
			payment.PaidAt.Format(constant.DateFormatDate),
		)
	}

	return []byte(content)
}
