package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	kafkaMocks "innkeeper/infras/kafka/mocks"
	"innkeeper/infras/otel/mocks"
	s3Mocks "innkeeper/infras/s3/mocks"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/repository"
	"innkeeper/internal/domains/booking/service"
	paymentMocks "innkeeper/internal/domains/payment/mocks"
	"innkeeper/internal/domains/payment/processor"
	roomMocks "innkeeper/internal/domains/room/mocks"
	roomModel "innkeeper/internal/domains/room/model"
	cacheMocks "innkeeper/shared/cache/mocks"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
)

// fakeBookingRepo mirrors the store's locking contract in memory: one lock
// serializes the conflict check and the insert, the way the room row lock
// does in Postgres.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]model.Booking)}
}

func (f *fakeBookingRepo) Reserve(_ context.Context, booking model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var existing []model.Booking

	for _, b := range f.bookings {
		if b.RoomNumber == booking.RoomNumber {
			existing = append(existing, b)
		}
	}

	if model.Conflicts(booking.Stay(), existing) {
		return model.ErrRoomUnavailable
	}

	f.bookings[booking.ID] = booking

	return nil
}

func (f *fakeBookingRepo) Transition(ctx context.Context, id string, to model.Status, apply repository.ApplyFunc) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return model.Booking{}, model.ErrBookingNotFound
	}

	if !booking.Status.CanTransition(to) {
		return model.Booking{}, model.ErrInvalidTransition
	}

	if apply != nil {
		if err := apply(ctx, nil, booking); err != nil {
			return model.Booking{}, err
		}
	}

	booking.Status = to
	f.bookings[id] = booking

	return booking, nil
}

func (f *fakeBookingRepo) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, raw := range filter.Filters {
		if flt, ok := raw.(gDto.Filter); ok && flt.Field == model.FieldID {
			if id, ok := flt.Value.(string); ok {
				return f.bookings[id], nil
			}
		}
	}

	return model.Booking{}, nil
}

func (f *fakeBookingRepo) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) Exist(context.Context, gDto.FilterGroup) (bool, error) {
	return false, nil
}

func (f *fakeBookingRepo) Count(context.Context, gDto.FilterGroup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.bookings), nil
}

func (f *fakeBookingRepo) HasOverlap(_ context.Context, roomNumber int, stay model.Stay) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var existing []model.Booking

	for _, b := range f.bookings {
		if b.RoomNumber == roomNumber {
			existing = append(existing, b)
		}
	}

	return model.Conflicts(stay, existing), nil
}

func (f *fakeBookingRepo) ExistNonTerminal(_ context.Context, roomNumber int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.RoomNumber == roomNumber && !b.Status.Terminal() {
			return true, nil
		}
	}

	return false, nil
}

func newRaceService(ctrl *gomock.Controller, repo repository.Booking) (service.Booking, *paymentMocks.MockProcessor) {
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockProcessor := paymentMocks.NewMockProcessor(ctrl)
	mockBroker := kafkaMocks.NewMockClient(ctrl)
	mockStorage := s3Mocks.NewMockS3(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomModel.Room{RoomNumber: 101, TypeName: "standard", PricePerNight: 100, IsAvailable: true}, nil).
		AnyTimes()

	mockPaymentRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockBroker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, mockRoomRepo, mockPaymentRepo, mockProcessor, mockBroker, mockStorage, cfg, mockCache, mocks.NewOtel())

	return svc, mockProcessor
}

// Forty concurrent requests for the same room and overlapping dates must
// yield exactly one PENDING booking; every loser gets ErrRoomUnavailable.
func TestBookingService_Reserve_ConcurrentSameRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeBookingRepo()
	svc, _ := newRaceService(ctrl, repo)

	const attempts = 40

	var (
		wg        sync.WaitGroup
		successes int32
		conflicts int32
		countMu   sync.Mutex
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")
			_, err := svc.Reserve(ctx, dto.ReserveRequest{
				RoomNumber: 101,
				CheckIn:    "2026-03-01",
				CheckOut:   "2026-03-04",
			})

			countMu.Lock()
			defer countMu.Unlock()

			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrRoomUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes)
	assert.Equal(t, int32(attempts-1), conflicts)

	total, err := repo.Count(context.Background(), gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}

// Concurrent reservations for different rooms never contend with each other.
func TestBookingService_Reserve_ConcurrentDistinctRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeBookingRepo()

	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockBroker := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.FilterGroup, ...string) (roomModel.Room, error) {
			return roomModel.Room{RoomNumber: 1, PricePerNight: 100, IsAvailable: true}, nil
		}).
		AnyTimes()

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockBroker.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(
		repo,
		mockRoomRepo,
		paymentMocks.NewMockPayment(ctrl),
		paymentMocks.NewMockProcessor(ctrl),
		mockBroker,
		s3Mocks.NewMockS3(ctrl),
		cfg,
		mockCache,
		mocks.NewOtel(),
	)

	const rooms = 20

	var wg sync.WaitGroup

	errs := make([]error, rooms)

	for i := 0; i < rooms; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")
			_, err := svc.Reserve(ctx, dto.ReserveRequest{
				RoomNumber: n + 1,
				CheckIn:    "2026-03-01",
				CheckOut:   "2026-03-04",
			})
			errs[n] = err
		}(i)
	}

	wg.Wait()

	for n, err := range errs {
		assert.NoError(t, err, "room %d", n+1)
	}

	total, err := repo.Count(context.Background(), gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Equal(t, rooms, total)
}

// Concurrent payment confirmations for one PENDING booking must settle it
// exactly once; the losers see the booking already past PENDING.
func TestBookingService_ConfirmPayment_ConcurrentDoublePay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeBookingRepo()
	svc, mockProcessor := newRaceService(ctrl, repo)

	mockProcessor.EXPECT().
		Charge(gomock.Any(), gomock.Any()).
		Return(processor.Result{Approved: true}, nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	res, err := svc.Reserve(ctx, dto.ReserveRequest{
		RoomNumber: 101,
		CheckIn:    "2026-03-01",
		CheckOut:   "2026-03-04",
	})
	assert.NoError(t, err)

	const attempts = 10

	var (
		wg        sync.WaitGroup
		successes int32
		rejected  int32
		countMu   sync.Mutex
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.ConfirmPayment(ctx, res.ID, dto.ConfirmPaymentRequest{
				Amount: res.TotalCost,
				Method: "CASH",
			})

			countMu.Lock()
			defer countMu.Unlock()

			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrPaymentRejected):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes)
	assert.Equal(t, int32(attempts-1), rejected)
}
