package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/otel/mocks"
	bookingMocks "innkeeper/internal/domains/booking/mocks"
	roomMocks "innkeeper/internal/domains/room/mocks"
	"innkeeper/internal/domains/room/model"
	"innkeeper/internal/domains/room/model/dto"
	"innkeeper/internal/domains/room/service"
	cacheMocks "innkeeper/shared/cache/mocks"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
)

type roomServiceMocks struct {
	repo        *roomMocks.MockRoom
	typeRepo    *roomMocks.MockRoomType
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
}

func newRoomService(ctrl *gomock.Controller) (service.Room, roomServiceMocks) {
	m := roomServiceMocks{
		repo:        roomMocks.NewMockRoom(ctrl),
		typeRepo:    roomMocks.NewMockRoomType(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(m.repo, m.typeRepo, m.bookingRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func testRoomType() model.RoomType {
	return model.RoomType{
		TypeName:     "deluxe",
		Description:  "Deluxe double",
		BasePrice:    150,
		MaxOccupancy: 2,
	}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "successful creation",
			req: dto.CreateRoomRequest{
				RoomNumber:    101,
				TypeName:      "deluxe",
				PricePerNight: 200,
			},
			setupMock: func() {
				m.typeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoomType(), nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, 200.0, room.PricePerNight)
						assert.True(t, room.IsAvailable)

						return nil
					})
			},
		},
		{
			name: "price defaults to type base price",
			req: dto.CreateRoomRequest{
				RoomNumber: 102,
				TypeName:   "deluxe",
			},
			setupMock: func() {
				m.typeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoomType(), nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, 150.0, room.PricePerNight)

						return nil
					})
			},
		},
		{
			name: "unknown room type",
			req: dto.CreateRoomRequest{
				RoomNumber: 103,
				TypeName:   "imperial",
			},
			setupMock: func() {
				m.typeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, nil)
			},
			wantErr: model.ErrRoomTypeNotFound,
		},
		{
			name: "duplicate room number",
			req: dto.CreateRoomRequest{
				RoomNumber: 101,
				TypeName:   "deluxe",
			},
			setupMock: func() {
				m.typeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoomType(), nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: model.ErrDuplicateRoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	tests := []struct {
		name       string
		roomNumber int
		setupMock  func()
		wantErr    error
	}{
		{
			name:       "cache hit",
			roomNumber: 101,
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:       "cache miss falls back to store",
			roomNumber: 101,
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{RoomNumber: 101, TypeName: "deluxe", PricePerNight: 150}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:       "room not found",
			roomNumber: 999,
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr: model.ErrRoomNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.Get(context.Background(), tt.roomNumber)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "room without live bookings deletes",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.bookingRepo.EXPECT().
					ExistNonTerminal(gomock.Any(), 101).
					Return(false, nil)

				m.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "room with live bookings is protected",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.bookingRepo.EXPECT().
					ExistNonTerminal(gomock.Any(), 101).
					Return(true, nil)
			},
			wantErr: model.ErrRoomHasBookings,
		},
		{
			name: "unknown room",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: model.ErrRoomNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(context.Background(), 101)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_ListAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	checkIn := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)

	t.Run("returns free rooms without touching the cache", func(t *testing.T) {
		m.repo.EXPECT().
			ListAvailable(gomock.Any(), checkIn, checkOut).
			Return([]model.Room{
				{RoomNumber: 101, TypeName: "deluxe", PricePerNight: 150, IsAvailable: true},
				{RoomNumber: 102, TypeName: "deluxe", PricePerNight: 150, IsAvailable: true},
			}, nil)

		res, err := svc.ListAvailable(context.Background(), checkIn, checkOut)

		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 2)
	})

	t.Run("store error", func(t *testing.T) {
		m.repo.EXPECT().
			ListAvailable(gomock.Any(), checkIn, checkOut).
			Return(nil, errors.New("database error"))

		_, err := svc.ListAvailable(context.Background(), checkIn, checkOut)

		assert.Error(t, err)
	})
}

func TestRoomService_CreateType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	req := dto.CreateRoomTypeRequest{
		TypeName:     "deluxe",
		Description:  "Deluxe double",
		BasePrice:    150,
		MaxOccupancy: 2,
	}

	t.Run("successful creation", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.typeRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

		assert.NoError(t, svc.CreateType(ctx, req))
	})

	t.Run("duplicate type name", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

		assert.ErrorIs(t, svc.CreateType(ctx, req), model.ErrDuplicateRoomType)
	})
}

func TestRoomService_GetType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("existing type", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoomType(), nil)

		res, err := svc.GetType(context.Background(), "deluxe")

		assert.NoError(t, err)
		assert.Equal(t, "deluxe", res.TypeName)
	})

	t.Run("unknown type", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{}, nil)

		_, err := svc.GetType(context.Background(), "imperial")

		assert.ErrorIs(t, err, model.ErrRoomTypeNotFound)
	})
}

func TestRoomService_UpdateType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	price := 175.0
	req := dto.UpdateRoomTypeRequest{
		Description: "Refurbished deluxe double",
		BasePrice:   &price,
	}

	t.Run("successful update", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.typeRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &price, fields["base_price"])
				assert.Equal(t, "admin-1", fields["modified_by"])

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

		assert.NoError(t, svc.UpdateType(ctx, req, "deluxe"))
	})

	t.Run("unknown type", func(t *testing.T) {
		m.typeRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

		assert.ErrorIs(t, svc.UpdateType(ctx, req, "imperial"), model.ErrRoomTypeNotFound)
	})
}
