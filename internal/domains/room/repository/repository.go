package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	bookingModel "innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/room/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error)
	SetAvailabilityTx(ctx context.Context, tx *sqlx.Tx, roomNumber int, available bool) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldRoomNumber, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListAvailable returns rooms whose coarse flag is available and that have
// no overlapping non-terminal booking for the half-open range
// [checkIn, checkOut). The subquery is the authoritative conflict check;
// the coarse flag only narrows the browse result.
func (repo *repositoryImpl) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) (rooms []model.Room, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ListAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT * FROM %s
		WHERE is_available = TRUE
		AND NOT EXISTS (
			SELECT 1 FROM %s b
			WHERE b.room_number = %s.room_number
			AND b.status NOT IN ('%s', '%s')
			AND b.check_in_date < :check_out
			AND b.check_out_date > :check_in
		)
		ORDER BY room_number ASC`,
		model.TableName,
		bookingModel.TableName,
		model.TableName,
		bookingModel.StatusCancelled,
		bookingModel.StatusCompleted,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"check_in":  checkIn,
		"check_out": checkOut,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return rooms, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &rooms, args); err != nil {
		logger.ErrorWithStack(err)

		return rooms, fmt.Errorf("failed to list available rooms: %w", err)
	}

	return rooms, nil
}

// SetAvailabilityTx flips the coarse availability flag inside the caller's
// transaction, so check-in and check-out toggle it atomically with the
// booking status change.
func (repo *repositoryImpl) SetAvailabilityTx(ctx context.Context, tx *sqlx.Tx, roomNumber int, available bool) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SetAvailabilityTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("UPDATE %s SET is_available = $1, modified_at = $2 WHERE room_number = $3", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.ExecContext(ctx, query, available, timezone.Now(), roomNumber); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to set room availability: %w", err)
	}

	return nil
}
