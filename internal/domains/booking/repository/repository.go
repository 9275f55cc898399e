package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/booking/model"
	roomModel "innkeeper/internal/domains/room/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// ApplyFunc runs extra statements inside a transition's transaction. It
// receives the booking as it was before the status change; returning an
// error rolls the whole transition back.
type ApplyFunc func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Reserve(ctx context.Context, booking model.Booking) error
	Transition(ctx context.Context, id string, to model.Status, apply ApplyFunc) (model.Booking, error)
	HasOverlap(ctx context.Context, roomNumber int, stay model.Stay) (bool, error)
	ExistNonTerminal(ctx context.Context, roomNumber int) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// overlapExistsQuery is the authoritative conflict test: half-open ranges
// [a, b) and [c, d) overlap iff a < d AND c < b. Terminal bookings never
// block a room.
var overlapExistsQuery = fmt.Sprintf(`SELECT EXISTS(
	SELECT 1 FROM %s
	WHERE room_number = $1
	AND status NOT IN ('%s', '%s')
	AND check_in_date < $2
	AND check_out_date > $3
)`, model.TableName, model.StatusCancelled, model.StatusCompleted)

// Reserve inserts the booking after re-checking for date conflicts, all
// inside one transaction that first locks the room row. The row lock
// serializes check-then-insert per room, so two concurrent requests for
// overlapping dates on the same room can never both commit; requests for
// different rooms proceed in parallel.
func (repo *repositoryImpl) Reserve(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin reserve transaction: %w", model.ErrStoreUnavailable)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Str("booking_id", booking.ID).Msg("failed to roll back reserve transaction")
			}
		}
	}()

	lockQuery := fmt.Sprintf("SELECT room_number FROM %s WHERE room_number = $1 FOR UPDATE", roomModel.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	var lockedRoom int
	if err = tx.GetContext(ctx, &lockedRoom, lockQuery, booking.RoomNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("room %d: %w", booking.RoomNumber, roomModel.ErrRoomNotFound)
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room row: %w", model.ErrStoreUnavailable)
	}

	var conflict bool
	if err = tx.GetContext(ctx, &conflict, overlapExistsQuery, booking.RoomNumber, booking.CheckOutDate, booking.CheckInDate); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check for booking conflicts: %w", model.ErrStoreUnavailable)
	}

	if conflict {
		return fmt.Errorf("room %d: %w", booking.RoomNumber, model.ErrRoomUnavailable)
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", model.ErrStoreUnavailable)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit reserve transaction: %w", model.ErrStoreUnavailable)
	}

	return nil
}

// Transition atomically moves a booking to the given status. The booking
// row is locked for the duration, the move is validated against the
// lifecycle table, and any side effects run in the same transaction, so
// either everything commits or nothing does.
func (repo *repositoryImpl) Transition(ctx context.Context, id string, to model.Status, apply ApplyFunc) (booking model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to begin transition transaction: %w", model.ErrStoreUnavailable)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Str("booking_id", id).Msg("failed to roll back transition transaction")
			}
		}
	}()

	lockQuery := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 FOR UPDATE", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	if err = tx.GetContext(ctx, &booking, lockQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking, fmt.Errorf("booking %s: %w", id, model.ErrBookingNotFound)
		}

		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to lock booking row: %w", model.ErrStoreUnavailable)
	}

	if !booking.Status.CanTransition(to) {
		return booking, fmt.Errorf("%s to %s: %w", booking.Status, to, model.ErrInvalidTransition)
	}

	updateQuery := fmt.Sprintf("UPDATE %s SET status = $1, modified_at = $2 WHERE id = $3", model.TableName)
	if _, err = tx.ExecContext(ctx, updateQuery, to, timezone.Now(), id); err != nil {
		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to update booking status: %w", model.ErrStoreUnavailable)
	}

	if apply != nil {
		if err = apply(ctx, tx, booking); err != nil {
			return booking, err
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to commit transition transaction: %w", model.ErrStoreUnavailable)
	}

	booking.Status = to

	return booking, nil
}

// HasOverlap runs the conflict predicate outside any transaction; use it
// for read paths only. Reserve re-checks under the room lock.
func (repo *repositoryImpl) HasOverlap(ctx context.Context, roomNumber int, stay model.Stay) (conflict bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlap")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapExistsQuery)

	if err = repo.db.Read.GetContext(ctx, &conflict, overlapExistsQuery, roomNumber, stay.CheckOut, stay.CheckIn); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check for booking conflicts: %w", model.ErrStoreUnavailable)
	}

	return conflict, nil
}

// ExistNonTerminal reports whether the room is still referenced by any
// booking that can yet change state. Room deletion is refused while true.
func (repo *repositoryImpl) ExistNonTerminal(ctx context.Context, roomNumber int) (exist bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExistNonTerminal")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT EXISTS(
		SELECT 1 FROM %s
		WHERE room_number = $1
		AND status NOT IN ('%s', '%s')
	)`, model.TableName, model.StatusCancelled, model.StatusCompleted)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &exist, query, roomNumber); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check non-terminal bookings: %w", model.ErrStoreUnavailable)
	}

	return exist, nil
}
