package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeeper/infras/otel/mocks"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/room/repository"
)

func setupMockRoomRepo(t *testing.T) (sqlmock.Sqlmock, *sqlx.DB, repository.Room) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return mock, sqlxDB, repository.New(conn, mocks.NewOtel())
}

// Setting the availability flag to a value it already holds must succeed
// the same way the first set does, so check-in retries never fail on the
// flag update.
func TestRoomRepository_SetAvailabilityTx_Idempotent(t *testing.T) {
	mock, sqlxDB, repo := setupMockRoomRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET is_available`).
		WithArgs(false, sqlmock.AnyArg(), 101).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rooms SET is_available`).
		WithArgs(false, sqlmock.AnyArg(), 101).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	ctx := context.Background()

	assert.NoError(t, repo.SetAvailabilityTx(ctx, tx, 101, false))
	assert.NoError(t, repo.SetAvailabilityTx(ctx, tx, 101, false))

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Releasing a room that is already available behaves the same way.
func TestRoomRepository_SetAvailabilityTx_IdempotentRelease(t *testing.T) {
	mock, sqlxDB, repo := setupMockRoomRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET is_available`).
		WithArgs(true, sqlmock.AnyArg(), 101).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rooms SET is_available`).
		WithArgs(true, sqlmock.AnyArg(), 101).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	ctx := context.Background()

	assert.NoError(t, repo.SetAvailabilityTx(ctx, tx, 101, true))
	assert.NoError(t, repo.SetAvailabilityTx(ctx, tx, 101, true))

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
