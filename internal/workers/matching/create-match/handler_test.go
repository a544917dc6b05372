// internal/workers/matching/create-match/handler_test.go
package creatematch

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/matching"
	"matching-workers/internal/models"
	"matching-workers/internal/storage"
)

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestHandler(t *testing.T, db *sql.DB) *Handler {
	log := logger.NewTestLogger(t)
	snapshots := storage.NewSnapshotStore(db, setupRedis(t), 5*time.Minute, log)
	matches := storage.NewMatchRepository(db, log)
	return NewHandler(LoadConfig(), matching.NewDefaultEngine(), snapshots, matches, log)
}

func floatPtr(v float64) *float64 { return &v }

func duplicateKeyError() error {
	return &pq.Error{Code: "23505"}
}

func testRequest() *models.SearchRequest {
	return &models.SearchRequest{
		ID:       "req-1",
		Contract: models.ContractSale,
		Cities:   []string{"milano"},
		PriceMax: floatPtr(400000),
	}
}

func testProperty() *models.Property {
	return &models.Property{
		ID:        "prop-1",
		City:      "milano",
		Kind:      "apartment",
		Contract:  models.ContractSale,
		PriceSale: 340000,
		Sqm:       95,
	}
}

func TestHandler_Execute_CreatesMatch(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := newTestHandler(t, db)
	handler.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("req-1", "prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO matches`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := handler.Execute(context.Background(), &Input{
		Request:  testRequest(),
		Property: testProperty(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.MatchID)
	assert.Equal(t, models.StatusSuggested, output.Status)
	assert.Equal(t, output.Breakdown.Total, output.Score)
	assert.Positive(t, output.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicatePair(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := newTestHandler(t, db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("req-1", "prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := handler.Execute(context.Background(), &Input{
		Request:  testRequest(),
		Property: testProperty(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateMatch))
}

func TestHandler_Execute_DuplicateRace(t *testing.T) {
	// The existence check passes, but a concurrent job inserts first and the
	// unique constraint catches it.
	db, mock := setupMockDB(t)
	handler := newTestHandler(t, db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("req-1", "prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO matches`).
		WillReturnError(duplicateKeyError())

	_, err := handler.Execute(context.Background(), &Input{
		Request:  testRequest(),
		Property: testProperty(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateMatch))
}

func TestHandler_Execute_MissingIdentifiers(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	_, err := handler.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}
