// internal/storage/match_repository_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"
)

var testScoreJSON = []byte(`{"total":87,"location":100,"price":85,"size":80,"features":75,"condition":85}`)

func testMatch() *models.Match {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	return &models.Match{
		ID:         "match-1",
		RequestID:  "req-1",
		PropertyID: "prop-1",
		Score:      models.ScoreBreakdown{Total: 87, Location: 100, Price: 85, Size: 80, Features: 75, Condition: 85},
		Status:     models.StatusSuggested,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
}

func TestMatchRepository_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	m := testMatch()
	mock.ExpectExec(`INSERT INTO matches`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepository_Insert_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	mock.ExpectExec(`INSERT INTO matches`).
		WillReturnError(&pq.Error{Code: pq.ErrorCode(uniqueViolation)})

	err := repo.Insert(context.Background(), testMatch())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateMatch))
}

func TestMatchRepository_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "property_id", "score", "status",
		"reaction", "rejection_reason",
		"sent_date", "viewed_date", "visited_date", "closed_date",
		"created_at", "updated_at", "version",
	}).AddRow(
		"match-1", "req-1", "prop-1", testScoreJSON, models.StatusSent,
		nil, nil,
		now, nil, nil, nil,
		now, now, 2,
	)

	mock.ExpectQuery(`SELECT id, request_id, property_id`).
		WithArgs("match-1").
		WillReturnRows(rows)

	m, err := repo.Get(context.Background(), "match-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, m.Status)
	assert.Equal(t, 87, m.Score.Total)
	assert.Empty(t, m.Reaction)
	require.NotNil(t, m.SentDate)
	assert.Equal(t, 2, m.Version)
}

func TestMatchRepository_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery(`SELECT id, request_id, property_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMatchNotFound))
}

func TestMatchRepository_ExistsPair(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("req-1", "prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsPair(context.Background(), "req-1", "prop-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMatchRepository_UpdateWithVersion(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	m := testMatch()
	m.Status = models.StatusSent
	m.Version = 2

	mock.ExpectExec(`UPDATE matches SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateWithVersion(context.Background(), m, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepository_UpdateWithVersion_Conflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	m := testMatch()
	m.Version = 2

	mock.ExpectExec(`UPDATE matches SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The existence check after the missed update finds the row, so the
	// failure is a version conflict, not a missing match.
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "property_id", "score", "status",
		"reaction", "rejection_reason",
		"sent_date", "viewed_date", "visited_date", "closed_date",
		"created_at", "updated_at", "version",
	}).AddRow(
		"match-1", "req-1", "prop-1", testScoreJSON, models.StatusSent,
		nil, nil,
		nil, nil, nil, nil,
		now, now, 5,
	)
	mock.ExpectQuery(`SELECT id, request_id, property_id`).
		WithArgs("match-1").
		WillReturnRows(rows)

	err := repo.UpdateWithVersion(context.Background(), m, 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVersionConflict))
}

func TestMatchRepository_UpdateWithVersion_MatchGone(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	m := testMatch()

	mock.ExpectExec(`UPDATE matches SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, request_id, property_id`).
		WithArgs("match-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.UpdateWithVersion(context.Background(), m, 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMatchNotFound))
}

func TestMatchRepository_ListByRequest(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRepository(db, logger.NewTestLogger(t))

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "property_id", "score", "status",
		"reaction", "rejection_reason",
		"sent_date", "viewed_date", "visited_date", "closed_date",
		"created_at", "updated_at", "version",
	}).
		AddRow("match-2", "req-1", "prop-2", testScoreJSON, models.StatusSuggested, nil, nil, nil, nil, nil, nil, now, now, 1).
		AddRow("match-1", "req-1", "prop-1", testScoreJSON, models.StatusRejected, models.ReactionNotInterested, models.RejectTooExpensive, now, now, now, nil, now, now, 5)

	mock.ExpectQuery(`SELECT id, request_id, property_id`).
		WithArgs("req-1").
		WillReturnRows(rows)

	matches, err := repo.ListByRequest(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, models.RejectTooExpensive, matches[1].RejectionReason)
}
