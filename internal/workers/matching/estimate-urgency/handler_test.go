// internal/workers/matching/estimate-urgency/handler_test.go
package estimateurgency

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"
	"matching-workers/internal/storage"
)

var asOf = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

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
	return NewHandler(LoadConfig(), snapshots, log)
}

func activityDaysAgo(kind string, days int) models.ActivityEntry {
	return models.ActivityEntry{Type: kind, Date: asOf.AddDate(0, 0, -days)}
}

func TestHandler_Execute_EmptyLogIsNotUrgent(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	output, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		Activity:   []models.ActivityEntry{},
		AsOf:       asOf.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, output.Urgency)
	assert.True(t, output.IsNew)
}

func TestHandler_Execute_HeavyRecentActivityMaxesOut(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	activity := make([]models.ActivityEntry, 0, 10)
	for i := 1; i <= 10; i++ {
		activity = append(activity, activityDaysAgo(models.ActivityCall, i*2))
	}

	output, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		Activity:   activity,
		AsOf:       asOf.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, output.Urgency)
	assert.False(t, output.IsNew)
}

func TestHandler_Execute_ModerateRecentActivity(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	output, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		Activity: []models.ActivityEntry{
			activityDaysAgo(models.ActivityVisit, 5),
			activityDaysAgo(models.ActivityCall, 10),
			activityDaysAgo(models.ActivityEmail, 15),
			activityDaysAgo(models.ActivityCall, 20),
		},
		AsOf: asOf.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Urgency)
}

func TestHandler_Execute_StaleListingEscalates(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	tests := []struct {
		name     string
		daysAgo  int
		expected int
	}{
		{"last touch 70 days ago", 70, 5},
		{"last touch 45 days ago", 45, 4},
		{"last touch 31 days ago", 31, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				PropertyID: "prop-1",
				Activity:   []models.ActivityEntry{activityDaysAgo(models.ActivityCall, tt.daysAgo)},
				AsOf:       asOf.Format(time.RFC3339),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Urgency)
		})
	}
}

func TestHandler_Execute_FutureEntriesIgnored(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	output, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		Activity: []models.ActivityEntry{
			{Type: models.ActivityVisit, Date: asOf.AddDate(0, 0, 3)},
		},
		AsOf: asOf.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, output.Urgency)
}

func TestHandler_Execute_LoadsActivityFromSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	handler := newTestHandler(t, db)

	prop := models.Property{
		ID:       "prop-1",
		City:     "milano",
		Kind:     "apartment",
		Contract: models.ContractSale,
		Activity: []models.ActivityEntry{activityDaysAgo(models.ActivityCall, 70)},
	}
	raw, err := json.Marshal(prop)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT data FROM properties WHERE id = \$1`).
		WithArgs("prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))

	output, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		AsOf:       asOf.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, output.Urgency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_BadAsOf(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	_, err := handler.Execute(context.Background(), &Input{
		PropertyID: "prop-1",
		Activity:   []models.ActivityEntry{activityDaysAgo(models.ActivityCall, 5)},
		AsOf:       "yesterday",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestHandler_Execute_MissingPropertyID(t *testing.T) {
	db, _ := setupMockDB(t)
	handler := newTestHandler(t, db)

	_, err := handler.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}
