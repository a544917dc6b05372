// internal/matching/urgency_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matching-workers/internal/models"
)

var urgencyNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func activityDaysAgo(days ...int) []models.ActivityEntry {
	entries := make([]models.ActivityEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, models.ActivityEntry{
			Type: models.ActivityCall,
			Date: urgencyNow.AddDate(0, 0, -d),
		})
	}
	return entries
}

func TestEstimateUrgency_EmptyLog(t *testing.T) {
	assert.Equal(t, 0, EstimateUrgency(nil, urgencyNow))
	assert.Equal(t, 0, EstimateUrgency([]models.ActivityEntry{}, urgencyNow))
}

func TestEstimateUrgency_RecentActivity(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  []int
		expected int
	}{
		{"single recent touch is not yet urgent", []int{10}, 0},
		{"a handful of recent touches", []int{2, 5, 9, 14}, 2},
		{"six touches", []int{1, 3, 5, 8, 12, 20}, 3},
		{"heavy traffic caps at the maximum", []int{1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateUrgency(activityDaysAgo(tt.daysAgo...), urgencyNow))
		})
	}
}

func TestEstimateUrgency_StaleListing(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  int
		expected int
	}{
		{"untouched for over two months", 70, 5},
		{"untouched for six weeks", 45, 4},
		{"just past the recent window", 31, 4},
		{"outside the whole 90-day window still escalates", 120, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateUrgency(activityDaysAgo(tt.daysAgo), urgencyNow))
		})
	}
}

func TestEstimateUrgency_ExactlyThirtyDaysCountsAsRecent(t *testing.T) {
	// One touch on the window boundary: recent but too little to escalate.
	assert.Equal(t, 0, EstimateUrgency(activityDaysAgo(30), urgencyNow))
}

func TestEstimateUrgency_FutureEntriesIgnored(t *testing.T) {
	future := []models.ActivityEntry{
		{Type: models.ActivityVisit, Date: urgencyNow.AddDate(0, 0, 3)},
		{Type: models.ActivityVisit, Date: urgencyNow.AddDate(0, 0, 14)},
	}
	assert.Equal(t, 0, EstimateUrgency(future, urgencyNow))

	// A future entry never masks a stale last touch.
	mixed := append(activityDaysAgo(70), future...)
	assert.Equal(t, 5, EstimateUrgency(mixed, urgencyNow))
}
