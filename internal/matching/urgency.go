// internal/matching/urgency.go
package matching

import (
	"time"

	"matching-workers/internal/models"
)

const (
	urgencyWindowDays = 90
	recentDays        = 30
	staleDays         = 60

	// MaxUrgency is the highest urgency level a property can carry.
	MaxUrgency = 5
)

// EstimateUrgency derives a 0-5 attention signal from a property's activity
// log. Only entries within the last 90 days count toward the activity
// window; a brand-new property with no activity at all yields 0, the caller
// marks those "new" rather than urgent. The function is pure in (log, now)
// and must be re-invoked explicitly, it never runs on read.
func EstimateUrgency(log []models.ActivityEntry, now time.Time) int {
	if len(log) == 0 {
		return 0
	}

	windowStart := now.AddDate(0, 0, -urgencyWindowDays)
	recentStart := now.AddDate(0, 0, -recentDays)

	recentCount := 0
	var last time.Time
	for _, entry := range log {
		if entry.Date.After(now) {
			continue
		}
		if entry.Date.After(last) {
			last = entry.Date
		}
		if entry.Date.Before(windowStart) {
			continue
		}
		if !entry.Date.Before(recentStart) {
			recentCount++
		}
	}

	// Heavy recent traffic means the listing is in demand and follow-ups
	// pile up: every two touches in the last 30 days raise the level.
	if recentCount > 0 {
		u := recentCount / 2
		if u > MaxUrgency {
			u = MaxUrgency
		}
		return u
	}

	if last.IsZero() {
		// Log only holds future-dated entries; nothing to escalate on.
		return 0
	}

	daysSince := int(now.Sub(last).Hours() / 24)
	if daysSince > staleDays {
		return MaxUrgency
	}
	if daysSince >= recentDays {
		return 4
	}
	return 0
}
