// internal/workers/matching/estimate-urgency/models.go
package estimateurgency

import "matching-workers/internal/models"

type Input struct {
	PropertyID string `json:"propertyId"`

	// Activity, when set, is used as-is instead of the stored snapshot.
	Activity []models.ActivityEntry `json:"activity,omitempty"`

	// AsOf fixes the evaluation instant for reproducible runs; empty means
	// now. RFC 3339.
	AsOf string `json:"asOf,omitempty"`
}

type Output struct {
	PropertyID string `json:"propertyId"`
	Urgency    int    `json:"urgency"`

	// IsNew marks properties that have never been touched; they score 0
	// but deserve a first contact rather than an escalation.
	IsNew bool `json:"isNew"`
}
