// internal/workers/matching/score-match/models.go
package scorematch

import "matching-workers/internal/models"

type Input struct {
	RequestID  string `json:"requestId"`
	PropertyID string `json:"propertyId"`

	// Inline snapshots take precedence over a storage lookup, so upstream
	// tasks can pass records straight through the process variables.
	Request  *models.SearchRequest `json:"request,omitempty"`
	Property *models.Property      `json:"property,omitempty"`
}

type Output struct {
	RequestID  string                `json:"requestId"`
	PropertyID string                `json:"propertyId"`
	Score      int                   `json:"matchScore"`
	Breakdown  models.ScoreBreakdown `json:"scoreBreakdown"`
}
