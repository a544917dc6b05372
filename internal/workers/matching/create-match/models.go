// internal/workers/matching/create-match/models.go
package creatematch

import "matching-workers/internal/models"

type Input struct {
	RequestID  string `json:"requestId"`
	PropertyID string `json:"propertyId"`

	Request  *models.SearchRequest `json:"request,omitempty"`
	Property *models.Property      `json:"property,omitempty"`
}

type Output struct {
	MatchID    string                `json:"matchId"`
	RequestID  string                `json:"requestId"`
	PropertyID string                `json:"propertyId"`
	Score      int                   `json:"matchScore"`
	Breakdown  models.ScoreBreakdown `json:"scoreBreakdown"`
	Status     string                `json:"status"`
}
