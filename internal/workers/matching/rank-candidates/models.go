// internal/workers/matching/rank-candidates/models.go
package rankcandidates

import "matching-workers/internal/models"

type Input struct {
	RequestID string                `json:"requestId"`
	Request   *models.SearchRequest `json:"request,omitempty"`

	// Properties, when set, skips the candidate search and ranks the given
	// listings directly.
	Properties []models.Property `json:"properties,omitempty"`

	Limit int `json:"limit,omitempty"`
}

type Candidate struct {
	PropertyID string                `json:"propertyId"`
	Score      int                   `json:"matchScore"`
	Breakdown  models.ScoreBreakdown `json:"scoreBreakdown"`
}

type Output struct {
	RequestID  string      `json:"requestId"`
	Candidates []Candidate `json:"candidates"`
	Total      int         `json:"total"`
}
