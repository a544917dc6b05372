// internal/workers/matching/transition-match/models.go
package transitionmatch

type Input struct {
	MatchID string `json:"matchId"`

	// TargetStatus drives a plain lifecycle transition. Ignored when a
	// reaction is being recorded.
	TargetStatus string `json:"targetStatus,omitempty"`

	// AdminClose lets back-office staff close a match from any non-closed
	// status, skipping the intermediate stages.
	AdminClose bool `json:"adminClose,omitempty"`

	// Reaction records the client's verdict on a visited match. When set,
	// the resulting status follows from the reaction, not TargetStatus.
	Reaction        string `json:"reaction,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

type Output struct {
	MatchID string `json:"matchId"`
	Status  string `json:"status"`
	Version int    `json:"version"`
}
