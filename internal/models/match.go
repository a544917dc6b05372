// internal/models/match.go
package models

import "time"

// Match statuses, in lifecycle order.
const (
	StatusSuggested  = "suggested"
	StatusSent       = "sent"
	StatusViewed     = "viewed"
	StatusVisited    = "visited"
	StatusInterested = "interested"
	StatusRejected   = "rejected"
	StatusClosed     = "closed"
)

// Client reactions recorded against a match.
const (
	ReactionInterested    = "interested"
	ReactionNeutral       = "neutral"
	ReactionNotInterested = "not_interested"
)

// Rejection reasons. Required whenever the reaction is not_interested.
const (
	RejectTooExpensive  = "too_expensive"
	RejectWrongLocation = "wrong_location"
	RejectTooSmall      = "too_small"
	RejectTooLarge      = "too_large"
	RejectWrongType     = "wrong_type"
	RejectPoorCondition = "poor_condition"
	RejectNoFeatures    = "no_features"
	RejectOther         = "other"
)

// ScoreBreakdown is the fixed-shape result of scoring one request against
// one property. All values are integers in [0,100].
type ScoreBreakdown struct {
	Total     int `json:"total"`
	Location  int `json:"location"`
	Price     int `json:"price"`
	Size      int `json:"size"`
	Features  int `json:"features"`
	Condition int `json:"condition"`
}

// Match is the persisted pairing of one request with one property. The score
// is a snapshot taken at creation time and never recomputed in place.
type Match struct {
	ID         string         `json:"id"`
	RequestID  string         `json:"requestId"`
	PropertyID string         `json:"propertyId"`
	Score      ScoreBreakdown `json:"score"`
	Status     string         `json:"status"`

	Reaction        string `json:"reaction,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`

	SentDate    *time.Time `json:"sentDate,omitempty"`
	ViewedDate  *time.Time `json:"viewedDate,omitempty"`
	VisitedDate *time.Time `json:"visitedDate,omitempty"`
	ClosedDate  *time.Time `json:"closedDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Version guards concurrent transitions on the same match record.
	Version int `json:"version"`
}

// ValidRejectionReason reports whether reason belongs to the closed
// enumeration above.
func ValidRejectionReason(reason string) bool {
	switch reason {
	case RejectTooExpensive, RejectWrongLocation, RejectTooSmall, RejectTooLarge,
		RejectWrongType, RejectPoorCondition, RejectNoFeatures, RejectOther:
		return true
	}
	return false
}
