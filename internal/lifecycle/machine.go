// Package lifecycle implements the match status state machine.
//
// A match moves strictly forward through the pipeline:
//
//	suggested -> sent -> viewed -> visited -> interested -> closed
//	                                       -> rejected   -> closed
//
// Skipping stages is not permitted except for an administrative close,
// which may jump any non-closed match directly to closed.
package lifecycle

import (
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/models"
)

// transitions holds the permitted next statuses per current status.
var transitions = map[string][]string{
	models.StatusSuggested:  {models.StatusSent},
	models.StatusSent:       {models.StatusViewed},
	models.StatusViewed:     {models.StatusVisited},
	models.StatusVisited:    {models.StatusInterested, models.StatusRejected},
	models.StatusInterested: {models.StatusClosed},
	models.StatusRejected:   {models.StatusClosed},
	models.StatusClosed:     {},
}

// ValidStatus reports whether s is a known match status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a direct transition from current to target
// is allowed without the administrative override.
func CanTransition(current, target string) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// Apply advances the match to target, stamping the lifecycle timestamp of
// the entered status and bumping the optimistic version. When adminClose is
// set, target must be closed and any non-closed match may be closed directly.
//
// The match is mutated in place only on success.
func Apply(m *models.Match, target string, adminClose bool, now time.Time) error {
	if !ValidStatus(target) {
		return errors.NewValidationError("unknown target status: " + target)
	}

	if adminClose {
		if target != models.StatusClosed {
			return errors.NewValidationError("administrative override may only close a match")
		}
		if m.Status == models.StatusClosed {
			return errors.NewInvalidTransitionError(m.Status, target)
		}
	} else if !CanTransition(m.Status, target) {
		return errors.NewInvalidTransitionError(m.Status, target)
	}

	m.Status = target
	stampStatus(m, target, now)
	touch(m, now)
	return nil
}

// RecordReaction records the client's reaction on a visited match and moves
// the status accordingly: interested advances to interested, not_interested
// advances to rejected and requires a rejection reason, neutral records the
// reaction and leaves the match at visited.
func RecordReaction(m *models.Match, reaction, rejectionReason string, now time.Time) error {
	if m.Status != models.StatusVisited {
		return errors.NewInvalidTransitionError(m.Status, "reaction:"+reaction)
	}

	switch reaction {
	case models.ReactionInterested:
		m.Reaction = reaction
		m.Status = models.StatusInterested

	case models.ReactionNotInterested:
		if !models.ValidRejectionReason(rejectionReason) {
			return errors.NewValidationError("rejection reason required for not_interested reaction: " + rejectionReason)
		}
		m.Reaction = reaction
		m.RejectionReason = rejectionReason
		m.Status = models.StatusRejected

	case models.ReactionNeutral:
		m.Reaction = reaction
		// Status stays visited; the client may still decide later.

	default:
		return errors.NewValidationError("unknown reaction: " + reaction)
	}

	touch(m, now)
	return nil
}

// stampStatus records the timestamp for the status just entered. Earlier
// stage timestamps are never rewritten.
func stampStatus(m *models.Match, status string, now time.Time) {
	t := now
	switch status {
	case models.StatusSent:
		m.SentDate = &t
	case models.StatusViewed:
		m.ViewedDate = &t
	case models.StatusVisited:
		m.VisitedDate = &t
	case models.StatusClosed:
		m.ClosedDate = &t
	}
}

func touch(m *models.Match, now time.Time) {
	m.UpdatedAt = now
	m.Version++
}
