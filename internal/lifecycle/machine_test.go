package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/models"
)

func newMatch(status string) *models.Match {
	return &models.Match{
		ID:         "match-1",
		RequestID:  "req-1",
		PropertyID: "prop-1",
		Score:      models.ScoreBreakdown{Total: 87},
		Status:     status,
		Version:    1,
	}
}

func TestApply_HappyPath(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := newMatch(models.StatusSuggested)

	require.NoError(t, Apply(m, models.StatusSent, false, now))
	assert.Equal(t, models.StatusSent, m.Status)
	require.NotNil(t, m.SentDate)
	assert.Equal(t, now, *m.SentDate)
	assert.Equal(t, 2, m.Version)

	require.NoError(t, Apply(m, models.StatusViewed, false, now.Add(time.Hour)))
	require.NotNil(t, m.ViewedDate)

	require.NoError(t, Apply(m, models.StatusVisited, false, now.Add(2*time.Hour)))
	require.NotNil(t, m.VisitedDate)

	require.NoError(t, Apply(m, models.StatusInterested, false, now.Add(3*time.Hour)))
	require.NoError(t, Apply(m, models.StatusClosed, false, now.Add(4*time.Hour)))
	require.NotNil(t, m.ClosedDate)
	assert.Equal(t, 6, m.Version)
}

func TestApply_SkippingStagesRejected(t *testing.T) {
	cases := []struct {
		current string
		target  string
	}{
		{models.StatusSuggested, models.StatusViewed},
		{models.StatusSuggested, models.StatusClosed},
		{models.StatusSent, models.StatusVisited},
		{models.StatusViewed, models.StatusInterested},
		{models.StatusVisited, models.StatusClosed},
	}

	for _, tc := range cases {
		t.Run(tc.current+"_to_"+tc.target, func(t *testing.T) {
			m := newMatch(tc.current)
			err := Apply(m, tc.target, false, time.Now())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidTransition))
			assert.Equal(t, tc.current, m.Status, "match must be unchanged on rejection")
			assert.Equal(t, 1, m.Version)
		})
	}
}

func TestApply_NoBackwardTransitions(t *testing.T) {
	m := newMatch(models.StatusVisited)
	err := Apply(m, models.StatusSent, false, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidTransition))
}

func TestApply_AdminClose(t *testing.T) {
	now := time.Now().UTC()

	for _, status := range []string{
		models.StatusSuggested,
		models.StatusSent,
		models.StatusViewed,
		models.StatusVisited,
		models.StatusInterested,
		models.StatusRejected,
	} {
		t.Run(status, func(t *testing.T) {
			m := newMatch(status)
			require.NoError(t, Apply(m, models.StatusClosed, true, now))
			assert.Equal(t, models.StatusClosed, m.Status)
			require.NotNil(t, m.ClosedDate)
		})
	}
}

func TestApply_AdminCloseOnClosedMatch(t *testing.T) {
	m := newMatch(models.StatusClosed)
	err := Apply(m, models.StatusClosed, true, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidTransition))
}

func TestApply_AdminOverrideOnlyCloses(t *testing.T) {
	m := newMatch(models.StatusSuggested)
	err := Apply(m, models.StatusVisited, true, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestApply_UnknownStatus(t *testing.T) {
	m := newMatch(models.StatusSuggested)
	err := Apply(m, "archived", false, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestRecordReaction_Interested(t *testing.T) {
	m := newMatch(models.StatusVisited)
	require.NoError(t, RecordReaction(m, models.ReactionInterested, "", time.Now()))
	assert.Equal(t, models.StatusInterested, m.Status)
	assert.Equal(t, models.ReactionInterested, m.Reaction)
	assert.Equal(t, 2, m.Version)
}

func TestRecordReaction_NotInterestedRequiresReason(t *testing.T) {
	m := newMatch(models.StatusVisited)

	err := RecordReaction(m, models.ReactionNotInterested, "", time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Equal(t, models.StatusVisited, m.Status)

	err = RecordReaction(m, models.ReactionNotInterested, "not_a_reason", time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	require.NoError(t, RecordReaction(m, models.ReactionNotInterested, models.RejectTooExpensive, time.Now()))
	assert.Equal(t, models.StatusRejected, m.Status)
	assert.Equal(t, models.RejectTooExpensive, m.RejectionReason)
}

func TestRecordReaction_NeutralKeepsStatus(t *testing.T) {
	m := newMatch(models.StatusVisited)
	require.NoError(t, RecordReaction(m, models.ReactionNeutral, "", time.Now()))
	assert.Equal(t, models.StatusVisited, m.Status)
	assert.Equal(t, models.ReactionNeutral, m.Reaction)
}

func TestRecordReaction_OnlyFromVisited(t *testing.T) {
	for _, status := range []string{
		models.StatusSuggested,
		models.StatusSent,
		models.StatusViewed,
		models.StatusInterested,
		models.StatusRejected,
		models.StatusClosed,
	} {
		m := newMatch(status)
		err := RecordReaction(m, models.ReactionInterested, "", time.Now())
		require.Error(t, err, "status %s", status)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidTransition))
	}
}

func TestRecordReaction_UnknownReaction(t *testing.T) {
	m := newMatch(models.StatusVisited)
	err := RecordReaction(m, "ecstatic", "", time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}
