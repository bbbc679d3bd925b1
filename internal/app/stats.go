package app

import (
	"context"
	"fmt"

	"quizpulse-service/internal/domain"
)

// StatAggregator maintains each participant's running totals.
type StatAggregator struct {
	participants ParticipantStore
	now          Clock
}

func NewStatAggregator(participants ParticipantStore, now Clock) *StatAggregator {
	return &StatAggregator{participants: participants, now: now}
}

// ApplyAnswer folds one accepted answer into the participant's stats. It is not
// idempotent; the answer uniqueness constraint guarantees a single call per answer.
func (a *StatAggregator) ApplyAnswer(ctx context.Context, participantID string, isCorrect bool, pointsEarned int) (domain.Participant, error) {
	if pointsEarned < 0 {
		return domain.Participant{}, domain.Invalid("pointsEarned", "must not be negative")
	}
	p, err := a.participants.IncrementStats(ctx, participantID, domain.StatDelta{
		Correct: isCorrect,
		Points:  pointsEarned,
	}, a.now())
	if err != nil {
		return domain.Participant{}, fmt.Errorf("apply answer stats: %w", err)
	}
	return p, nil
}

// ResetPoints zeroes every participant's points, leaving other fields alone.
func (a *StatAggregator) ResetPoints(ctx context.Context) (int, error) {
	n, err := a.participants.ResetPoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset points: %w", err)
	}
	return n, nil
}
