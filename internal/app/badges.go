package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quizpulse-service/internal/domain"
)

// ReferenceBadges is the catalog seeded into a fresh store.
func ReferenceBadges() []domain.Badge {
	return []domain.Badge{
		{Name: "Rising Star", Description: "Answered your first question", Icon: "⭐",
			Criteria: domain.Criteria{Kind: domain.CriterionParticipation, Threshold: 1}},
		{Name: "Speed Demon", Description: "Answer correctly in under 5 seconds", Icon: "⚡",
			Criteria: domain.Criteria{Kind: domain.CriterionSpeed, Threshold: 5000}},
		{Name: "Perfect Score", Description: "Achieve 100% accuracy on 10+ questions", Icon: "💯",
			Criteria: domain.Criteria{Kind: domain.CriterionAccuracy, Threshold: 100, MinAnswered: 10}},
		{Name: "Accuracy Expert", Description: "Maintain 90%+ accuracy with 20+ questions answered", Icon: "🎯",
			Criteria: domain.Criteria{Kind: domain.CriterionAccuracy, Threshold: 90, MinAnswered: 20}},
		{Name: "Consistent Performer", Description: "Answer 5 questions", Icon: "🔥",
			Criteria: domain.Criteria{Kind: domain.CriterionParticipation, Threshold: 5}},
		{Name: "Quiz Master", Description: "Reach top 3 in the leaderboard", Icon: "👑",
			Criteria: domain.Criteria{Kind: domain.CriterionRank, Threshold: 3}},
		{Name: "Dedicated Learner", Description: "Answer 50+ questions", Icon: "📚",
			Criteria: domain.Criteria{Kind: domain.CriterionParticipation, Threshold: 50}},
		{Name: "Champion", Description: "Answer 100+ questions", Icon: "🏆",
			Criteria: domain.Criteria{Kind: domain.CriterionParticipation, Threshold: 100}},
	}
}

// BadgeEvaluator awards badges. Badges are never revoked, and the store's
// set-semantics insert keeps concurrent evaluations from duplicating entries.
type BadgeEvaluator struct {
	participants ParticipantStore
	badges       BadgeStore
	now          Clock
	logger       *slog.Logger
}

func NewBadgeEvaluator(participants ParticipantStore, badges BadgeStore, now Clock, logger *slog.Logger) *BadgeEvaluator {
	return &BadgeEvaluator{participants: participants, badges: badges, now: now, logger: logger}
}

// Evaluate checks the aggregate-driven criteria (participation, accuracy) for one
// participant and returns the badges newly awarded.
func (e *BadgeEvaluator) Evaluate(ctx context.Context, participantID string) ([]domain.Badge, error) {
	p, err := e.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	catalog, err := e.badges.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	var awarded []domain.Badge
	for _, b := range catalog {
		if p.HasBadge(b.ID) || !qualifies(b.Criteria, p) {
			continue
		}
		ok, err := e.award(ctx, p, b)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// AwardSpeed grants speed badges; the caller has already established that the
// submission met the scorer's bonus condition.
func (e *BadgeEvaluator) AwardSpeed(ctx context.Context, participantID string) ([]domain.Badge, error) {
	p, err := e.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	catalog, err := e.badges.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	var awarded []domain.Badge
	for _, b := range catalog {
		if b.Criteria.Kind != domain.CriterionSpeed || p.HasBadge(b.ID) {
			continue
		}
		ok, err := e.award(ctx, p, b)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// EvaluateRanks awards rank badges to the first Threshold positions of the
// ordered leaderboard, skipping entries without points. Ties at the cut-off do
// not widen it. Falling out of the top later does not remove the badge.
func (e *BadgeEvaluator) EvaluateRanks(ctx context.Context, ranked []domain.RankedEntry) (int, error) {
	catalog, err := e.badges.ListBadges(ctx)
	if err != nil {
		return 0, fmt.Errorf("list badges: %w", err)
	}
	var errs []error
	count := 0
	for _, b := range catalog {
		if b.Criteria.Kind != domain.CriterionRank {
			continue
		}
		for i, entry := range ranked {
			if i >= b.Criteria.Threshold {
				break
			}
			if entry.Rank > b.Criteria.Threshold || entry.QuestionsAnswered == 0 || entry.Points <= 0 {
				continue
			}
			ok, err := e.participants.AwardBadge(ctx, entry.ParticipantID, b.ID, e.now())
			if err != nil {
				errs = append(errs, fmt.Errorf("award %q to %s: %w", b.Name, entry.ParticipantID, err))
				continue
			}
			if ok {
				count++
				e.logger.InfoContext(ctx, "badge awarded", "badge", b.Name, "participant_id", entry.ParticipantID, "rank", entry.Rank)
			}
		}
	}
	return count, errors.Join(errs...)
}

// Handle runs one dispatched job.
func (e *BadgeEvaluator) Handle(ctx context.Context, job BadgeJob) error {
	switch job.Kind {
	case JobAnswer:
		if job.SpeedBonus {
			if _, err := e.AwardSpeed(ctx, job.ParticipantID); err != nil {
				return err
			}
		}
		_, err := e.Evaluate(ctx, job.ParticipantID)
		return err
	case JobRanks:
		_, err := e.EvaluateRanks(ctx, job.Ranked)
		return err
	default:
		return fmt.Errorf("unknown badge job kind %q", job.Kind)
	}
}

func (e *BadgeEvaluator) award(ctx context.Context, p domain.Participant, b domain.Badge) (bool, error) {
	ok, err := e.participants.AwardBadge(ctx, p.ID, b.ID, e.now())
	if err != nil {
		return false, fmt.Errorf("award %q: %w", b.Name, err)
	}
	if ok {
		e.logger.InfoContext(ctx, "badge awarded", "badge", b.Name, "participant_id", p.ID, "employee_id", p.EmployeeID)
	}
	return ok, nil
}

func qualifies(c domain.Criteria, p domain.Participant) bool {
	switch c.Kind {
	case domain.CriterionParticipation:
		return p.QuestionsAnswered >= c.Threshold
	case domain.CriterionAccuracy:
		return p.QuestionsAnswered > 0 && p.QuestionsAnswered >= c.MinAnswered && p.Accuracy >= c.Threshold
	default:
		// speed and rank have their own entry points; streak has no rule.
		return false
	}
}
