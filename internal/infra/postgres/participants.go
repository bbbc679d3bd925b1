package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quizpulse-service/internal/domain"
)

func (s *Store) UpsertParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	row := participantToRow(p)
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (employee_id) DO UPDATE").
		Set("last_active = EXCLUDED.last_active").
		Set("active = TRUE").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("upsert participant: %w", err)
	}
	return s.GetParticipant(ctx, row.ID)
}

func (s *Store) GetParticipant(ctx context.Context, id string) (domain.Participant, error) {
	row := new(participantRow)
	err := s.db.NewSelect().
		Model(row).
		Relation("Badges", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("earned_at ASC")
		}).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return domain.Participant{}, notFound(err, domain.ErrParticipantNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) ListParticipants(ctx context.Context, managerGroup string) ([]domain.Participant, error) {
	var rows []participantRow
	q := s.db.NewSelect().
		Model(&rows).
		Relation("Badges", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("earned_at ASC")
		}).
		Order("p.employee_id ASC")
	if managerGroup != "" {
		q = q.Where("p.manager_group = ?", managerGroup)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]domain.Participant, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// IncrementStats bumps the counters in a single UPDATE so concurrent answers
// from one participant cannot lose increments.
func (s *Store) IncrementStats(ctx context.Context, id string, delta domain.StatDelta, at time.Time) (domain.Participant, error) {
	correct := 0
	if delta.Correct {
		correct = 1
	}
	res, err := s.db.NewUpdate().
		Model((*participantRow)(nil)).
		Set("questions_answered = questions_answered + 1").
		Set("correct_answers = correct_answers + ?", correct).
		Set("points = points + ?", delta.Points).
		Set("accuracy = ROUND((correct_answers + ?) * 100.0 / (questions_answered + 1))", correct).
		Set("last_active = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("increment stats: %w", err)
	}
	if err := affected(res, domain.ErrParticipantNotFound); err != nil {
		return domain.Participant{}, err
	}
	return s.GetParticipant(ctx, id)
}

func (s *Store) ResetPoints(ctx context.Context) (int, error) {
	res, err := s.db.NewUpdate().
		Model((*participantRow)(nil)).
		Set("points = 0").
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset points: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*participantRow)(nil)).
		Set("active = ?", active).
		Set("last_active = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return affected(res, domain.ErrParticipantNotFound)
}

// AwardBadge relies on the (participant_id, badge_id) primary key for set semantics.
func (s *Store) AwardBadge(ctx context.Context, id, badgeID string, at time.Time) (bool, error) {
	res, err := s.db.NewInsert().
		Model(&participantBadgeRow{ParticipantID: id, BadgeID: badgeID, EarnedAt: at}).
		On("CONFLICT (participant_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return false, domain.ErrParticipantNotFound
		}
		return false, fmt.Errorf("award badge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DeleteAllParticipants(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().Model((*participantRow)(nil)).Where("TRUE").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete participants: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
