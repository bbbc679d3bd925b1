package postgres

import (
	"context"
	"fmt"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/domain"
)

// InsertAnswer leans on the unique (participant_id, question_id) index so two
// racing submissions cannot both land.
func (s *Store) InsertAnswer(ctx context.Context, a domain.Answer) error {
	if _, err := s.db.NewInsert().Model(answerToRow(a)).Exec(ctx); err != nil {
		switch pgCode(err) {
		case uniqueViolation:
			return domain.ErrDuplicateSubmission
		case foreignKeyViolation:
			return domain.ErrParticipantNotFound
		}
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *Store) DeleteAnswer(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*answerRow)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return nil
}

func (s *Store) HasAnswered(ctx context.Context, participantID, questionID string) (bool, error) {
	ok, err := s.db.NewSelect().
		Model((*answerRow)(nil)).
		Where("participant_id = ?", participantID).
		Where("question_id = ?", questionID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check answer: %w", err)
	}
	return ok, nil
}

func (s *Store) ListAnswers(ctx context.Context, filter app.AnswerFilter) ([]domain.Answer, error) {
	var rows []answerRow
	q := s.db.NewSelect().Model(&rows).Order("created_at ASC")
	if filter.ParticipantID != "" {
		q = q.Where("participant_id = ?", filter.ParticipantID)
	}
	if filter.QuestionID != "" {
		q = q.Where("question_id = ?", filter.QuestionID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := make([]domain.Answer, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) DeleteAllAnswers(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().Model((*answerRow)(nil)).Where("TRUE").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
