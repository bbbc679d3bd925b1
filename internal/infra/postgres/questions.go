package postgres

import (
	"context"
	"fmt"
	"time"

	"quizpulse-service/internal/domain"
)

func (s *Store) CreateQuestion(ctx context.Context, q domain.Question) error {
	if _, err := s.db.NewInsert().Model(questionToRow(q)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	row := new(questionRow)
	if err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		return domain.Question{}, notFound(err, domain.ErrQuestionNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) ListQuestions(ctx context.Context, category string) ([]domain.Question, error) {
	var rows []questionRow
	q := s.db.NewSelect().Model(&rows).Order("created_at ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) error {
	res, err := s.db.NewUpdate().
		Model(questionToRow(q)).
		Column("text", "type", "category", "options", "correct_answer", "points").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return affected(res, domain.ErrQuestionNotFound)
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*questionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return affected(res, domain.ErrQuestionNotFound)
}

func (s *Store) MarkLaunched(ctx context.Context, id string, at time.Time) (domain.Question, error) {
	row := new(questionRow)
	err := s.db.NewUpdate().
		Model(row).
		Set("times_launched = times_launched + 1").
		Set("last_launched = ?", at).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return domain.Question{}, notFound(err, domain.ErrQuestionNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*questionRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
