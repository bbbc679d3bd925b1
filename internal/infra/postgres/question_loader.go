package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizpulse-service/internal/domain"
)

// QuestionLoader reads questions straight off a pgx pool for the cache layers.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestion(ctx context.Context, id string) (domain.Question, error) {
	var (
		q        domain.Question
		kind     string
		options  []string
		launched int
	)
	err := l.pool.QueryRow(ctx,
		`SELECT id, text, type, category, options, correct_answer, points, times_launched, last_launched, created_at
		 FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.Text, &kind, &q.Category, &options, &q.CorrectAnswer, &q.Points, &launched, &q.LastLaunched, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	q.Type = domain.QuestionType(kind)
	q.Options = options
	q.TimesLaunched = launched
	return q, nil
}
