package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quizpulse-service/internal/domain"
)

const sessionID = 1

// SessionStore keeps the singleton session as row id=1 of quiz_session. It is
// used when Redis is not configured.
type SessionStore struct {
	db *bun.DB
}

func NewSessionStore(db *bun.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) GetSession(ctx context.Context) (domain.Session, error) {
	row := new(sessionRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", sessionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	out := domain.Session{
		QuestionStartedAt: row.QuestionStartedAt,
		ClearAllTriggered: row.ClearAllTriggered,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.ActiveQuestionID != nil {
		out.ActiveQuestionID = *row.ActiveQuestionID
	}
	return out, nil
}

func (s *SessionStore) SetActiveQuestion(ctx context.Context, questionID string, at time.Time) error {
	row := &sessionRow{ID: sessionID, UpdatedAt: at}
	if questionID != "" {
		row.ActiveQuestionID = &questionID
		row.QuestionStartedAt = &at
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("active_question_id = EXCLUDED.active_question_id").
		Set("question_started_at = EXCLUDED.question_started_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set active question: %w", err)
	}
	return nil
}

func (s *SessionStore) SetClearAll(ctx context.Context, triggered bool, at time.Time) error {
	_, err := s.db.NewInsert().
		Model(&sessionRow{ID: sessionID, ClearAllTriggered: triggered, UpdatedAt: at}).
		On("CONFLICT (id) DO UPDATE").
		Set("clear_all_triggered = EXCLUDED.clear_all_triggered").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set clear-all: %w", err)
	}
	return nil
}
