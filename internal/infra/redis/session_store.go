package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizpulse-service/internal/domain"
)

const sessionKey = "quiz:session"

// SessionStore keeps the singleton session in one Redis hash so every instance
// sees the same active question and clear-all flag.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) GetSession(ctx context.Context) (domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	out := domain.Session{
		ActiveQuestionID:  fields["active_question"],
		ClearAllTriggered: fields["clear_all"] == "1",
	}
	if raw := fields["started_at"]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			out.QuestionStartedAt = &t
		}
	}
	if raw := fields["updated_at"]; raw != "" {
		out.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return out, nil
}

func (s *SessionStore) SetActiveQuestion(ctx context.Context, questionID string, at time.Time) error {
	started := ""
	if questionID != "" {
		started = at.UTC().Format(time.RFC3339Nano)
	}
	err := s.client.HSet(ctx, sessionKey,
		"active_question", questionID,
		"started_at", started,
		"updated_at", at.UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("set active question: %w", err)
	}
	return nil
}

func (s *SessionStore) SetClearAll(ctx context.Context, triggered bool, at time.Time) error {
	flag := "0"
	if triggered {
		flag = "1"
	}
	err := s.client.HSet(ctx, sessionKey, "clear_all", flag, "updated_at", at.UTC().Format(time.RFC3339Nano)).Err()
	if err != nil {
		return fmt.Errorf("set clear-all: %w", err)
	}
	return nil
}
