package memory

import (
	"context"
	"sync"
	"time"

	"quizpulse-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) GetSession(_ context.Context) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.session
	if out.QuestionStartedAt != nil {
		t := *out.QuestionStartedAt
		out.QuestionStartedAt = &t
	}
	return out, nil
}

func (s *SessionStore) SetActiveQuestion(_ context.Context, questionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ActiveQuestionID = questionID
	if questionID == "" {
		s.session.QuestionStartedAt = nil
	} else {
		s.session.QuestionStartedAt = &at
	}
	s.session.UpdatedAt = at
	return nil
}

func (s *SessionStore) SetClearAll(_ context.Context, triggered bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearAllTriggered = triggered
	s.session.UpdatedAt = at
	return nil
}
