package app

import (
	"context"
	"time"

	"quizpulse-service/internal/domain"
)

// Clock supplies "now"; tests swap it for deterministic timestamps.
type Clock func() time.Time

// QuestionStore persists questions.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q domain.Question) error
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	ListQuestions(ctx context.Context, category string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	// MarkLaunched atomically increments the launch counter and stamps the launch time.
	MarkLaunched(ctx context.Context, id string, at time.Time) (domain.Question, error)
	CountQuestions(ctx context.Context) (int, error)
}

// QuestionReader serves the scoring hot path, usually through a cache.
type QuestionReader interface {
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	Invalidate(ctx context.Context, id string) error
}

// ParticipantStore persists participants and their aggregate stats.
type ParticipantStore interface {
	// UpsertParticipant creates the participant on first login by employee ID, or
	// refreshes last-active and the active flag of the existing record.
	UpsertParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error)
	GetParticipant(ctx context.Context, id string) (domain.Participant, error)
	ListParticipants(ctx context.Context, managerGroup string) ([]domain.Participant, error)
	// IncrementStats applies delta with atomic increments and recomputes accuracy.
	IncrementStats(ctx context.Context, id string, delta domain.StatDelta, at time.Time) (domain.Participant, error)
	ResetPoints(ctx context.Context) (int, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	// AwardBadge inserts with set semantics and reports whether a new entry was added.
	AwardBadge(ctx context.Context, id, badgeID string, at time.Time) (bool, error)
	DeleteAllParticipants(ctx context.Context) (int, error)
}

// AnswerFilter narrows ListAnswers; empty fields match everything.
type AnswerFilter struct {
	ParticipantID string
	QuestionID    string
}

// AnswerStore owns the Answer lifecycle.
type AnswerStore interface {
	// InsertAnswer must enforce (participant, question) uniqueness atomically and
	// return domain.ErrDuplicateSubmission on conflict.
	InsertAnswer(ctx context.Context, a domain.Answer) error
	DeleteAnswer(ctx context.Context, id string) error
	HasAnswered(ctx context.Context, participantID, questionID string) (bool, error)
	ListAnswers(ctx context.Context, filter AnswerFilter) ([]domain.Answer, error)
	DeleteAllAnswers(ctx context.Context) (int, error)
}

// BadgeStore holds the static badge catalog.
type BadgeStore interface {
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	GetBadge(ctx context.Context, id string) (domain.Badge, error)
	// SeedBadges inserts badges whose name is not present yet.
	SeedBadges(ctx context.Context, badges []domain.Badge) (int, error)
}

// SessionStore holds the singleton session record.
type SessionStore interface {
	GetSession(ctx context.Context) (domain.Session, error)
	// SetActiveQuestion points the session at questionID; an empty ID ends the question.
	SetActiveQuestion(ctx context.Context, questionID string, at time.Time) error
	SetClearAll(ctx context.Context, triggered bool, at time.Time) error
}

// LabelStore persists manager groups and categories.
type LabelStore interface {
	ListLabels(ctx context.Context, kind domain.LabelKind) ([]domain.Label, error)
	CreateLabel(ctx context.Context, l domain.Label) error
	RenameLabel(ctx context.Context, kind domain.LabelKind, id, name string) (domain.Label, error)
	DeleteLabel(ctx context.Context, kind domain.LabelKind, id string) error
	GetLabel(ctx context.Context, kind domain.LabelKind, id string) (domain.Label, error)
}

// BadgeJob is the unit of asynchronous badge work.
type BadgeJob struct {
	Kind          JobKind              `json:"kind"`
	ParticipantID string               `json:"participantId,omitempty"`
	SpeedBonus    bool                 `json:"speedBonus,omitempty"`
	Ranked        []domain.RankedEntry `json:"ranked,omitempty"`
}

type JobKind string

const (
	JobAnswer JobKind = "answer"
	JobRanks  JobKind = "ranks"
)

// JobHandler executes badge jobs.
type JobHandler interface {
	Handle(ctx context.Context, job BadgeJob) error
}

// BadgeDispatcher hands a job off without waiting for it. Implementations must
// not block the caller and must contain handler failures.
type BadgeDispatcher interface {
	Dispatch(ctx context.Context, job BadgeJob)
}
