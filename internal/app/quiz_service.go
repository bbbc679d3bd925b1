package app

import (
	"context"
	"log/slog"
	"time"

	"quizpulse-service/internal/domain"
)

// Deps wires the stores and collaborators the QuizService needs.
type Deps struct {
	Questions    QuestionStore
	QuestionView QuestionReader
	Participants ParticipantStore
	Answers      AnswerStore
	Badges       BadgeStore
	Session      SessionStore
	Labels       LabelStore
	Dispatcher   BadgeDispatcher
	Logger       *slog.Logger
	Clock        Clock
	Scoring      ScoringPolicy
	// DefaultPoints applies to new questions created without a point value.
	DefaultPoints int
	// ClearAllHold is how long the clear-all flag stays up before data is deleted.
	ClearAllHold time.Duration
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	questions    QuestionStore
	questionView QuestionReader
	participants ParticipantStore
	answers      AnswerStore
	badges       BadgeStore
	session      SessionStore
	labels       LabelStore
	dispatcher   BadgeDispatcher
	logger       *slog.Logger
	now          Clock
	sleep        func(ctx context.Context, d time.Duration) error

	scorer        Scorer
	stats         *StatAggregator
	evaluator     *BadgeEvaluator
	defaultPoints int
	clearAllHold  time.Duration
}

// MinClearAllHold lets clients polling every two seconds see the flag at least once.
const MinClearAllHold = 2 * time.Second

func NewQuizService(deps Deps) *QuizService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := deps.Scoring
	if policy.SpeedThresholdMs == 0 && policy.SpeedBonus == 0 {
		policy = DefaultScoringPolicy
	}
	points := deps.DefaultPoints
	if points <= 0 {
		points = 10
	}
	hold := deps.ClearAllHold
	switch {
	case hold <= 0:
		hold = 3 * time.Second
	case hold < MinClearAllHold:
		logger.Warn("clear-all hold raised to minimum", "configured", hold, "minimum", MinClearAllHold)
		hold = MinClearAllHold
	}
	view := deps.QuestionView
	if view == nil {
		view = uncachedQuestions{deps.Questions}
	}

	s := &QuizService{
		questions:     deps.Questions,
		questionView:  view,
		participants:  deps.Participants,
		answers:       deps.Answers,
		badges:        deps.Badges,
		session:       deps.Session,
		labels:        deps.Labels,
		logger:        logger,
		now:           now,
		sleep:         sleepContext,
		scorer:        NewScorer(policy),
		stats:         NewStatAggregator(deps.Participants, now),
		evaluator:     NewBadgeEvaluator(deps.Participants, deps.Badges, now, logger),
		defaultPoints: points,
		clearAllHold:  hold,
	}
	s.dispatcher = deps.Dispatcher
	if s.dispatcher == nil {
		s.dispatcher = NewAsyncDispatcher(s.evaluator, logger, 0)
	}
	return s
}

// Evaluator exposes the badge evaluator so transports can consume dispatched jobs.
func (s *QuizService) Evaluator() *BadgeEvaluator {
	return s.evaluator
}

// Stats exposes the stat aggregator.
func (s *QuizService) Stats() *StatAggregator {
	return s.stats
}

// Scorer exposes the scoring engine.
func (s *QuizService) Scorer() Scorer {
	return s.scorer
}

// SetSleep is test-only; it replaces the clear-all hold timer.
func (s *QuizService) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	s.sleep = fn
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type uncachedQuestions struct {
	store QuestionStore
}

func (u uncachedQuestions) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return u.store.GetQuestion(ctx, id)
}

func (u uncachedQuestions) Invalidate(context.Context, string) error { return nil }
