package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizpulse-service/internal/domain"
)

// QuestionInput is the admin-supplied body for create and edit.
type QuestionInput struct {
	Text          string              `json:"text" validate:"required"`
	Type          domain.QuestionType `json:"type" validate:"required,oneof=MCQ True/False Poll WordCloud"`
	Category      string              `json:"category"`
	Options       []string            `json:"options" validate:"dive,required"`
	CorrectAnswer *string             `json:"correctAnswer"`
	Points        int                 `json:"points" validate:"gte=0"`
}

func (in QuestionInput) validate() error {
	if err := check(in); err != nil {
		return err
	}
	var errs domain.ValidationErrors
	hasCorrect := in.CorrectAnswer != nil && strings.TrimSpace(*in.CorrectAnswer) != ""
	switch in.Type {
	case domain.QuestionMCQ:
		if len(in.Options) < 2 {
			errs = append(errs, domain.FieldError{Field: "options", Message: "must have at least 2 items"})
		}
		if !hasCorrect {
			errs = append(errs, domain.FieldError{Field: "correctAnswer", Message: "is required"})
		} else if !containsFold(in.Options, *in.CorrectAnswer) {
			errs = append(errs, domain.FieldError{Field: "correctAnswer", Message: "must match one of the options"})
		}
	case domain.QuestionTrueFalse:
		if !hasCorrect || !containsFold([]string{"true", "false"}, *in.CorrectAnswer) {
			errs = append(errs, domain.FieldError{Field: "correctAnswer", Message: "must be True or False"})
		}
	default:
		if hasCorrect {
			errs = append(errs, domain.FieldError{Field: "correctAnswer", Message: "is not allowed for " + string(in.Type)})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *QuizService) applyInput(q *domain.Question, in QuestionInput) {
	q.Text = strings.TrimSpace(in.Text)
	q.Type = in.Type
	q.Category = strings.TrimSpace(in.Category)
	if q.Category == "" {
		q.Category = "General"
	}
	q.Options = append([]string(nil), in.Options...)
	if in.Type == domain.QuestionTrueFalse && len(q.Options) == 0 {
		q.Options = []string{"True", "False"}
	}
	q.CorrectAnswer = nil
	if in.Type.Graded() {
		c := strings.TrimSpace(*in.CorrectAnswer)
		q.CorrectAnswer = &c
	}
	q.Points = in.Points
	if q.Points == 0 {
		q.Points = s.defaultPoints
	}
}

// CreateQuestion adds a question to the bank.
func (s *QuizService) CreateQuestion(ctx context.Context, in QuestionInput) (domain.Question, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return domain.Question{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Question{}, err
	}
	q := domain.Question{ID: uuid.NewString(), CreatedAt: s.now()}
	s.applyInput(&q, in)
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// UpdateQuestion replaces the editable fields of a question.
func (s *QuizService) UpdateQuestion(ctx context.Context, id string, in QuestionInput) (domain.Question, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return domain.Question{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Question{}, err
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	s.applyInput(&q, in)
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	s.invalidate(ctx, id)
	return q, nil
}

// DeleteQuestion removes a question unless it is currently active.
func (s *QuizService) DeleteQuestion(ctx context.Context, id string) error {
	if err := domain.RequireAdmin(ctx); err != nil {
		return err
	}
	if _, err := s.questions.GetQuestion(ctx, id); err != nil {
		return err
	}
	session, err := s.session.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session.ActiveQuestionID == id {
		return domain.ErrQuestionActive
	}
	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *QuizService) Question(ctx context.Context, id string) (domain.Question, error) {
	return s.questions.GetQuestion(ctx, id)
}

// Questions lists the bank, optionally restricted to a category.
func (s *QuizService) Questions(ctx context.Context, category string) ([]domain.Question, error) {
	return s.questions.ListQuestions(ctx, category)
}

func (s *QuizService) invalidate(ctx context.Context, id string) {
	if err := s.questionView.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "question cache invalidation failed", "question_id", id, "error", err)
	}
}

// Session returns the singleton session with the active question resolved.
func (s *QuizService) Session(ctx context.Context) (domain.Session, error) {
	session, err := s.session.GetSession(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if session.ActiveQuestionID != "" {
		q, err := s.questions.GetQuestion(ctx, session.ActiveQuestionID)
		switch {
		case err == nil:
			session.ActiveQuestion = &q
		case !errors.Is(err, domain.ErrQuestionNotFound):
			return domain.Session{}, err
		}
	}
	return session, nil
}

// StartQuestion makes id the active question and records the launch.
func (s *QuizService) StartQuestion(ctx context.Context, id string) (domain.Session, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return domain.Session{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Session{}, domain.Invalid("questionId", "is required")
	}
	now := s.now()
	if _, err := s.questions.MarkLaunched(ctx, id, now); err != nil {
		return domain.Session{}, err
	}
	if err := s.session.SetActiveQuestion(ctx, id, now); err != nil {
		return domain.Session{}, fmt.Errorf("start question: %w", err)
	}
	s.logger.InfoContext(ctx, "question started", "question_id", id)
	return s.Session(ctx)
}

// EndQuestion clears the active question pointer.
func (s *QuizService) EndQuestion(ctx context.Context) error {
	if err := domain.RequireAdmin(ctx); err != nil {
		return err
	}
	if err := s.session.SetActiveQuestion(ctx, "", s.now()); err != nil {
		return fmt.Errorf("end question: %w", err)
	}
	return nil
}

// ClearResult reports what a clear operation removed.
type ClearResult struct {
	AnswersDeleted      int `json:"deletedCount"`
	ParticipantsDeleted int `json:"participantsDeleted"`
	PointsReset         int `json:"pointsReset"`
}

// ClearResponses deletes every answer and zeroes all participants' points,
// keeping identities, counters and badges.
func (s *QuizService) ClearResponses(ctx context.Context) (ClearResult, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return ClearResult{}, err
	}
	deleted, err := s.answers.DeleteAllAnswers(ctx)
	if err != nil {
		return ClearResult{}, fmt.Errorf("delete answers: %w", err)
	}
	reset, err := s.stats.ResetPoints(ctx)
	if err != nil {
		return ClearResult{AnswersDeleted: deleted}, err
	}
	s.logger.InfoContext(ctx, "responses cleared", "answers_deleted", deleted, "participants_reset", reset)
	return ClearResult{AnswersDeleted: deleted, PointsReset: reset}, nil
}

// ClearAll raises the clear-all flag so polling clients log out, holds it long
// enough for them to notice, wipes answers and participants, then lowers it.
func (s *QuizService) ClearAll(ctx context.Context) (ClearResult, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return ClearResult{}, err
	}
	if err := s.session.SetClearAll(ctx, true, s.now()); err != nil {
		return ClearResult{}, fmt.Errorf("raise clear-all flag: %w", err)
	}
	defer func() {
		if err := s.session.SetClearAll(context.WithoutCancel(ctx), false, s.now()); err != nil {
			s.logger.ErrorContext(ctx, "lower clear-all flag failed", "error", err)
		}
	}()

	if err := s.sleep(ctx, s.clearAllHold); err != nil {
		return ClearResult{}, err
	}

	var res ClearResult
	var err error
	if res.AnswersDeleted, err = s.answers.DeleteAllAnswers(ctx); err != nil {
		return res, fmt.Errorf("delete answers: %w", err)
	}
	if res.ParticipantsDeleted, err = s.participants.DeleteAllParticipants(ctx); err != nil {
		return res, fmt.Errorf("delete participants: %w", err)
	}
	s.logger.InfoContext(ctx, "all data cleared", "answers_deleted", res.AnswersDeleted, "participants_deleted", res.ParticipantsDeleted)
	return res, nil
}

func containsFold(values []string, v string) bool {
	v = normalize(v)
	for _, candidate := range values {
		if normalize(candidate) == v {
			return true
		}
	}
	return false
}
