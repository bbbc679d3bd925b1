package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quizpulse-service/internal/domain"
)

// SubmitInput is a participant's answer as received from a client.
type SubmitInput struct {
	ParticipantID string `json:"userId" validate:"required"`
	QuestionID    string `json:"questionId" validate:"required"`
	Answer        string `json:"answer" validate:"required"`
	LatencyMs     *int64 `json:"responseTime" validate:"omitempty,gte=0"`
}

// SubmitResult carries the stored answer and the participant's stats after it.
type SubmitResult struct {
	Answer      domain.Answer      `json:"response"`
	Participant domain.Participant `json:"user"`
}

// SubmitAnswer records an answer, scores it, and folds it into the participant's
// stats. Duplicate submissions fail with domain.ErrDuplicateSubmission and leave
// no trace. Badge evaluation is dispatched afterwards and never affects the result.
func (s *QuizService) SubmitAnswer(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	if err := check(in); err != nil {
		return SubmitResult{}, err
	}
	if _, err := s.participants.GetParticipant(ctx, in.ParticipantID); err != nil {
		return SubmitResult{}, err
	}
	// Fast path; InsertAnswer below is the authoritative check.
	answered, err := s.answers.HasAnswered(ctx, in.ParticipantID, in.QuestionID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("check previous answer: %w", err)
	}
	if answered {
		return SubmitResult{}, domain.ErrDuplicateSubmission
	}

	question, err := s.questionView.GetQuestion(ctx, in.QuestionID)
	if err != nil {
		return SubmitResult{}, err
	}

	score := s.scorer.Score(question, in.Answer, in.LatencyMs)
	answer := domain.Answer{
		ID:            uuid.NewString(),
		ParticipantID: in.ParticipantID,
		QuestionID:    in.QuestionID,
		Text:          in.Answer,
		LatencyMs:     in.LatencyMs,
		IsCorrect:     score.IsCorrect(),
		PointsEarned:  score.Points,
		CreatedAt:     s.now(),
	}
	if err := s.answers.InsertAnswer(ctx, answer); err != nil {
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			return SubmitResult{}, err
		}
		return SubmitResult{}, fmt.Errorf("store answer: %w", err)
	}

	if !score.Graded {
		p, err := s.participants.GetParticipant(ctx, in.ParticipantID)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Answer: answer, Participant: p}, nil
	}

	p, err := s.stats.ApplyAnswer(ctx, in.ParticipantID, score.Correct, score.Points)
	if err != nil {
		// Roll the answer back so the log and the aggregates cannot diverge.
		if delErr := s.answers.DeleteAnswer(context.WithoutCancel(ctx), answer.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "rollback answer failed", "answer_id", answer.ID, "error", delErr)
		}
		return SubmitResult{}, err
	}

	s.dispatcher.Dispatch(ctx, BadgeJob{
		Kind:          JobAnswer,
		ParticipantID: in.ParticipantID,
		SpeedBonus:    score.SpeedBonus,
	})
	return SubmitResult{Answer: answer, Participant: p}, nil
}

// HasAnswered reports whether the participant already answered the question.
func (s *QuizService) HasAnswered(ctx context.Context, participantID, questionID string) (bool, error) {
	return s.answers.HasAnswered(ctx, participantID, questionID)
}

// AnswersForQuestion lists every answer recorded for a question.
func (s *QuizService) AnswersForQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	if _, err := s.questions.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answers.ListAnswers(ctx, AnswerFilter{QuestionID: questionID})
}
