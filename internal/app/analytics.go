package app

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"quizpulse-service/internal/domain"
)

// Dashboard aggregates headline numbers for the admin view.
func (s *QuizService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var (
		participants []domain.Participant
		answers      []domain.Answer
		questions    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		participants, err = s.participants.ListParticipants(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		answers, err = s.answers.ListAnswers(gctx, AnswerFilter{})
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.questions.CountQuestions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := domain.Dashboard{
		TotalParticipants: len(participants),
		TotalQuestions:    questions,
		TotalAnswers:      len(answers),
	}
	accuracySum := 0
	for _, p := range participants {
		accuracySum += p.Accuracy
		if !p.LastActive.Before(midnight) {
			d.ActiveToday++
		}
	}
	if len(participants) > 0 {
		d.AvgAccuracy = float64(accuracySum) / float64(len(participants))
	}
	var latencySum, timed int64
	for _, a := range answers {
		if ms, ok := a.TimedLatency(); ok {
			latencySum += ms
			timed++
		}
	}
	if timed > 0 {
		d.AvgResponseSeconds = float64(latencySum) / float64(timed) / 1000
	}
	return d, nil
}

// QuestionStats summarizes the answers recorded for one question.
func (s *QuizService) QuestionStats(ctx context.Context, questionID string) (domain.QuestionStats, error) {
	q, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.QuestionStats{}, err
	}
	answers, err := s.answers.ListAnswers(ctx, AnswerFilter{QuestionID: questionID})
	if err != nil {
		return domain.QuestionStats{}, err
	}
	st := domain.QuestionStats{
		Question:     q,
		TotalAnswers: len(answers),
		Distribution: make(map[string]int),
		Answers:      answers,
	}
	for _, a := range answers {
		st.Distribution[a.Text]++
		if a.IsCorrect != nil && *a.IsCorrect {
			st.CorrectAnswers++
		}
	}
	if st.TotalAnswers > 0 {
		st.Accuracy = int(math.Round(float64(st.CorrectAnswers) / float64(st.TotalAnswers) * 100))
	}
	return st, nil
}
