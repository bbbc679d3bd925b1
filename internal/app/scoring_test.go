package app_test

import (
	"testing"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/domain"
)

func TestScorerGradesCaseAndWhitespaceInsensitively(t *testing.T) {
	scorer := app.NewScorer(app.DefaultScoringPolicy)
	q := domain.Question{Type: domain.QuestionMCQ, Options: []string{"Paris", "Rome"}, CorrectAnswer: ptr("Paris"), Points: 10}

	for _, answer := range []string{"Paris", "paris", "  PARIS "} {
		s := scorer.Score(q, answer, nil)
		if !s.Graded || !s.Correct || s.Points != 10 {
			t.Fatalf("answer %q: expected 10 points, got %+v", answer, s)
		}
	}
	if s := scorer.Score(q, "Rome", ms(100)); s.Correct || s.Points != 0 || s.SpeedBonus {
		t.Fatalf("incorrect answer must earn nothing, got %+v", s)
	}
}

func TestScorerSpeedBonus(t *testing.T) {
	scorer := app.NewScorer(app.DefaultScoringPolicy)
	q := domain.Question{Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("True"), Points: 10}

	cases := []struct {
		name    string
		latency *int64
		points  int
		bonus   bool
	}{
		{"fast", ms(4000), 15, true},
		{"slow", ms(6000), 10, false},
		{"at threshold", ms(5000), 10, false},
		{"missing", nil, 10, false},
		{"zero", ms(0), 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := scorer.Score(q, "true", tc.latency)
			if s.Points != tc.points || s.SpeedBonus != tc.bonus {
				t.Fatalf("expected %d points bonus=%v, got %+v", tc.points, tc.bonus, s)
			}
		})
	}
}

func TestScorerUngradedAndMinimumPoints(t *testing.T) {
	scorer := app.NewScorer(app.DefaultScoringPolicy)

	poll := domain.Question{Type: domain.QuestionPoll, Options: []string{"a", "b"}, Points: 10}
	s := scorer.Score(poll, "a", ms(100))
	if s.Graded || s.IsCorrect() != nil || s.Points != 0 {
		t.Fatalf("poll must be ungraded, got %+v", s)
	}

	zero := domain.Question{Type: domain.QuestionMCQ, CorrectAnswer: ptr("a"), Points: 0}
	if s := scorer.Score(zero, "a", nil); s.Points != 1 {
		t.Fatalf("expected minimum of 1 point, got %d", s.Points)
	}
}
