package app

import (
	"strings"

	"quizpulse-service/internal/domain"
)

// ScoringPolicy holds the speed-bonus parameters.
type ScoringPolicy struct {
	SpeedThresholdMs int64
	SpeedBonus       int
}

// DefaultScoringPolicy awards +5 for correct answers under five seconds.
var DefaultScoringPolicy = ScoringPolicy{SpeedThresholdMs: 5000, SpeedBonus: 5}

// Score is the outcome of grading one submission.
type Score struct {
	// Graded is false for question types without a correct answer.
	Graded     bool
	Correct    bool
	Points     int
	SpeedBonus bool
}

// IsCorrect returns the value stored on the Answer: nil when not graded.
func (s Score) IsCorrect() *bool {
	if !s.Graded {
		return nil
	}
	c := s.Correct
	return &c
}

// Scorer grades submissions. It has no side effects.
type Scorer struct {
	policy ScoringPolicy
}

func NewScorer(policy ScoringPolicy) Scorer {
	return Scorer{policy: policy}
}

// Score grades answer against q. latencyMs may be nil when the client did not report it.
func (s Scorer) Score(q domain.Question, answer string, latencyMs *int64) Score {
	if !q.HasCorrectAnswer() {
		return Score{}
	}
	correct := normalize(answer) == normalize(*q.CorrectAnswer)
	if !correct {
		return Score{Graded: true}
	}

	points := q.Points
	if points <= 0 {
		points = 1
	}
	bonus := s.qualifiesForSpeed(latencyMs)
	if bonus {
		points += s.policy.SpeedBonus
	}
	return Score{Graded: true, Correct: true, Points: points, SpeedBonus: bonus}
}

func (s Scorer) qualifiesForSpeed(latencyMs *int64) bool {
	return latencyMs != nil && *latencyMs > 0 && *latencyMs < s.policy.SpeedThresholdMs
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
