package domain

import (
	"math"
	"strings"
	"time"
)

// QuestionType enumerates the kinds of questions an admin can launch.
type QuestionType string

const (
	QuestionMCQ       QuestionType = "MCQ"
	QuestionTrueFalse QuestionType = "True/False"
	QuestionPoll      QuestionType = "Poll"
	QuestionWordCloud QuestionType = "WordCloud"
)

// Graded reports whether answers to this type carry correctness.
func (t QuestionType) Graded() bool {
	return t == QuestionMCQ || t == QuestionTrueFalse
}

// Question models a single launchable question.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Category      string       `json:"category"`
	Options       []string     `json:"options"`
	CorrectAnswer *string      `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"`
	TimesLaunched int          `json:"timesLaunched"`
	LastLaunched  *time.Time   `json:"lastLaunched,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// HasCorrectAnswer reports whether submissions can be scored against this question.
func (q Question) HasCorrectAnswer() bool {
	return q.CorrectAnswer != nil && strings.TrimSpace(*q.CorrectAnswer) != ""
}

// EarnedBadge is one entry of a participant's badge set.
type EarnedBadge struct {
	BadgeID  string    `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Participant is an end user identified by employee ID, with running stats.
type Participant struct {
	ID                string        `json:"id"`
	EmployeeID        string        `json:"employeeId"`
	Name              string        `json:"name"`
	ManagerGroup      string        `json:"reportingManager"`
	Points            int           `json:"points"`
	QuestionsAnswered int           `json:"totalQuestions"`
	CorrectAnswers    int           `json:"correctAnswers"`
	Accuracy          int           `json:"accuracy"`
	Badges            []EarnedBadge `json:"badges"`
	LastActive        time.Time     `json:"lastActive"`
	Active            bool          `json:"active"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// HasBadge reports whether badgeID is already in the participant's badge set.
func (p Participant) HasBadge(badgeID string) bool {
	for _, b := range p.Badges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// Accuracy returns round(correct/answered*100), or 0 when nothing was answered.
func Accuracy(correct, answered int) int {
	if answered <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(answered) * 100))
}

// StatDelta is the increment applied to a participant for one accepted answer.
type StatDelta struct {
	Correct bool
	Points  int
}

// Answer is one participant's immutable response to one question.
type Answer struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"userId"`
	QuestionID    string    `json:"questionId"`
	Text          string    `json:"answer"`
	LatencyMs     *int64    `json:"responseTime,omitempty"`
	IsCorrect     *bool     `json:"isCorrect,omitempty"`
	PointsEarned  int       `json:"pointsEarned"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TimedLatency returns the recorded latency when it is usable for averaging.
func (a Answer) TimedLatency() (int64, bool) {
	if a.LatencyMs == nil || *a.LatencyMs <= 0 {
		return 0, false
	}
	return *a.LatencyMs, true
}

// Graded reports whether the answer was scored for correctness.
func (a Answer) Graded() bool {
	return a.IsCorrect != nil
}

// CriterionKind names how a badge is earned.
type CriterionKind string

const (
	CriterionParticipation CriterionKind = "participation"
	CriterionAccuracy      CriterionKind = "accuracy"
	CriterionSpeed         CriterionKind = "speed"
	CriterionStreak        CriterionKind = "streak"
	CriterionRank          CriterionKind = "rank"
)

// Criteria describes the threshold a participant must cross. MinAnswered is the
// sample size some accuracy badges require on top of the threshold.
type Criteria struct {
	Kind        CriterionKind `json:"type"`
	Threshold   int           `json:"threshold"`
	MinAnswered int           `json:"minAnswered,omitempty"`
}

// Badge is static reference data.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Criteria    Criteria  `json:"criteria"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is the singleton active-question pointer.
type Session struct {
	ActiveQuestionID  string     `json:"activeQuestionId,omitempty"`
	QuestionStartedAt *time.Time `json:"currentQuestionStartTime,omitempty"`
	ClearAllTriggered bool       `json:"clearAllTriggered"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ActiveQuestion    *Question  `json:"activeQuestion,omitempty"`
}

// LabelKind distinguishes the admin-managed name lists.
type LabelKind string

const (
	LabelManager  LabelKind = "manager"
	LabelCategory LabelKind = "category"
)

// Label is a manager group or question category.
type Label struct {
	ID        string    `json:"id"`
	Kind      LabelKind `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByPoints    SortKey = "points"
	SortByAccuracy  SortKey = "accuracy"
	SortByQuestions SortKey = "questions"
)

// NoLatency marks participants without timed answers so they sort last on the tie-break.
const NoLatency int64 = math.MaxInt64

// BadgeView is a badge as shown on the leaderboard.
type BadgeView struct {
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earnedAt"`
}

// RankedEntry is one row of a computed leaderboard.
type RankedEntry struct {
	Rank              int         `json:"rank"`
	ParticipantID     string      `json:"id"`
	EmployeeID        string      `json:"employeeId"`
	Name              string      `json:"name"`
	ManagerGroup      string      `json:"reportingManager"`
	Points            int         `json:"points"`
	QuestionsAnswered int         `json:"totalQuestions"`
	CorrectAnswers    int         `json:"correctAnswers"`
	Accuracy          int         `json:"accuracy"`
	AvgLatencyMs      int64       `json:"avgResponseTime"`
	Badges            []BadgeView `json:"badges"`
}

// Dashboard summarizes overall activity.
type Dashboard struct {
	TotalParticipants  int     `json:"totalUsers"`
	TotalQuestions     int     `json:"totalQuestions"`
	TotalAnswers       int     `json:"totalResponses"`
	ActiveToday        int     `json:"activeToday"`
	AvgAccuracy        float64 `json:"avgAccuracy"`
	AvgResponseSeconds float64 `json:"avgResponseTime"`
}

// QuestionStats summarizes the answers received for one question.
type QuestionStats struct {
	Question       Question       `json:"question"`
	TotalAnswers   int            `json:"totalResponses"`
	CorrectAnswers int            `json:"correctResponses"`
	Accuracy       int            `json:"accuracy"`
	Distribution   map[string]int `json:"distribution"`
	Answers        []Answer       `json:"responses"`
}
