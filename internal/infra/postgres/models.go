package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"quizpulse-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID            string     `bun:"id,pk"`
	Text          string     `bun:"text,notnull"`
	Type          string     `bun:"type,notnull"`
	Category      string     `bun:"category,notnull"`
	Options       []string   `bun:"options,array"`
	CorrectAnswer *string    `bun:"correct_answer"`
	Points        int        `bun:"points,notnull"`
	TimesLaunched int        `bun:"times_launched,notnull"`
	LastLaunched  *time.Time `bun:"last_launched"`
	CreatedAt     time.Time  `bun:"created_at,notnull"`
}

func questionToRow(q domain.Question) *questionRow {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return &questionRow{
		ID:            q.ID,
		Text:          q.Text,
		Type:          string(q.Type),
		Category:      q.Category,
		Options:       options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
		TimesLaunched: q.TimesLaunched,
		LastLaunched:  q.LastLaunched,
		CreatedAt:     q.CreatedAt,
	}
}

func (r *questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:            r.ID,
		Text:          r.Text,
		Type:          domain.QuestionType(r.Type),
		Category:      r.Category,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Points:        r.Points,
		TimesLaunched: r.TimesLaunched,
		LastLaunched:  r.LastLaunched,
		CreatedAt:     r.CreatedAt,
	}
}

type participantRow struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID                string    `bun:"id,pk"`
	EmployeeID        string    `bun:"employee_id,notnull"`
	Name              string    `bun:"name,notnull"`
	ManagerGroup      string    `bun:"manager_group,notnull"`
	Points            int       `bun:"points,notnull"`
	QuestionsAnswered int       `bun:"questions_answered,notnull"`
	CorrectAnswers    int       `bun:"correct_answers,notnull"`
	Accuracy          int       `bun:"accuracy,notnull"`
	LastActive        time.Time `bun:"last_active,notnull"`
	Active            bool      `bun:"active,notnull"`
	CreatedAt         time.Time `bun:"created_at,notnull"`

	Badges []*participantBadgeRow `bun:"rel:has-many,join:id=participant_id"`
}

func participantToRow(p domain.Participant) *participantRow {
	return &participantRow{
		ID:                p.ID,
		EmployeeID:        p.EmployeeID,
		Name:              p.Name,
		ManagerGroup:      p.ManagerGroup,
		Points:            p.Points,
		QuestionsAnswered: p.QuestionsAnswered,
		CorrectAnswers:    p.CorrectAnswers,
		Accuracy:          p.Accuracy,
		LastActive:        p.LastActive,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
	}
}

func (r *participantRow) toDomain() domain.Participant {
	p := domain.Participant{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Name:              r.Name,
		ManagerGroup:      r.ManagerGroup,
		Points:            r.Points,
		QuestionsAnswered: r.QuestionsAnswered,
		CorrectAnswers:    r.CorrectAnswers,
		Accuracy:          r.Accuracy,
		LastActive:        r.LastActive,
		Active:            r.Active,
		CreatedAt:         r.CreatedAt,
	}
	for _, b := range r.Badges {
		p.Badges = append(p.Badges, domain.EarnedBadge{BadgeID: b.BadgeID, EarnedAt: b.EarnedAt})
	}
	return p
}

type participantBadgeRow struct {
	bun.BaseModel `bun:"table:participant_badges"`

	ParticipantID string    `bun:"participant_id,pk"`
	BadgeID       string    `bun:"badge_id,pk"`
	EarnedAt      time.Time `bun:"earned_at,notnull"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers"`

	ID            string    `bun:"id,pk"`
	ParticipantID string    `bun:"participant_id,notnull"`
	QuestionID    string    `bun:"question_id,notnull"`
	Text          string    `bun:"text,notnull"`
	LatencyMs     *int64    `bun:"latency_ms"`
	IsCorrect     *bool     `bun:"is_correct"`
	PointsEarned  int       `bun:"points_earned,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func answerToRow(a domain.Answer) *answerRow {
	return &answerRow{
		ID:            a.ID,
		ParticipantID: a.ParticipantID,
		QuestionID:    a.QuestionID,
		Text:          a.Text,
		LatencyMs:     a.LatencyMs,
		IsCorrect:     a.IsCorrect,
		PointsEarned:  a.PointsEarned,
		CreatedAt:     a.CreatedAt,
	}
}

func (r *answerRow) toDomain() domain.Answer {
	return domain.Answer{
		ID:            r.ID,
		ParticipantID: r.ParticipantID,
		QuestionID:    r.QuestionID,
		Text:          r.Text,
		LatencyMs:     r.LatencyMs,
		IsCorrect:     r.IsCorrect,
		PointsEarned:  r.PointsEarned,
		CreatedAt:     r.CreatedAt,
	}
}

type badgeRow struct {
	bun.BaseModel `bun:"table:badges"`

	ID          string          `bun:"id,pk"`
	Name        string          `bun:"name,notnull"`
	Description string          `bun:"description,notnull"`
	Icon        string          `bun:"icon,notnull"`
	Criteria    domain.Criteria `bun:"criteria,type:jsonb"`
	CreatedAt   time.Time       `bun:"created_at,notnull"`
}

func (r *badgeRow) toDomain() domain.Badge {
	return domain.Badge{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Criteria:    r.Criteria,
		CreatedAt:   r.CreatedAt,
	}
}

type labelRow struct {
	bun.BaseModel `bun:"table:labels"`

	ID        string    `bun:"id,pk"`
	Kind      string    `bun:"kind,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func (r *labelRow) toDomain() domain.Label {
	return domain.Label{ID: r.ID, Kind: domain.LabelKind(r.Kind), Name: r.Name, CreatedAt: r.CreatedAt}
}

type sessionRow struct {
	bun.BaseModel `bun:"table:quiz_session"`

	ID                int        `bun:"id,pk"`
	ActiveQuestionID  *string    `bun:"active_question_id"`
	QuestionStartedAt *time.Time `bun:"question_started_at"`
	ClearAllTriggered bool       `bun:"clear_all_triggered,notnull"`
	UpdatedAt         time.Time  `bun:"updated_at,notnull"`
}
