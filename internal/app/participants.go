package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"quizpulse-service/internal/domain"
)

// LoginInput identifies a participant by employee ID.
type LoginInput struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	Name         string `json:"name" validate:"required"`
	ManagerGroup string `json:"reportingManager" validate:"required"`
}

// Login returns the participant for in.EmployeeID, creating it on first login.
// Repeat logins return the same record with refreshed activity fields.
func (s *QuizService) Login(ctx context.Context, in LoginInput) (domain.Participant, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Name = strings.TrimSpace(in.Name)
	in.ManagerGroup = strings.TrimSpace(in.ManagerGroup)
	if err := check(in); err != nil {
		return domain.Participant{}, err
	}
	now := s.now()
	return s.participants.UpsertParticipant(ctx, domain.Participant{
		ID:           uuid.NewString(),
		EmployeeID:   in.EmployeeID,
		Name:         in.Name,
		ManagerGroup: in.ManagerGroup,
		LastActive:   now,
		Active:       true,
		CreatedAt:    now,
	})
}

// Logout marks the participant inactive.
func (s *QuizService) Logout(ctx context.Context, participantID string) error {
	return s.participants.SetActive(ctx, participantID, false, s.now())
}

func (s *QuizService) Participant(ctx context.Context, id string) (domain.Participant, error) {
	return s.participants.GetParticipant(ctx, id)
}

// ParticipantsByManager lists the participants reporting to a manager group.
func (s *QuizService) ParticipantsByManager(ctx context.Context, managerID string) ([]domain.Participant, error) {
	m, err := s.labels.GetLabel(ctx, domain.LabelManager, managerID)
	if err != nil {
		return nil, err
	}
	return s.participants.ListParticipants(ctx, m.Name)
}

// ParticipantBadges resolves a participant's badge set against the catalog.
func (s *QuizService) ParticipantBadges(ctx context.Context, participantID string) ([]domain.BadgeView, error) {
	p, err := s.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	return badgeViews(p.Badges, indexBadges(catalog)), nil
}

// ListBadges returns the badge catalog.
func (s *QuizService) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	return s.badges.ListBadges(ctx)
}

func indexBadges(catalog []domain.Badge) map[string]domain.Badge {
	out := make(map[string]domain.Badge, len(catalog))
	for _, b := range catalog {
		out[b.ID] = b
	}
	return out
}

func badgeViews(earned []domain.EarnedBadge, catalog map[string]domain.Badge) []domain.BadgeView {
	views := make([]domain.BadgeView, 0, len(earned))
	for _, e := range earned {
		b, ok := catalog[e.BadgeID]
		if !ok {
			views = append(views, domain.BadgeView{Name: "Unknown", Icon: "🏆", EarnedAt: e.EarnedAt})
			continue
		}
		views = append(views, domain.BadgeView{Name: b.Name, Icon: b.Icon, EarnedAt: e.EarnedAt})
	}
	return views
}
