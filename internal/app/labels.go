package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizpulse-service/internal/domain"
)

// DefaultCategories are created when the category list is empty.
var DefaultCategories = []string{
	"General",
	"Sales",
	"Marketing",
	"Leadership",
	"Technology",
	"Product Knowledge",
	"Customer Service",
	"HR & Compliance",
}

func validKind(kind domain.LabelKind) error {
	if kind != domain.LabelManager && kind != domain.LabelCategory {
		return domain.Invalid("kind", "must be manager or category")
	}
	return nil
}

func (s *QuizService) Labels(ctx context.Context, kind domain.LabelKind) ([]domain.Label, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	return s.labels.ListLabels(ctx, kind)
}

// CreateLabel adds a manager group or category; names are unique per kind.
func (s *QuizService) CreateLabel(ctx context.Context, kind domain.LabelKind, name string) (domain.Label, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return domain.Label{}, err
	}
	if err := validKind(kind); err != nil {
		return domain.Label{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Label{}, domain.Invalid("name", "is required")
	}
	l := domain.Label{ID: uuid.NewString(), Kind: kind, Name: name, CreatedAt: s.now()}
	if err := s.labels.CreateLabel(ctx, l); err != nil {
		return domain.Label{}, err
	}
	return l, nil
}

func (s *QuizService) RenameLabel(ctx context.Context, kind domain.LabelKind, id, name string) (domain.Label, error) {
	if err := domain.RequireAdmin(ctx); err != nil {
		return domain.Label{}, err
	}
	if err := validKind(kind); err != nil {
		return domain.Label{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Label{}, domain.Invalid("name", "is required")
	}
	return s.labels.RenameLabel(ctx, kind, id, name)
}

func (s *QuizService) DeleteLabel(ctx context.Context, kind domain.LabelKind, id string) error {
	if err := domain.RequireAdmin(ctx); err != nil {
		return err
	}
	if err := validKind(kind); err != nil {
		return err
	}
	return s.labels.DeleteLabel(ctx, kind, id)
}

// SeedReferenceData installs the badge catalog and default categories. It is
// safe to run repeatedly.
func (s *QuizService) SeedReferenceData(ctx context.Context) error {
	now := s.now()
	badges := ReferenceBadges()
	for i := range badges {
		badges[i].ID = uuid.NewString()
		badges[i].CreatedAt = now
	}
	added, err := s.badges.SeedBadges(ctx, badges)
	if err != nil {
		return fmt.Errorf("seed badges: %w", err)
	}

	existing, err := s.labels.ListLabels(ctx, domain.LabelCategory)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	categories := 0
	if len(existing) == 0 {
		for _, name := range DefaultCategories {
			err := s.labels.CreateLabel(ctx, domain.Label{ID: uuid.NewString(), Kind: domain.LabelCategory, Name: name, CreatedAt: now})
			if err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
			categories++
		}
	}
	s.logger.InfoContext(ctx, "reference data seeded", "badges_added", added, "categories_added", categories)
	return nil
}
