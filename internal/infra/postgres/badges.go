package postgres

import (
	"context"
	"fmt"

	"quizpulse-service/internal/domain"
)

func (s *Store) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	var rows []badgeRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	out := make([]domain.Badge, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) GetBadge(ctx context.Context, id string) (domain.Badge, error) {
	row := new(badgeRow)
	if err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		return domain.Badge{}, notFound(err, domain.ErrBadgeNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) SeedBadges(ctx context.Context, badges []domain.Badge) (int, error) {
	added := 0
	for _, b := range badges {
		row := &badgeRow{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Criteria:    b.Criteria,
			CreatedAt:   b.CreatedAt,
		}
		res, err := s.db.NewInsert().Model(row).On("CONFLICT (name) DO NOTHING").Exec(ctx)
		if err != nil {
			return added, fmt.Errorf("seed badge %q: %w", b.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}
