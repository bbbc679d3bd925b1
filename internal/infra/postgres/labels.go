package postgres

import (
	"context"
	"fmt"

	"quizpulse-service/internal/domain"
)

func (s *Store) ListLabels(ctx context.Context, kind domain.LabelKind) ([]domain.Label, error) {
	var rows []labelRow
	err := s.db.NewSelect().Model(&rows).Where("kind = ?", string(kind)).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	out := make([]domain.Label, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) CreateLabel(ctx context.Context, l domain.Label) error {
	row := &labelRow{ID: l.ID, Kind: string(l.Kind), Name: l.Name, CreatedAt: l.CreatedAt}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert label: %w", err)
	}
	return nil
}

func (s *Store) RenameLabel(ctx context.Context, kind domain.LabelKind, id, name string) (domain.Label, error) {
	row := new(labelRow)
	err := s.db.NewUpdate().
		Model(row).
		Set("name = ?", name).
		Where("id = ?", id).
		Where("kind = ?", string(kind)).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Label{}, domain.ErrConflict
		}
		return domain.Label{}, notFound(err, domain.ErrLabelNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteLabel(ctx context.Context, kind domain.LabelKind, id string) error {
	res, err := s.db.NewDelete().
		Model((*labelRow)(nil)).
		Where("id = ?", id).
		Where("kind = ?", string(kind)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	return affected(res, domain.ErrLabelNotFound)
}

func (s *Store) GetLabel(ctx context.Context, kind domain.LabelKind, id string) (domain.Label, error) {
	row := new(labelRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Where("kind = ?", string(kind)).Scan(ctx)
	if err != nil {
		return domain.Label{}, notFound(err, domain.ErrLabelNotFound)
	}
	return row.toDomain(), nil
}
