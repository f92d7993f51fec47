package postgres

import (
	"context"
	"fmt"
	"slices"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

type GenreStore struct {
	s *Storage
}

var _ store.GenreStore = (*GenreStore)(nil)

func (g *GenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	genres := make([]domain.Genre, 0)
	if err := g.s.conn(ctx).SelectContext(ctx, &genres, `SELECT genre_id, name FROM genre ORDER BY genre_id`); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (g *GenreStore) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	var genre domain.Genre
	if err := g.s.conn(ctx).GetContext(ctx, &genre, `SELECT genre_id, name FROM genre WHERE genre_id = $1`, id); err != nil {
		return domain.Genre{}, translateError(err)
	}
	return genre, nil
}

func (g *GenreStore) FindByIDs(ctx context.Context, ids []int64) ([]domain.Genre, []int64, error) {
	found := make([]domain.Genre, 0, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}
	if err := g.s.selectIn(ctx, &found, `SELECT genre_id, name FROM genre WHERE genre_id IN (?) ORDER BY genre_id`, ids); err != nil {
		return nil, nil, fmt.Errorf("failed to find genres: %w", err)
	}

	wanted := slices.Clone(ids)
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)
	var missing []int64
	for _, id := range wanted {
		if !slices.ContainsFunc(found, func(genre domain.Genre) bool { return genre.ID == id }) {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

type MpaStore struct {
	s *Storage
}

var _ store.MpaStore = (*MpaStore)(nil)

func (m *MpaStore) FindAll(ctx context.Context) ([]domain.Mpa, error) {
	ratings := make([]domain.Mpa, 0)
	if err := m.s.conn(ctx).SelectContext(ctx, &ratings, `SELECT rating_id, name FROM mpa_rating ORDER BY rating_id`); err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return ratings, nil
}

func (m *MpaStore) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	var rating domain.Mpa
	if err := m.s.conn(ctx).GetContext(ctx, &rating, `SELECT rating_id, name FROM mpa_rating WHERE rating_id = $1`, id); err != nil {
		return domain.Mpa{}, translateError(err)
	}
	return rating, nil
}
