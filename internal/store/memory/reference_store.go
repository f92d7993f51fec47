package memory

import (
	"context"
	"slices"
	"sort"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// GenreStore и MpaStore только читают справочники, заполненные в New.
type GenreStore struct {
	s *Storage
}

var _ store.GenreStore = (*GenreStore)(nil)

func (g *GenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	defer g.s.rlock(ctx)()

	genres := make([]domain.Genre, 0, len(g.s.genres))
	for _, genre := range g.s.genres {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (g *GenreStore) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	defer g.s.rlock(ctx)()

	genre, ok := g.s.genres[id]
	if !ok {
		return domain.Genre{}, store.ErrNotFound
	}
	return genre, nil
}

func (g *GenreStore) FindByIDs(ctx context.Context, ids []int64) ([]domain.Genre, []int64, error) {
	defer g.s.rlock(ctx)()

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	found := make([]domain.Genre, 0, len(sorted))
	var missing []int64
	for _, id := range sorted {
		if genre, ok := g.s.genres[id]; ok {
			found = append(found, genre)
		} else {
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
	defer m.s.rlock(ctx)()

	ratings := make([]domain.Mpa, 0, len(m.s.mpa))
	for _, rating := range m.s.mpa {
		ratings = append(ratings, rating)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (m *MpaStore) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	defer m.s.rlock(ctx)()

	rating, ok := m.s.mpa[id]
	if !ok {
		return domain.Mpa{}, store.ErrNotFound
	}
	return rating, nil
}
