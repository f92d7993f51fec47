package memory

import (
	"context"
	"log/slog"
	"sort"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FilmStore реализует store.FilmStore в памяти.
type FilmStore struct {
	s *Storage
}

var _ store.FilmStore = (*FilmStore)(nil)

func (f *FilmStore) Create(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	defer f.s.lock(ctx)()

	row := film.Clone()
	row.ID = store.NextID(f.s.films)
	row.Mpa = domain.Mpa{ID: film.Mpa.ID}
	row.Genres = domain.NormalizeGenres(idOnlyGenres(film.Genres))
	row.LikesByUsers = nil
	f.s.films[row.ID] = row

	f.s.logger.DebugContext(ctx, "Film stored in memory", slog.Int64("filmID", row.ID), slog.String("name", row.Name))
	return f.s.resolveFilm(row), nil
}

// Update заменяет поля фильма целиком, лайки не затрагиваются.
func (f *FilmStore) Update(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	defer f.s.lock(ctx)()

	if _, ok := f.s.films[film.ID]; !ok {
		return nil, store.ErrNotFound
	}
	row := film.Clone()
	row.Mpa = domain.Mpa{ID: film.Mpa.ID}
	row.Genres = domain.NormalizeGenres(idOnlyGenres(film.Genres))
	row.LikesByUsers = nil
	f.s.films[row.ID] = row

	f.s.logger.DebugContext(ctx, "Film updated in memory", slog.Int64("filmID", row.ID))
	return f.s.resolveFilm(row), nil
}

// Delete удаляет фильм вместе с его лайками.
func (f *FilmStore) Delete(ctx context.Context, id int64) error {
	defer f.s.lock(ctx)()

	if _, ok := f.s.films[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.s.films, id)
	delete(f.s.likes, id)
	f.s.logger.DebugContext(ctx, "Film deleted from memory", slog.Int64("filmID", id))
	return nil
}

func (f *FilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	defer f.s.rlock(ctx)()

	row, ok := f.s.films[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.s.resolveFilm(row), nil
}

func (f *FilmStore) FindAll(ctx context.Context) ([]*domain.Film, error) {
	defer f.s.rlock(ctx)()
	return f.s.sortedFilms(), nil
}

func (f *FilmStore) FindPopular(ctx context.Context, count int) ([]*domain.Film, error) {
	defer f.s.rlock(ctx)()

	if count <= 0 {
		return []*domain.Film{}, nil
	}
	films := f.s.sortedFilms()
	// стабильная сортировка сохраняет порядок id при равном числе лайков
	sort.SliceStable(films, func(i, j int) bool {
		return len(films[i].LikesByUsers) > len(films[j].LikesByUsers)
	})
	if len(films) > count {
		films = films[:count]
	}
	return films, nil
}

func (s *Storage) sortedFilms() []*domain.Film {
	films := make([]*domain.Film, 0, len(s.films))
	for _, row := range s.films {
		films = append(films, s.resolveFilm(row))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films
}

func idOnlyGenres(genres []domain.Genre) []domain.Genre {
	out := make([]domain.Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, domain.Genre{ID: g.ID})
	}
	return out
}
