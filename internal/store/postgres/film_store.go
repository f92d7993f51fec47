package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FilmStore реализует store.FilmStore. Жанры пишутся вместе с фильмом,
// Mpa, жанры и лайки подставляются при чтении.
type FilmStore struct {
	s *Storage
}

var _ store.FilmStore = (*FilmStore)(nil)

type filmRow struct {
	ID          int64       `db:"film_id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ReleaseDate domain.Date `db:"release_date"`
	Duration    int         `db:"duration"`
	MpaID       int64       `db:"rating_id"`
	MpaName     string      `db:"rating_name"`
}

type filmGenreRow struct {
	FilmID int64  `db:"film_id"`
	ID     int64  `db:"genre_id"`
	Name   string `db:"name"`
}

type likeRow struct {
	FilmID int64 `db:"film_id"`
	UserID int64 `db:"user_id"`
}

const selectFilms = `SELECT f.film_id, f.name, f.description, f.release_date, f.duration, f.rating_id, m.name AS rating_name
FROM films f JOIN mpa_rating m ON m.rating_id = f.rating_id`

func (f *FilmStore) Create(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	var id int64
	err := f.s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c := f.s.conn(ctx)
		if _, err := c.ExecContext(ctx, `LOCK TABLE films IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		if err := c.GetContext(ctx, &id, `INSERT INTO films (film_id, name, description, release_date, duration, rating_id)
			SELECT COALESCE(MAX(film_id), 0) + 1, $1, $2, $3, $4, $5 FROM films
			RETURNING film_id`,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID); err != nil {
			return err
		}
		return f.writeGenres(ctx, id, film.Genres)
	})
	if err != nil {
		f.s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("name", film.Name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create film: %w", translateError(err))
	}
	f.s.logger.InfoContext(ctx, "Film created in DB", slog.Int64("filmID", id))
	return f.FindByID(ctx, id)
}

func (f *FilmStore) Update(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	err := f.s.tx.WithinTx(ctx, func(ctx context.Context) error {
		res, err := f.s.conn(ctx).ExecContext(ctx, `UPDATE films
			SET name = $1, description = $2, release_date = $3, duration = $4, rating_id = $5
			WHERE film_id = $6`,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		if _, err := f.s.conn(ctx).ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
			return err
		}
		return f.writeGenres(ctx, film.ID, film.Genres)
	})
	if err != nil {
		f.s.logger.WarnContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update film: %w", translateError(err))
	}
	return f.FindByID(ctx, film.ID)
}

func (f *FilmStore) writeGenres(ctx context.Context, filmID int64, genres []domain.Genre) error {
	for _, g := range domain.NormalizeGenres(genres) {
		if _, err := f.s.conn(ctx).ExecContext(ctx,
			`INSERT INTO film_genres (film_id, genre_id) VALUES ($1, $2)`, filmID, g.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete удаляет фильм; лайки и жанры уходят каскадом.
func (f *FilmStore) Delete(ctx context.Context, id int64) error {
	res, err := f.s.conn(ctx).ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete film: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	f.s.logger.InfoContext(ctx, "Film deleted from DB", slog.Int64("filmID", id))
	return nil
}

func (f *FilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	var row filmRow
	if err := f.s.conn(ctx).GetContext(ctx, &row, selectFilms+` WHERE f.film_id = $1`, id); err != nil {
		return nil, translateError(err)
	}
	films, err := f.assemble(ctx, []filmRow{row})
	if err != nil {
		return nil, err
	}
	return films[0], nil
}

func (f *FilmStore) FindAll(ctx context.Context) ([]*domain.Film, error) {
	var rows []filmRow
	if err := f.s.conn(ctx).SelectContext(ctx, &rows, selectFilms+` ORDER BY f.film_id`); err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	return f.assemble(ctx, rows)
}

func (f *FilmStore) FindPopular(ctx context.Context, count int) ([]*domain.Film, error) {
	if count <= 0 {
		return []*domain.Film{}, nil
	}
	var rows []filmRow
	err := f.s.conn(ctx).SelectContext(ctx, &rows, selectFilms+`
		LEFT JOIN likes l ON l.film_id = f.film_id
		GROUP BY f.film_id, m.rating_id
		ORDER BY COUNT(l.user_id) DESC, f.film_id ASC
		LIMIT $1`, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular films: %w", err)
	}
	return f.assemble(ctx, rows)
}

// assemble дочитывает жанры и лайки двумя запросами на весь список.
func (f *FilmStore) assemble(ctx context.Context, rows []filmRow) ([]*domain.Film, error) {
	films := make([]*domain.Film, 0, len(rows))
	if len(rows) == 0 {
		return films, nil
	}
	ids := make([]int64, 0, len(rows))
	byID := make(map[int64]*domain.Film, len(rows))
	for _, r := range rows {
		film := &domain.Film{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			ReleaseDate:  r.ReleaseDate,
			Duration:     r.Duration,
			Mpa:          domain.Mpa{ID: r.MpaID, Name: r.MpaName},
			Genres:       []domain.Genre{},
			LikesByUsers: []int64{},
		}
		films = append(films, film)
		byID[r.ID] = film
		ids = append(ids, r.ID)
	}

	var genres []filmGenreRow
	if err := f.s.selectIn(ctx, &genres, `SELECT fg.film_id, g.genre_id, g.name
		FROM film_genres fg JOIN genre g ON g.genre_id = fg.genre_id
		WHERE fg.film_id IN (?) ORDER BY fg.film_id, g.genre_id`, ids); err != nil {
		return nil, fmt.Errorf("failed to load film genres: %w", err)
	}
	for _, g := range genres {
		film := byID[g.FilmID]
		film.Genres = append(film.Genres, domain.Genre{ID: g.ID, Name: g.Name})
	}

	var likes []likeRow
	if err := f.s.selectIn(ctx, &likes, `SELECT film_id, user_id FROM likes
		WHERE film_id IN (?) ORDER BY film_id, user_id`, ids); err != nil {
		return nil, fmt.Errorf("failed to load film likes: %w", err)
	}
	for _, l := range likes {
		film := byID[l.FilmID]
		film.LikesByUsers = append(film.LikesByUsers, l.UserID)
	}
	return films, nil
}
