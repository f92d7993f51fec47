package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"filmorate/internal/domain"
)

// FilmService операции над фильмами и лайками.
type FilmService struct {
	stores   Stores
	validate *validator.Validate
	logger   *slog.Logger
}

func NewFilmService(stores Stores, v *validator.Validate, logger *slog.Logger) *FilmService {
	return &FilmService{stores: stores, validate: v, logger: logger}
}

func (s *FilmService) FindAll(ctx context.Context) ([]*domain.Film, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/FindAll")
	defer span.End()

	return s.stores.Films.FindAll(ctx)
}

func (s *FilmService) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/FindByID", trace.WithAttributes(attribute.Int64("film.id", id)))
	defer span.End()

	if err := checkID("id", id); err != nil {
		return nil, err
	}
	film, err := s.stores.Films.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.EntityFilm, id)
	}
	return film, nil
}

// Create проверяет запрос и наличие рейтинга и жанров, затем сохраняет фильм.
func (s *FilmService) Create(ctx context.Context, req domain.NewFilmRequest) (*domain.Film, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/Create")
	defer span.End()

	if err := domain.ValidateStruct(ctx, s.validate, req); err != nil {
		s.logger.WarnContext(ctx, "Film creation request is invalid", slog.String("error", err.Error()))
		return nil, err
	}

	// справочники неизменяемы, их проверка не держит транзакцию
	if err := s.checkReferences(ctx, req.Mpa, req.ReferencedGenreIDs()); err != nil {
		return nil, err
	}
	var created *domain.Film
	err := s.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		film, err := s.stores.Films.Create(ctx, req.ToFilm())
		if err != nil {
			return fmt.Errorf("failed to create film: %w", err)
		}
		created = film
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Film created", slog.Int64("filmID", created.ID), slog.String("name", created.Name))
	return created, nil
}

// Update накладывает патч на сохраненный фильм. Лайки не меняются.
func (s *FilmService) Update(ctx context.Context, req domain.UpdateFilmRequest) (*domain.Film, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/Update", trace.WithAttributes(attribute.Int64("film.id", req.ID)))
	defer span.End()

	if err := domain.ValidateStruct(ctx, s.validate, req); err != nil {
		s.logger.WarnContext(ctx, "Film update request is invalid", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.checkReferences(ctx, req.Mpa, req.ReferencedGenreIDs()); err != nil {
		return nil, err
	}
	var updated *domain.Film
	err := s.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		film, err := s.stores.Films.FindByID(ctx, req.ID)
		if err != nil {
			return notFound(err, domain.EntityFilm, req.ID)
		}
		req.Apply(film)
		updated, err = s.stores.Films.Update(ctx, film)
		if err != nil {
			return notFound(err, domain.EntityFilm, req.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Film updated", slog.Int64("filmID", updated.ID))
	return updated, nil
}

func (s *FilmService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/Delete", trace.WithAttributes(attribute.Int64("film.id", id)))
	defer span.End()

	if err := checkID("id", id); err != nil {
		return err
	}
	if err := s.stores.Films.Delete(ctx, id); err != nil {
		return notFound(err, domain.EntityFilm, id)
	}
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

// AddLike идемпотентен: повторный лайк не ошибка.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/AddLike")
	defer span.End()

	return s.changeLike(ctx, filmID, userID, func(ctx context.Context) (bool, error) {
		return s.stores.Likes.Add(ctx, filmID, userID)
	})
}

// RemoveLike идемпотентен: снятие отсутствующего лайка ничего не делает.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/RemoveLike")
	defer span.End()

	return s.changeLike(ctx, filmID, userID, func(ctx context.Context) (bool, error) {
		return s.stores.Likes.Remove(ctx, filmID, userID)
	})
}

func (s *FilmService) changeLike(ctx context.Context, filmID, userID int64, change func(context.Context) (bool, error)) error {
	if err := checkID("id", filmID); err != nil {
		return err
	}
	if err := checkID("userId", userID); err != nil {
		return err
	}
	return s.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.stores.Films.FindByID(ctx, filmID); err != nil {
			return notFound(err, domain.EntityFilm, filmID)
		}
		if _, err := s.stores.Users.FindByID(ctx, userID); err != nil {
			return notFound(err, domain.EntityUser, userID)
		}
		changed, err := change(ctx)
		if err != nil {
			return fmt.Errorf("failed to change like: %w", err)
		}
		if !changed {
			s.logger.DebugContext(ctx, "Like already in requested state", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
			return nil
		}
		s.logger.InfoContext(ctx, "Like changed", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
		return nil
	})
}

// FindPopular возвращает count самых популярных фильмов.
func (s *FilmService) FindPopular(ctx context.Context, count int) ([]*domain.Film, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "FilmService/FindPopular", trace.WithAttributes(attribute.Int("count", count)))
	defer span.End()

	if count <= 0 {
		return nil, domain.NewValidationError("count", "must be positive, got %d", count)
	}
	return s.stores.Films.FindPopular(ctx, count)
}

func (s *FilmService) checkReferences(ctx context.Context, mpa *domain.MpaRef, genreIDs []int64) error {
	if mpa != nil {
		if _, err := s.stores.Mpa.FindByID(ctx, mpa.ID); err != nil {
			return notFound(err, domain.EntityMpa, mpa.ID)
		}
	}
	if len(genreIDs) == 0 {
		return nil
	}
	_, missing, err := s.stores.Genres.FindByIDs(ctx, genreIDs)
	if err != nil {
		return fmt.Errorf("failed to check genres: %w", err)
	}
	if len(missing) > 0 {
		return domain.NewNotFoundError(domain.EntityGenre, missing[0])
	}
	return nil
}
