package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// GenreService чтение справочника жанров.
type GenreService struct {
	genres store.GenreStore
	logger *slog.Logger
}

func NewGenreService(genres store.GenreStore, logger *slog.Logger) *GenreService {
	return &GenreService{genres: genres, logger: logger}
}

func (s *GenreService) FindAll(ctx context.Context) ([]domain.Genre, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "GenreService/FindAll")
	defer span.End()

	return s.genres.FindAll(ctx)
}

func (s *GenreService) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "GenreService/FindByID")
	defer span.End()

	if err := checkID("id", id); err != nil {
		return domain.Genre{}, err
	}
	genre, err := s.genres.FindByID(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Genre lookup failed", slog.Int64("genreID", id), slog.String("error", err.Error()))
		return domain.Genre{}, notFound(err, domain.EntityGenre, id)
	}
	return genre, nil
}

// MpaService чтение справочника рейтингов.
type MpaService struct {
	mpa    store.MpaStore
	logger *slog.Logger
}

func NewMpaService(mpa store.MpaStore, logger *slog.Logger) *MpaService {
	return &MpaService{mpa: mpa, logger: logger}
}

func (s *MpaService) FindAll(ctx context.Context) ([]domain.Mpa, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "MpaService/FindAll")
	defer span.End()

	return s.mpa.FindAll(ctx)
}

func (s *MpaService) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "MpaService/FindByID")
	defer span.End()

	if err := checkID("id", id); err != nil {
		return domain.Mpa{}, err
	}
	rating, err := s.mpa.FindByID(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Mpa lookup failed", slog.Int64("mpaID", id), slog.String("error", err.Error()))
		return domain.Mpa{}, notFound(err, domain.EntityMpa, id)
	}
	return rating, nil
}
