// internal/grpc/server.go
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"filmorate/internal/domain"
	"filmorate/internal/genproto/catalogpb"
)

type FilmFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Film, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Server реализует интерфейс catalogpb.CatalogServer
type Server struct {
	catalogpb.UnimplementedCatalogServer
	films  FilmFinder
	users  UserFinder
	logger *slog.Logger
}

// NewServer создает новый экземпляр gRPC сервера каталога.
func NewServer(films FilmFinder, users UserFinder, logger *slog.Logger) *Server {
	return &Server{
		films:  films,
		users:  users,
		logger: logger,
	}
}

// filmToStruct переводит фильм в Struct через его JSON представление.
func filmToStruct(film *domain.Film) (*structpb.Struct, error) {
	data, err := json.Marshal(film)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// toStatus переводит ошибки сервисов в коды gRPC.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

// GetFilm реализует gRPC метод GetFilm.
func (s *Server) GetFilm(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	s.logger.InfoContext(ctx, "gRPC GetFilm called", slog.Int64("filmID", req.GetValue()))

	film, err := s.films.FindByID(ctx, req.GetValue())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get film for GetFilm", slog.Int64("filmID", req.GetValue()), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
	out, err := filmToStruct(film)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to convert film to struct", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to encode film: %v", err)
	}
	return out, nil
}

// FilmExists реализует gRPC метод FilmExists.
func (s *Server) FilmExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC FilmExists called", slog.Int64("filmID", req.GetValue()))

	_, err := s.films.FindByID(ctx, req.GetValue())
	return s.exists(ctx, "film", req.GetValue(), err)
}

// UserExists реализует gRPC метод UserExists.
func (s *Server) UserExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC UserExists called", slog.Int64("userID", req.GetValue()))

	_, err := s.users.FindByID(ctx, req.GetValue())
	return s.exists(ctx, "user", req.GetValue(), err)
}

func (s *Server) exists(ctx context.Context, entity string, id int64, err error) (*wrapperspb.BoolValue, error) {
	switch {
	case err == nil:
		return wrapperspb.Bool(true), nil
	case errors.Is(err, domain.ErrNotFound):
		s.logger.InfoContext(ctx, fmt.Sprintf("%s does not exist (checked via gRPC)", entity), slog.Int64("id", id))
		return wrapperspb.Bool(false), nil
	default:
		s.logger.WarnContext(ctx, fmt.Sprintf("Failed to check %s existence", entity), slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
}
