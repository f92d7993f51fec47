// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"filmorate/internal/domain"
)

// FilmService операции над фильмами, которые нужны HTTP слою.
type FilmService interface {
	FindAll(ctx context.Context) ([]*domain.Film, error)
	FindByID(ctx context.Context, id int64) (*domain.Film, error)
	Create(ctx context.Context, req domain.NewFilmRequest) (*domain.Film, error)
	Update(ctx context.Context, req domain.UpdateFilmRequest) (*domain.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	FindPopular(ctx context.Context, count int) ([]*domain.Film, error)
}

// UserService операции над пользователями и дружбой.
type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, req domain.NewUserRequest) (*domain.User, error)
	Update(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	FindFriends(ctx context.Context, userID int64) ([]*domain.User, error)
	FindCommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error)
}

type GenreService interface {
	FindAll(ctx context.Context) ([]domain.Genre, error)
	FindByID(ctx context.Context, id int64) (domain.Genre, error)
}

type MpaService interface {
	FindAll(ctx context.Context) ([]domain.Mpa, error)
	FindByID(ctx context.Context, id int64) (domain.Mpa, error)
}

// DefaultPopularCount размер выборки популярных фильмов без параметра count.
const DefaultPopularCount = 10

// Handler содержит зависимости для HTTP обработчиков Filmorate.
type Handler struct {
	films  FilmService
	users  UserService
	genres GenreService
	mpa    MpaService
	logger *slog.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(films FilmService, users UserService, genres GenreService, mpa MpaService, l *slog.Logger) *Handler {
	return &Handler{
		films:  films,
		users:  users,
		genres: genres,
		mpa:    mpa,
		logger: l,
	}
}

// --- Вспомогательные функции ---
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondServiceError переводит ошибки сервисов в коды ответа.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.logger.WarnContext(ctx, "Request rejected by validation", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.logger.WarnContext(ctx, "Requested entity not found", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		h.logger.WarnContext(ctx, "Request conflicts with existing data", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// pathIDs разбирает числовые переменные пути. При ошибке ответ уже отправлен.
func (h *Handler) pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	vars := mux.Vars(r)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := strconv.ParseInt(vars[name], 10, 64)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, vars[name]))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Health отвечает на проверку живости.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, http.StatusNotFound, "Route not found")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
