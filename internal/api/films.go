package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"filmorate/internal/domain"
)

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	film, err := h.films.FindByID(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

// CreateFilm обрабатывает запрос на создание нового фильма.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateFilm request received", slog.String("path", r.URL.Path))

	var req domain.NewFilmRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.logger.DebugContext(ctx, "Decoded film creation request", slog.Any("request_data", req))

	film, err := h.films.Create(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, film)
}

// UpdateFilm применяет патч. Идентификатор фильма передается в теле.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP UpdateFilm request received", slog.String("path", r.URL.Path))

	var req domain.UpdateFilmRequest
	if !h.decode(w, r, &req) {
		return
	}
	film, err := h.films.Update(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.films.Delete(r.Context(), ids[0]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.AddLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}
	if err := h.films.RemoveLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

// GetPopularFilms возвращает фильмы по убыванию числа лайков.
func (h *Handler) GetPopularFilms(w http.ResponseWriter, r *http.Request) {
	count := DefaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "count must be an integer")
			return
		}
		count = n
	}
	films, err := h.films.FindPopular(r.Context(), count)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
