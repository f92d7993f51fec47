package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
)

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.FindByID(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

// CreateUser регистрирует пользователя. Пустое имя заменяется логином.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateUser request received", slog.String("path", r.URL.Path))

	var req domain.NewUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.users.Create(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP UpdateUser request received", slog.String("path", r.URL.Path))

	var req domain.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.users.Update(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), ids[0]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.AddFriend(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}
	if err := h.users.RemoveFriend(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id")
	if !ok {
		return
	}
	friends, err := h.users.FindFriends(r.Context(), ids[0])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) GetCommonFriends(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "id", "otherId")
	if !ok {
		return
	}
	friends, err := h.users.FindCommonFriends(r.Context(), ids[0], ids[1])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}
