// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// NewRouter создает и настраивает HTTP маршрутизатор Filmorate.
// limiter == nil отключает ограничение частоты запросов.
func NewRouter(h *Handler, limiter *rate.Limiter) *mux.Router {
	middlewares := []mux.MiddlewareFunc{h.RequestID, h.AccessLog, h.Recovery}
	if limiter != nil {
		middlewares = append(middlewares, h.RateLimit(limiter))
	}

	router := mux.NewRouter()
	router.Use(middlewares...)
	// mux не применяет Use к обработчикам 404 и 405
	router.NotFoundHandler = chain(http.HandlerFunc(h.NotFound), middlewares)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(h.MethodNotAllowed), middlewares)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	films := router.PathPrefix("/films").Subrouter()
	films.HandleFunc("", h.GetFilms).Methods(http.MethodGet)
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	// /popular регистрируется раньше /{id}
	films.HandleFunc("/popular", h.GetPopularFilms).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.GetFilm).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.DeleteFilm).Methods(http.MethodDelete)
	films.HandleFunc("/{id}/like/{userId}", h.AddLike).Methods(http.MethodPut)
	films.HandleFunc("/{id}/like/{userId}", h.RemoveLike).Methods(http.MethodDelete)

	users := router.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.GetUsers).Methods(http.MethodGet)
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/friends", h.GetFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id}/friends/common/{otherId}", h.GetCommonFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id}/friends/{friendId}", h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc("/{id}/friends/{friendId}", h.RemoveFriend).Methods(http.MethodDelete)

	router.HandleFunc("/genres", h.GetGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{id}", h.GetGenre).Methods(http.MethodGet)
	router.HandleFunc("/mpa", h.GetMpaRatings).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{id}", h.GetMpa).Methods(http.MethodGet)

	return router
}

func chain(next http.Handler, middlewares []mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		next = middlewares[i](next)
	}
	return next
}

// NewLimiter строит token bucket. rps <= 0 означает без ограничений.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
