// Package service содержит бизнес-логику поверх хранилищ: валидацию,
// проверку ссылок на справочники, лайки и дружбу.
package service

import (
	"errors"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

const tracerID = "filmorate-service"

// Stores набор хранилищ одного бэкенда (memory или postgres).
type Stores struct {
	Films       store.FilmStore
	Users       store.UserStore
	Genres      store.GenreStore
	Mpa         store.MpaStore
	Likes       store.LikesStore
	Friendships store.FriendshipStore
	Tx          store.TxManager
}

// checkID отличает некорректный id (400) от отсутствующего (404).
func checkID(field string, id int64) error {
	if id <= 0 {
		return domain.NewValidationError(field, "must be positive, got %d", id)
	}
	return nil
}

// notFound переводит store.ErrNotFound в *domain.NotFoundError.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return err
}
