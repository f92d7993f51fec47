package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

// Ошибки хранилища. Сервисный слой переводит их в доменные ошибки.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// EntityStore общий CRUD контракт для фильмов и пользователей.
// FindAll возвращает записи в порядке id.
type EntityStore[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (T, error)
	FindAll(ctx context.Context) ([]T, error)
}

// FilmStore хранит фильмы вместе с их жанрами. Mpa, жанры и лайки
// подставляются при чтении.
type FilmStore interface {
	EntityStore[*domain.Film]
	// FindPopular возвращает до count фильмов по убыванию числа лайков,
	// при равенстве по возрастанию id.
	FindPopular(ctx context.Context, count int) ([]*domain.Film, error)
}

// UserStore хранит пользователей. Email уникален без учета регистра,
// нарушение возвращает ErrAlreadyExists.
type UserStore interface {
	EntityStore[*domain.User]
}

type GenreStore interface {
	FindAll(ctx context.Context) ([]domain.Genre, error)
	FindByID(ctx context.Context, id int64) (domain.Genre, error)
	// FindByIDs возвращает найденные жанры по возрастанию id и список
	// отсутствующих id.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Genre, []int64, error)
}

type MpaStore interface {
	FindAll(ctx context.Context) ([]domain.Mpa, error)
	FindByID(ctx context.Context, id int64) (domain.Mpa, error)
}

// LikesStore связи фильм-пользователь. Add и Remove сообщают,
// изменилось ли состояние.
type LikesStore interface {
	Add(ctx context.Context, filmID, userID int64) (bool, error)
	Remove(ctx context.Context, filmID, userID int64) (bool, error)
	UserIDs(ctx context.Context, filmID int64) ([]int64, error)
}

// FriendshipStore направленные ребра userID -> friendID.
type FriendshipStore interface {
	Add(ctx context.Context, userID, friendID int64) (bool, error)
	Remove(ctx context.Context, userID, friendID int64) (bool, error)
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
	CommonFriendIDs(ctx context.Context, userID, otherID int64) ([]int64, error)
}

// TxManager выполняет fn атомарно. Вызовы хранилищ с переданным в fn
// контекстом попадают в ту же транзакцию.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NextID возвращает max(ids)+1, либо 1 для пустого набора.
func NextID[V any](rows map[int64]V) int64 {
	var last int64
	for id := range rows {
		if id > last {
			last = id
		}
	}
	return last + 1
}
