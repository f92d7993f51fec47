package memory

import (
	"context"

	"filmorate/internal/store"
)

type LikesStore struct {
	s *Storage
}

var _ store.LikesStore = (*LikesStore)(nil)

// Add ставит лайк. Отсутствие фильма или пользователя дает ErrNotFound,
// как внешний ключ в реляционной схеме.
func (l *LikesStore) Add(ctx context.Context, filmID, userID int64) (bool, error) {
	defer l.s.lock(ctx)()

	if !l.s.filmAndUserExist(filmID, userID) {
		return false, store.ErrNotFound
	}
	users, ok := l.s.likes[filmID]
	if !ok {
		users = make(idSet)
		l.s.likes[filmID] = users
	}
	if _, liked := users[userID]; liked {
		return false, nil
	}
	users[userID] = struct{}{}
	return true, nil
}

func (l *LikesStore) Remove(ctx context.Context, filmID, userID int64) (bool, error) {
	defer l.s.lock(ctx)()

	users := l.s.likes[filmID]
	if _, liked := users[userID]; !liked {
		return false, nil
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(l.s.likes, filmID)
	}
	return true, nil
}

func (l *LikesStore) UserIDs(ctx context.Context, filmID int64) ([]int64, error) {
	defer l.s.rlock(ctx)()
	return l.s.likes[filmID].sorted(), nil
}

func (s *Storage) filmAndUserExist(filmID, userID int64) bool {
	_, film := s.films[filmID]
	_, user := s.users[userID]
	return film && user
}
