package memory

import (
	"context"
	"log/slog"
	"sort"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// UserStore реализует store.UserStore в памяти. Email уникален без учета
// регистра, индекс emails освобождает старый адрес при смене.
type UserStore struct {
	s *Storage
}

var _ store.UserStore = (*UserStore)(nil)

func (u *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer u.s.lock(ctx)()

	key := domain.EmailKey(user.Email)
	if _, taken := u.s.emails[key]; taken {
		u.s.logger.WarnContext(ctx, "User email already taken", slog.String("email", user.Email))
		return nil, store.ErrAlreadyExists
	}

	row := user.Clone()
	row.ID = store.NextID(u.s.users)
	row.Friends = nil
	row.ApplyDefaultName()
	u.s.users[row.ID] = row
	u.s.emails[key] = row.ID

	u.s.logger.DebugContext(ctx, "User stored in memory", slog.Int64("userID", row.ID), slog.String("login", row.Login))
	return u.s.resolveUser(row), nil
}

func (u *UserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer u.s.lock(ctx)()

	current, ok := u.s.users[user.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	oldKey, newKey := domain.EmailKey(current.Email), domain.EmailKey(user.Email)
	if owner, taken := u.s.emails[newKey]; taken && owner != user.ID {
		u.s.logger.WarnContext(ctx, "User email already taken", slog.String("email", user.Email))
		return nil, store.ErrAlreadyExists
	}

	row := user.Clone()
	row.Friends = nil
	row.ApplyDefaultName()
	u.s.users[row.ID] = row
	if oldKey != newKey {
		delete(u.s.emails, oldKey)
		u.s.emails[newKey] = row.ID
	}

	u.s.logger.DebugContext(ctx, "User updated in memory", slog.Int64("userID", row.ID))
	return u.s.resolveUser(row), nil
}

// Delete удаляет пользователя, его лайки и все ребра дружбы с его участием.
func (u *UserStore) Delete(ctx context.Context, id int64) error {
	defer u.s.lock(ctx)()

	row, ok := u.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(u.s.users, id)
	delete(u.s.emails, domain.EmailKey(row.Email))
	for _, users := range u.s.likes {
		delete(users, id)
	}
	delete(u.s.friends, id)
	for _, friends := range u.s.friends {
		delete(friends, id)
	}
	u.s.logger.DebugContext(ctx, "User deleted from memory", slog.Int64("userID", id))
	return nil
}

func (u *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	defer u.s.rlock(ctx)()

	row, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u.s.resolveUser(row), nil
}

func (u *UserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	defer u.s.rlock(ctx)()

	users := make([]*domain.User, 0, len(u.s.users))
	for _, row := range u.s.users {
		users = append(users, u.s.resolveUser(row))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
