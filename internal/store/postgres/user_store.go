package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// UserStore реализует store.UserStore. Уникальность email без учета
// регистра держит индекс idx_users_email_lower.
type UserStore struct {
	s *Storage
}

var _ store.UserStore = (*UserStore)(nil)

type userRow struct {
	ID       int64       `db:"user_id"`
	Email    string      `db:"email"`
	Login    string      `db:"login"`
	Name     string      `db:"name"`
	Birthday domain.Date `db:"birthday"`
}

type friendRow struct {
	UserID   int64 `db:"user_id"`
	FriendID int64 `db:"friend_id"`
}

const selectUsers = `SELECT user_id, email, login, name, birthday FROM users`

func (u *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := user.Clone()
	row.ApplyDefaultName()

	err := u.s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c := u.s.conn(ctx)
		if _, err := c.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		return c.GetContext(ctx, &row.ID, `INSERT INTO users (user_id, email, login, name, birthday)
			SELECT COALESCE(MAX(user_id), 0) + 1, $1, $2, $3, $4 FROM users
			RETURNING user_id`,
			row.Email, row.Login, row.Name, row.Birthday)
	})
	if err != nil {
		err = translateError(err)
		u.s.logger.WarnContext(ctx, "Failed to create user in DB", slog.String("email", user.Email), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	u.s.logger.InfoContext(ctx, "User created in DB", slog.Int64("userID", row.ID))
	return u.FindByID(ctx, row.ID)
}

func (u *UserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := user.Clone()
	row.ApplyDefaultName()

	res, err := u.s.conn(ctx).ExecContext(ctx, `UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE user_id = $5`,
		row.Email, row.Login, row.Name, row.Birthday, row.ID)
	if err != nil {
		err = translateError(err)
		u.s.logger.WarnContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return u.FindByID(ctx, row.ID)
}

// Delete удаляет пользователя; лайки и дружба уходят каскадом.
func (u *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := u.s.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	u.s.logger.InfoContext(ctx, "User deleted from DB", slog.Int64("userID", id))
	return nil
}

func (u *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	if err := u.s.conn(ctx).GetContext(ctx, &row, selectUsers+` WHERE user_id = $1`, id); err != nil {
		return nil, translateError(err)
	}
	users, err := u.assemble(ctx, []userRow{row})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

func (u *UserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := u.s.conn(ctx).SelectContext(ctx, &rows, selectUsers+` ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return u.assemble(ctx, rows)
}

func (u *UserStore) assemble(ctx context.Context, rows []userRow) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(rows))
	if len(rows) == 0 {
		return users, nil
	}
	ids := make([]int64, 0, len(rows))
	byID := make(map[int64]*domain.User, len(rows))
	for _, r := range rows {
		user := &domain.User{
			ID:       r.ID,
			Email:    r.Email,
			Login:    r.Login,
			Name:     r.Name,
			Birthday: r.Birthday,
			Friends:  []int64{},
		}
		users = append(users, user)
		byID[r.ID] = user
		ids = append(ids, r.ID)
	}

	var edges []friendRow
	if err := u.s.selectIn(ctx, &edges, `SELECT user_id, friend_id FROM friendship
		WHERE user_id IN (?) ORDER BY user_id, friend_id`, ids); err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	for _, e := range edges {
		user := byID[e.UserID]
		user.Friends = append(user.Friends, e.FriendID)
	}
	return users, nil
}
