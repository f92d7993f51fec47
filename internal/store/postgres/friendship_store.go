package postgres

import (
	"context"
	"fmt"

	"filmorate/internal/store"
)

type FriendshipStore struct {
	s *Storage
}

var _ store.FriendshipStore = (*FriendshipStore)(nil)

func (f *FriendshipStore) Add(ctx context.Context, userID, friendID int64) (bool, error) {
	res, err := f.s.conn(ctx).ExecContext(ctx,
		`INSERT INTO friendship (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to add friend: %w", translateError(err))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (f *FriendshipStore) Remove(ctx context.Context, userID, friendID int64) (bool, error) {
	res, err := f.s.conn(ctx).ExecContext(ctx,
		`DELETE FROM friendship WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to remove friend: %w", translateError(err))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (f *FriendshipStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if err := f.s.conn(ctx).SelectContext(ctx, &ids,
		`SELECT friend_id FROM friendship WHERE user_id = $1 ORDER BY friend_id`, userID); err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return ids, nil
}

func (f *FriendshipStore) CommonFriendIDs(ctx context.Context, userID, otherID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if err := f.s.conn(ctx).SelectContext(ctx, &ids, `SELECT a.friend_id
		FROM friendship a JOIN friendship b ON b.friend_id = a.friend_id
		WHERE a.user_id = $1 AND b.user_id = $2
		ORDER BY a.friend_id`, userID, otherID); err != nil {
		return nil, fmt.Errorf("failed to list common friends: %w", err)
	}
	return ids, nil
}
