package postgres

import (
	"context"
	"fmt"

	"filmorate/internal/store"
)

type LikesStore struct {
	s *Storage
}

var _ store.LikesStore = (*LikesStore)(nil)

// Add ставит лайк; нарушение внешнего ключа дает store.ErrNotFound.
func (l *LikesStore) Add(ctx context.Context, filmID, userID int64) (bool, error) {
	res, err := l.s.conn(ctx).ExecContext(ctx,
		`INSERT INTO likes (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", translateError(err))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (l *LikesStore) Remove(ctx context.Context, filmID, userID int64) (bool, error) {
	res, err := l.s.conn(ctx).ExecContext(ctx,
		`DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", translateError(err))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (l *LikesStore) UserIDs(ctx context.Context, filmID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if err := l.s.conn(ctx).SelectContext(ctx, &ids,
		`SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id`, filmID); err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	return ids, nil
}
