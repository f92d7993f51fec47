package memory

import (
	"context"
	"slices"

	"filmorate/internal/store"
)

// FriendshipStore хранит направленные ребра. Симметрию обеспечивает сервис.
type FriendshipStore struct {
	s *Storage
}

var _ store.FriendshipStore = (*FriendshipStore)(nil)

func (f *FriendshipStore) Add(ctx context.Context, userID, friendID int64) (bool, error) {
	defer f.s.lock(ctx)()

	_, userOK := f.s.users[userID]
	_, friendOK := f.s.users[friendID]
	if !userOK || !friendOK {
		return false, store.ErrNotFound
	}
	friends, ok := f.s.friends[userID]
	if !ok {
		friends = make(idSet)
		f.s.friends[userID] = friends
	}
	if _, exists := friends[friendID]; exists {
		return false, nil
	}
	friends[friendID] = struct{}{}
	return true, nil
}

func (f *FriendshipStore) Remove(ctx context.Context, userID, friendID int64) (bool, error) {
	defer f.s.lock(ctx)()

	friends := f.s.friends[userID]
	if _, exists := friends[friendID]; !exists {
		return false, nil
	}
	delete(friends, friendID)
	if len(friends) == 0 {
		delete(f.s.friends, userID)
	}
	return true, nil
}

func (f *FriendshipStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	defer f.s.rlock(ctx)()
	return f.s.friends[userID].sorted(), nil
}

func (f *FriendshipStore) CommonFriendIDs(ctx context.Context, userID, otherID int64) ([]int64, error) {
	defer f.s.rlock(ctx)()

	other := f.s.friends[otherID]
	common := make([]int64, 0)
	for id := range f.s.friends[userID] {
		if _, ok := other[id]; ok {
			common = append(common, id)
		}
	}
	slices.Sort(common)
	return common, nil
}
