package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func film(name string, mpaID int64, genreIDs ...int64) *domain.Film {
	genres := make([]domain.Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		genres = append(genres, domain.Genre{ID: id})
	}
	return &domain.Film{
		Name:        name,
		Description: "описание " + name,
		ReleaseDate: domain.NewDate(2000, time.January, 1),
		Duration:    90,
		Mpa:         domain.Mpa{ID: mpaID},
		Genres:      genres,
	}
}

func user(login string) *domain.User {
	return &domain.User{
		Email:    login + "@mail.ru",
		Login:    login,
		Birthday: domain.NewDate(1990, time.May, 5),
	}
}

func TestFilmIDsAreMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	films := newTestStorage(t).Films()

	var ids []int64
	for i := 0; i < 3; i++ {
		f, err := films.Create(ctx, film(fmt.Sprintf("film %d", i), 1))
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	// удаление из середины не освобождает id, пока есть строки с большими id
	require.NoError(t, films.Delete(ctx, 2))
	f, err := films.Create(ctx, film("film 3", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.ID)

	for _, id := range []int64{1, 3, 4} {
		require.NoError(t, films.Delete(ctx, id))
	}
	f, err = films.Create(ctx, film("again", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.ID)
}

func TestUserIDsRestartOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	users := newTestStorage(t).Users()

	a, err := users.Create(ctx, user("a"))
	require.NoError(t, err)
	b, err := users.Create(ctx, user("b"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, []int64{a.ID, b.ID})

	require.NoError(t, users.Delete(ctx, 1))
	require.NoError(t, users.Delete(ctx, 2))
	c, err := users.Create(ctx, user("c"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestFilmReadJoinsReferenceData(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	created, err := s.Films().Create(ctx, film("Сталкер", 3, 2, 1, 2))
	require.NoError(t, err)

	want := &domain.Film{
		ID:           1,
		Name:         "Сталкер",
		Description:  "описание Сталкер",
		ReleaseDate:  domain.NewDate(2000, time.January, 1),
		Duration:     90,
		Mpa:          domain.Mpa{ID: 3, Name: "PG-13"},
		Genres:       []domain.Genre{{ID: 1, Name: "Комедия"}, {ID: 2, Name: "Драма"}},
		LikesByUsers: []int64{},
	}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("Create() mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Films().FindByID(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindByID() mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnedFilmsAreCopies(t *testing.T) {
	ctx := context.Background()
	films := newTestStorage(t).Films()

	created, err := films.Create(ctx, film("Зеркало", 1, 2))
	require.NoError(t, err)
	created.Name = "changed"
	created.Genres[0].Name = "changed"

	got, err := films.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Зеркало", got.Name)
	assert.Equal(t, "Драма", got.Genres[0].Name)
}

func TestMissingRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Films().FindByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Films().Update(ctx, &domain.Film{ID: 42})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Films().Delete(ctx, 42), store.ErrNotFound)

	_, err = s.Users().FindByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().Update(ctx, &domain.User{ID: 42})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Users().Delete(ctx, 42), store.ErrNotFound)

	_, err = s.Genres().FindByID(ctx, 7)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Mpa().FindByID(ctx, 6)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Likes().Add(ctx, 1, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Friendships().Add(ctx, 1, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	users := newTestStorage(t).Users()

	first, err := users.Create(ctx, user("kris"))
	require.NoError(t, err)

	dup := user("other")
	dup.Email = "KRIS@mail.ru"
	_, err = users.Create(ctx, dup)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// смена email освобождает старый адрес
	first.Email = "kelvin@mail.ru"
	_, err = users.Update(ctx, first)
	require.NoError(t, err)
	reused, err := users.Create(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, "KRIS@mail.ru", reused.Email)

	// чужой email занять нельзя, свой в другом регистре можно
	first.Email = "kris@MAIL.ru"
	_, err = users.Update(ctx, first)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
	first.Email = "KELVIN@mail.ru"
	_, err = users.Update(ctx, first)
	assert.NoError(t, err)
}

func TestUserNameDefaultsToLogin(t *testing.T) {
	ctx := context.Background()
	users := newTestStorage(t).Users()

	u := user("snaut")
	u.Name = " "
	created, err := users.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "snaut", created.Name)
	assert.Empty(t, created.Friends)
}

func TestLikesAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	f, err := s.Films().Create(ctx, film("Солярис", 1))
	require.NoError(t, err)
	u, err := s.Users().Create(ctx, user("kris"))
	require.NoError(t, err)

	added, err := s.Likes().Add(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Likes().Add(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := s.Films().FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u.ID}, got.LikesByUsers)

	removed, err := s.Likes().Remove(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Likes().Remove(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	ids, err := s.Likes().UserIDs(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUpdateKeepsLikes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	f, err := s.Films().Create(ctx, film("Солярис", 1))
	require.NoError(t, err)
	u, err := s.Users().Create(ctx, user("kris"))
	require.NoError(t, err)
	_, err = s.Likes().Add(ctx, f.ID, u.ID)
	require.NoError(t, err)

	f.Name = "Солярис (1972)"
	f.LikesByUsers = nil
	updated, err := s.Films().Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "Солярис (1972)", updated.Name)
	assert.Equal(t, []int64{u.ID}, updated.LikesByUsers)
}

func TestFindPopular(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	var films []*domain.Film
	for _, name := range []string{"none", "two", "one", "also one"} {
		f, err := s.Films().Create(ctx, film(name, 1))
		require.NoError(t, err)
		films = append(films, f)
	}
	var users []*domain.User
	for _, login := range []string{"a", "b"} {
		u, err := s.Users().Create(ctx, user(login))
		require.NoError(t, err)
		users = append(users, u)
	}
	like := func(f *domain.Film, u *domain.User) {
		_, err := s.Likes().Add(ctx, f.ID, u.ID)
		require.NoError(t, err)
	}
	like(films[1], users[0])
	like(films[1], users[1])
	like(films[2], users[0])
	like(films[3], users[1])

	popular, err := s.Films().FindPopular(ctx, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "two", popular[0].Name)
	assert.Equal(t, "one", popular[1].Name)

	all, err := s.Films().FindPopular(ctx, 10)
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, f := range all {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"two", "one", "also one", "none"}, names)

	empty, err := s.Films().FindPopular(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	f, err := s.Films().Create(ctx, film("Солярис", 1))
	require.NoError(t, err)
	a, err := s.Users().Create(ctx, user("a"))
	require.NoError(t, err)
	b, err := s.Users().Create(ctx, user("b"))
	require.NoError(t, err)

	_, err = s.Likes().Add(ctx, f.ID, a.ID)
	require.NoError(t, err)
	_, err = s.Likes().Add(ctx, f.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Friendships().Add(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Friendships().Add(ctx, b.ID, a.ID)
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, a.ID))

	got, err := s.Films().FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, got.LikesByUsers)
	friends, err := s.Friendships().FriendIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// email удаленного пользователя снова свободен
	_, err = s.Users().Create(ctx, user("a"))
	require.NoError(t, err)

	require.NoError(t, s.Films().Delete(ctx, f.ID))
	likes, err := s.Likes().UserIDs(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestFriendshipEdges(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	var ids []int64
	for _, login := range []string{"a", "b", "x", "y", "z"} {
		u, err := s.Users().Create(ctx, user(login))
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	a, b, x, y, z := ids[0], ids[1], ids[2], ids[3], ids[4]
	edges := [][2]int64{{a, x}, {a, y}, {b, y}, {b, z}}
	for _, e := range edges {
		added, err := s.Friendships().Add(ctx, e[0], e[1])
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := s.Friendships().Add(ctx, a, x)
	require.NoError(t, err)
	assert.False(t, added)

	common, err := s.Friendships().CommonFriendIDs(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{y}, common)

	// ребра направленные
	fromX, err := s.Friendships().FriendIDs(ctx, x)
	require.NoError(t, err)
	assert.Empty(t, fromX)

	got, err := s.Users().FindByID(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{x, y}, got.Friends)

	removed, err := s.Friendships().Remove(ctx, a, x)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Friendships().Remove(ctx, a, x)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGenresAndMpaSeeded(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	genres, err := s.Genres().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultGenres(), genres)

	ratings, err := s.Mpa().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMpa(), ratings)

	found, missing, err := s.Genres().FindByIDs(ctx, []int64{6, 9, 1, 6})
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Комедия"}, {ID: 6, Name: "Боевик"}}, found)
	assert.Equal(t, []int64{9}, missing)
}

func TestWithinTxIsReentrantAndExclusive(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	tx := s.TxManager()

	sentinel := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.Users().Create(ctx, user("inside"))
		require.NoError(t, err)
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Users().FindByID(ctx, 1)
			require.NoError(t, err)
			return sentinel
		})
	})
	assert.ErrorIs(t, err, sentinel)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = tx.WithinTx(ctx, func(ctx context.Context) error {
				_, err := s.Users().Create(ctx, user(fmt.Sprintf("u%d", i)))
				return err
			})
		}(i)
	}
	wg.Wait()

	users, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 21)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
}
