package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"filmorate/internal/domain"
)

type idSet map[int64]struct{}

func (s idSet) sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Storage весь набор данных в памяти под одним RWMutex.
// Отдельные хранилища (Films, Users, ...) работают поверх него.
type Storage struct {
	mu     sync.RWMutex
	logger *slog.Logger

	films   map[int64]*domain.Film // жанры и mpa хранятся только как id
	users   map[int64]*domain.User
	emails  map[string]int64 // EmailKey -> user id
	genres  map[int64]domain.Genre
	mpa     map[int64]domain.Mpa
	likes   map[int64]idSet // film -> users
	friends map[int64]idSet // user -> friends
}

// New создает хранилище с заполненными справочниками жанров и рейтингов.
func New(logger *slog.Logger) *Storage {
	s := &Storage{
		logger:  logger,
		films:   make(map[int64]*domain.Film),
		users:   make(map[int64]*domain.User),
		emails:  make(map[string]int64),
		genres:  make(map[int64]domain.Genre),
		mpa:     make(map[int64]domain.Mpa),
		likes:   make(map[int64]idSet),
		friends: make(map[int64]idSet),
	}
	for _, g := range domain.DefaultGenres() {
		s.genres[g.ID] = g
	}
	for _, m := range domain.DefaultMpa() {
		s.mpa[m.ID] = m
	}
	return s
}

func (s *Storage) Films() *FilmStore             { return &FilmStore{s: s} }
func (s *Storage) Users() *UserStore             { return &UserStore{s: s} }
func (s *Storage) Genres() *GenreStore           { return &GenreStore{s: s} }
func (s *Storage) Mpa() *MpaStore                { return &MpaStore{s: s} }
func (s *Storage) Likes() *LikesStore            { return &LikesStore{s: s} }
func (s *Storage) Friendships() *FriendshipStore { return &FriendshipStore{s: s} }
func (s *Storage) TxManager() *TxManager         { return &TxManager{s: s} }

type txKey struct{}

func (s *Storage) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Storage)
	return owner == s
}

// lock берет блокировку на запись, если вызов не внутри WithinTx,
// где она уже взята.
func (s *Storage) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Storage) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// resolveFilm собирает копию фильма для выдачи наружу. Вызывать под блокировкой.
func (s *Storage) resolveFilm(row *domain.Film) *domain.Film {
	film := row.Clone()
	if m, ok := s.mpa[row.Mpa.ID]; ok {
		film.Mpa = m
	}
	for i, g := range film.Genres {
		if known, ok := s.genres[g.ID]; ok {
			film.Genres[i] = known
		}
	}
	film.LikesByUsers = s.likes[row.ID].sorted()
	return film
}

func (s *Storage) resolveUser(row *domain.User) *domain.User {
	user := row.Clone()
	user.Friends = s.friends[row.ID].sorted()
	return user
}
