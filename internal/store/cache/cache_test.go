package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
	"filmorate/internal/store"
	"filmorate/internal/store/memory"
)

// fakeRedis хранит значения в map и отвечает командами go-redis.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.([]byte)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingGenres struct {
	store.GenreStore
	calls int
}

func (c *countingGenres) FindAll(ctx context.Context) ([]domain.Genre, error) {
	c.calls++
	return c.GenreStore.FindAll(ctx)
}

func (c *countingGenres) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	c.calls++
	return c.GenreStore.FindByID(ctx, id)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestGenreReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingGenres{GenreStore: memory.New(discard()).Genres()}
	rdb := newFakeRedis()
	genres := NewGenreStore(backing, rdb, time.Minute, discard())

	for i := 0; i < 3; i++ {
		all, err := genres.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultGenres(), all)
	}
	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, time.Minute, rdb.ttls["filmorate:genres"])

	g, err := genres.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.Genre{ID: 4, Name: "Триллер"}, g)
	_, err = genres.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)

	found, missing, err := genres.FindByIDs(ctx, []int64{5, 42, 5})
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 5, Name: "Документальный"}}, found)
	assert.Equal(t, []int64{42}, missing)
	assert.Equal(t, 2, backing.calls)
}

func TestMissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	ratings := NewMpaStore(memory.New(discard()).Mpa(), rdb, time.Minute, discard())

	_, err := ratings.FindByID(ctx, 9)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotContains(t, rdb.data, "filmorate:mpa:9")

	m, err := ratings.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "NC-17", m.Name)
	assert.Contains(t, rdb.data, "filmorate:mpa:5")
}

func TestRedisFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.readErr = errors.New("connection refused")
	ratings := NewMpaStore(memory.New(discard()).Mpa(), rdb, time.Minute, discard())

	all, err := ratings.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMpa(), all)
}

func TestCorruptedEntryIsReloaded(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.data["filmorate:mpa"] = []byte("{not json")
	ratings := NewMpaStore(memory.New(discard()).Mpa(), rdb, time.Minute, discard())

	all, err := ratings.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMpa(), all)
	assert.JSONEq(t, `[{"id":1,"name":"G"},{"id":2,"name":"PG"},{"id":3,"name":"PG-13"},{"id":4,"name":"R"},{"id":5,"name":"NC-17"}]`, string(rdb.data["filmorate:mpa"]))
}
