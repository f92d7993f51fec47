// Package cache кэширует неизменяемые справочники жанров и рейтингов в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

const keyPrefix = "filmorate:"

// Client подмножество *redis.Client, которое нужно кэшу.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Options параметры подключения к Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect создает клиент и проверяет соединение.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

type core struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// readThrough отдает значение из Redis, а при промахе берет его из load и
// сохраняет. Ошибки Redis не ломают запрос: значение читается из хранилища.
func readThrough[T any](ctx context.Context, c core, key string, load func(context.Context) (T, error)) (T, error) {
	key = keyPrefix + key
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.WarnContext(ctx, "Corrupted cache entry, reloading", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "Redis read failed, falling back to store", slog.String("key", key), slog.String("error", err.Error()))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if data, err := json.Marshal(value); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "Redis write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return value, nil
}

// GenreStore кэширующая обертка над store.GenreStore.
type GenreStore struct {
	next store.GenreStore
	core
}

var _ store.GenreStore = (*GenreStore)(nil)

func NewGenreStore(next store.GenreStore, client Client, ttl time.Duration, logger *slog.Logger) *GenreStore {
	return &GenreStore{next: next, core: core{client: client, ttl: ttl, logger: logger}}
}

func (g *GenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	return readThrough(ctx, g.core, "genres", g.next.FindAll)
}

func (g *GenreStore) FindByID(ctx context.Context, id int64) (domain.Genre, error) {
	return readThrough(ctx, g.core, "genre:"+strconv.FormatInt(id, 10), func(ctx context.Context) (domain.Genre, error) {
		return g.next.FindByID(ctx, id)
	})
}

// FindByIDs отвечает по закэшированному полному списку.
func (g *GenreStore) FindByIDs(ctx context.Context, ids []int64) ([]domain.Genre, []int64, error) {
	all, err := g.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	wanted := slices.Clone(ids)
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)

	found := make([]domain.Genre, 0, len(wanted))
	var missing []int64
	for _, id := range wanted {
		i := slices.IndexFunc(all, func(genre domain.Genre) bool { return genre.ID == id })
		if i < 0 {
			missing = append(missing, id)
			continue
		}
		found = append(found, all[i])
	}
	return found, missing, nil
}

// MpaStore кэширующая обертка над store.MpaStore.
type MpaStore struct {
	next store.MpaStore
	core
}

var _ store.MpaStore = (*MpaStore)(nil)

func NewMpaStore(next store.MpaStore, client Client, ttl time.Duration, logger *slog.Logger) *MpaStore {
	return &MpaStore{next: next, core: core{client: client, ttl: ttl, logger: logger}}
}

func (m *MpaStore) FindAll(ctx context.Context) ([]domain.Mpa, error) {
	return readThrough(ctx, m.core, "mpa", m.next.FindAll)
}

func (m *MpaStore) FindByID(ctx context.Context, id int64) (domain.Mpa, error) {
	return readThrough(ctx, m.core, "mpa:"+strconv.FormatInt(id, 10), func(ctx context.Context) (domain.Mpa, error) {
		return m.next.FindByID(ctx, id)
	})
}
