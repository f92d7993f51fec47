package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"filmorate/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// MIGRATION 001: справочники
// ─────────────────────────────────────────────────────────────

const migration001Up = `
CREATE TABLE IF NOT EXISTS mpa_rating (
    rating_id BIGINT PRIMARY KEY,
    name VARCHAR(10) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS genre (
    genre_id BIGINT PRIMARY KEY,
    name VARCHAR(50) NOT NULL UNIQUE
);
`

// ─────────────────────────────────────────────────────────────
// MIGRATION 002: фильмы, пользователи и связи
// ─────────────────────────────────────────────────────────────

const migration002Up = `
CREATE TABLE IF NOT EXISTS films (
    film_id BIGINT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description VARCHAR(200) NOT NULL DEFAULT '',
    release_date DATE NOT NULL,
    duration INTEGER NOT NULL,
    rating_id BIGINT NOT NULL REFERENCES mpa_rating(rating_id),
    CONSTRAINT valid_duration CHECK (duration > 0),
    CONSTRAINT valid_release_date CHECK (release_date >= DATE '1895-12-28')
);

CREATE TABLE IF NOT EXISTS film_genres (
    film_id BIGINT NOT NULL REFERENCES films(film_id) ON DELETE CASCADE,
    genre_id BIGINT NOT NULL REFERENCES genre(genre_id),
    PRIMARY KEY (film_id, genre_id)
);

CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    email VARCHAR(255) NOT NULL,
    login VARCHAR(100) NOT NULL,
    name VARCHAR(255) NOT NULL,
    birthday DATE NOT NULL
);

-- email уникален без учета регистра
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS likes (
    film_id BIGINT NOT NULL REFERENCES films(film_id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    PRIMARY KEY (film_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_user_id ON likes(user_id);

CREATE TABLE IF NOT EXISTS friendship (
    user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    friend_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, friend_id),
    CONSTRAINT no_self_friendship CHECK (user_id <> friend_id)
);

CREATE INDEX IF NOT EXISTS idx_friendship_friend_id ON friendship(friend_id);
`

// ─────────────────────────────────────────────────────────────
// MIGRATION 003: длина имен, email и логина не ограничена
// ─────────────────────────────────────────────────────────────

const migration003Up = `
ALTER TABLE films ALTER COLUMN name TYPE TEXT;
ALTER TABLE users ALTER COLUMN email TYPE TEXT;
ALTER TABLE users ALTER COLUMN login TYPE TEXT;
ALTER TABLE users ALTER COLUMN name TYPE TEXT;
`

// Migration одна версия схемы.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// Migrations возвращает все встроенные миграции по возрастанию версии.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_reference_tables", UpSQL: migration001Up},
		{Version: 2, Name: "create_films_and_users", UpSQL: migration002Up},
		{Version: 3, Name: "unbounded_text_columns", UpSQL: migration003Up},
	}
}

// Migrate применяет недостающие миграции и заполняет справочники.
// Каждая миграция выполняется в своей транзакции.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []int
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	tm := NewTxManager(db, logger)
	for _, mig := range Migrations() {
		if done[mig.Version] {
			continue
		}
		err := tm.WithinTx(ctx, func(ctx context.Context) error {
			tx, _ := txFromContext(ctx)
			if _, err := tx.ExecContext(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Name, err)
		}
		logger.InfoContext(ctx, "Migration applied", slog.Int("version", mig.Version), slog.String("name", mig.Name))
	}
	return seedReference(ctx, db)
}

// seedReference записывает справочники жанров и рейтингов, исправляя имена
// уже существующих строк.
func seedReference(ctx context.Context, db *sqlx.DB) error {
	for _, m := range domain.DefaultMpa() {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO mpa_rating (rating_id, name) VALUES ($1, $2)
			 ON CONFLICT (rating_id) DO UPDATE SET name = EXCLUDED.name`, m.ID, m.Name); err != nil {
			return fmt.Errorf("failed to seed mpa %d: %w", m.ID, err)
		}
	}
	for _, g := range domain.DefaultGenres() {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO genre (genre_id, name) VALUES ($1, $2)
			 ON CONFLICT (genre_id) DO UPDATE SET name = EXCLUDED.name`, g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to seed genre %d: %w", g.ID, err)
		}
	}
	return nil
}
