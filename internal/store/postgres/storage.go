// Package postgres реализует хранилища поверх PostgreSQL через sqlx.
// Поддерживаются драйверы lib/pq ("postgres") и pgx/v5/stdlib ("pgx").
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // драйвер "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // драйвер "postgres" и pq.Error

	"filmorate/internal/store"
)

// Коды SQLSTATE, которые переводятся в ошибки хранилища.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Connect открывает пул соединений и проверяет его пингом.
func Connect(ctx context.Context, driver, dsn string, logger *slog.Logger) (*sqlx.DB, error) {
	logger.InfoContext(ctx, "Connecting to PostgreSQL", slog.String("driver", driver), slog.String("dsn", redactDSN(dsn)))

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.InfoContext(ctx, "Connected to PostgreSQL", slog.String("driver", driver))
	return db, nil
}

// redactDSN прячет пароль для логов.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

// Storage общие зависимости всех реляционных хранилищ.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
	tx     *TxManager
}

func New(db *sqlx.DB, logger *slog.Logger) (*Storage, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &Storage{db: db, logger: logger, tx: NewTxManager(db, logger)}, nil
}

func (s *Storage) Films() *FilmStore             { return &FilmStore{s: s} }
func (s *Storage) Users() *UserStore             { return &UserStore{s: s} }
func (s *Storage) Genres() *GenreStore           { return &GenreStore{s: s} }
func (s *Storage) Mpa() *MpaStore                { return &MpaStore{s: s} }
func (s *Storage) Likes() *LikesStore            { return &LikesStore{s: s} }
func (s *Storage) Friendships() *FriendshipStore { return &FriendshipStore{s: s} }
func (s *Storage) TxManager() *TxManager         { return s.tx }

// queryer общее подмножество *sqlx.DB и *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// conn возвращает транзакцию из контекста, если она есть.
func (s *Storage) conn(ctx context.Context) queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return s.db
}

// selectIn выполняет запрос с одним "IN (?)" по списку ids.
func (s *Storage) selectIn(ctx context.Context, dest any, query string, ids []int64) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return fmt.Errorf("failed to expand IN query: %w", err)
	}
	c := s.conn(ctx)
	return c.SelectContext(ctx, dest, c.Rebind(q), args...)
}

// translateError переводит нарушения ограничений в ошибки пакета store,
// понимая ошибки обоих драйверов.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var code, constraint string
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code, constraint = string(pqErr.Code), pqErr.Constraint
	case errors.As(err, &pgErr):
		code, constraint = pgErr.Code, pgErr.ConstraintName
	default:
		return err
	}
	switch code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, constraint)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", store.ErrNotFound, constraint)
	}
	return err
}
