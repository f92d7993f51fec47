// Package config загружает настройки Filmorate из YAML файла.
// Значения из командной строки и окружения накладываются в cmd/filmorate.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Драйверы хранилища.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type Config struct {
	HTTP            HTTP          `yaml:"http"`
	GRPC            GRPC          `yaml:"grpc"`
	Storage         Storage       `yaml:"storage"`
	Redis           Redis         `yaml:"redis"`
	Log             Log           `yaml:"log"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type HTTP struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	RateLimit    RateLimit     `yaml:"rate_limit"`
}

// RateLimit параметры token bucket. RPS == 0 отключает ограничение.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type GRPC struct {
	Port    string `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

type Storage struct {
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate"`
}

// Relational сообщает, нужна ли база данных.
func (s Storage) Relational() bool {
	return s.Driver == DriverPostgres || s.Driver == DriverPgx
}

type Redis struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Log struct {
	Level string `yaml:"level"`
}

// SlogLevel переводит log.level в slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", l.Level)
	}
	return level, nil
}

// Default настройки для локального запуска без файла.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Port:         "8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
			RateLimit:    RateLimit{RPS: 100, Burst: 200},
		},
		GRPC:            GRPC{Port: "9090", Enabled: true},
		Storage:         Storage{Driver: DriverMemory, Migrate: true},
		Redis:           Redis{Addr: "localhost:6379", TTL: 10 * time.Minute},
		Log:             Log{Level: "debug"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load читает YAML поверх Default. Пустой path дает настройки по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverPgx:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("http.port is required"))
	}
	if c.GRPC.Enabled && c.GRPC.Port == "" {
		errs = append(errs, errors.New("grpc.port is required when grpc is enabled"))
	}
	for name, d := range map[string]time.Duration{
		"http.read_timeout":  c.HTTP.ReadTimeout,
		"http.write_timeout": c.HTTP.WriteTimeout,
		"http.idle_timeout":  c.HTTP.IdleTimeout,
		"shutdown_timeout":   c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.HTTP.RateLimit.RPS < 0 || (c.HTTP.RateLimit.RPS > 0 && c.HTTP.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("http.rate_limit needs rps >= 0 and a positive burst"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
