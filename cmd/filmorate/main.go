// cmd/filmorate/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"filmorate/internal/config"
)

const (
	commandServe = "serve"
	commandCheck = "check"
)

// options значения командной строки. Пустые строки не переопределяют файл.
type options struct {
	command    string
	configPath string
	logLevel   string

	httpPort  string
	grpcPort  string
	driver    string
	dsn       string
	redisAddr string

	checkAddr string
	checkKind string
	checkID   int64
}

func parseArgs(args []string) (options, error) {
	var o options
	app := kingpin.New("filmorate", "Filmorate: films, users, likes and friendships over HTTP and gRPC.")
	app.Flag("config", "Path to the YAML configuration file.").Envar("FILMORATE_CONFIG").StringVar(&o.configPath)
	app.Flag("log-level", "Log level: debug, info, warn or error.").Envar("FILMORATE_LOG_LEVEL").StringVar(&o.logLevel)

	serve := app.Command(commandServe, "Run the HTTP API and the gRPC catalog.").Default()
	serve.Flag("http-port", "HTTP listen port.").Envar("FILMORATE_HTTP_PORT").StringVar(&o.httpPort)
	serve.Flag("grpc-port", "gRPC listen port.").Envar("FILMORATE_GRPC_PORT").StringVar(&o.grpcPort)
	serve.Flag("storage-driver", "Storage backend.").Envar("FILMORATE_STORAGE_DRIVER").
		EnumVar(&o.driver, config.DriverMemory, config.DriverPostgres, config.DriverPgx)
	serve.Flag("database-url", "PostgreSQL connection string.").Envar("FILMORATE_DATABASE_URL").StringVar(&o.dsn)
	serve.Flag("redis-addr", "Redis address; enables the reference data cache.").Envar("FILMORATE_REDIS_ADDR").StringVar(&o.redisAddr)

	check := app.Command(commandCheck, "Query a running server through the gRPC catalog.")
	check.Flag("addr", "Catalog gRPC address.").Default("localhost:9090").StringVar(&o.checkAddr)
	check.Arg("kind", "What to check: film, user or health.").Required().EnumVar(&o.checkKind, "film", "user", "health")
	check.Arg("id", "Film or user id.").Int64Var(&o.checkID)

	cmd, err := app.Parse(args)
	if err != nil {
		return o, err
	}
	o.command = cmd
	if o.command == commandCheck && o.checkKind != "health" && o.checkID == 0 {
		return o, fmt.Errorf("check %s needs an id", o.checkKind)
	}
	return o, nil
}

// apply накладывает флаги и переменные окружения на конфигурацию из файла.
func (o options) apply(cfg *config.Config) {
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.httpPort != "" {
		cfg.HTTP.Port = o.httpPort
	}
	if o.grpcPort != "" {
		cfg.GRPC.Port = o.grpcPort
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.dsn != "" {
		cfg.Storage.DSN = o.dsn
	}
	if o.redisAddr != "" {
		cfg.Redis.Addr = o.redisAddr
		cfg.Redis.Enabled = true
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "filmorate: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filmorate: %v\n", err)
		os.Exit(1)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "filmorate: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	level, _ := cfg.Log.SlogLevel()

	switch opts.command {
	case commandCheck:
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		err = runCheck(opts, os.Stdout, logger)
	default:
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		err = runServe(cfg, logger)
		if err != nil {
			logger.Error("Filmorate stopped with error", slog.String("error", err.Error()))
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "filmorate: %v\n", err)
		os.Exit(1)
	}
}
