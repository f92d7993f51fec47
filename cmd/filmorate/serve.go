package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/reflection"

	httpAPI "filmorate/internal/api"
	"filmorate/internal/config"
	"filmorate/internal/domain"
	grpcServer "filmorate/internal/grpc"
	"filmorate/internal/service"
	"filmorate/internal/store/cache"
	"filmorate/internal/store/memory"
	"filmorate/internal/store/postgres"
)

// openStores собирает хранилища выбранного бэкенда и, если включено, кэш справочников.
// Возвращенная функция закрывает соединения.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (service.Stores, func(), error) {
	var stores service.Stores
	closeAll := func() {}

	if cfg.Storage.Relational() {
		db, err := postgres.Connect(ctx, cfg.Storage.Driver, cfg.Storage.DSN, logger)
		if err != nil {
			return stores, closeAll, err
		}
		closeAll = func() {
			logger.Info("Closing PostgreSQL database connection...")
			if err := db.Close(); err != nil {
				logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
			}
		}
		if cfg.Storage.Migrate {
			if err := postgres.Migrate(ctx, db, logger); err != nil {
				closeAll()
				return stores, func() {}, err
			}
		}
		pg, err := postgres.New(db, logger)
		if err != nil {
			closeAll()
			return stores, func() {}, err
		}
		stores = service.Stores{
			Films:       pg.Films(),
			Users:       pg.Users(),
			Genres:      pg.Genres(),
			Mpa:         pg.Mpa(),
			Likes:       pg.Likes(),
			Friendships: pg.Friendships(),
			Tx:          pg.TxManager(),
		}
		logger.Info("PostgreSQL storage initialized", slog.String("driver", cfg.Storage.Driver))
	} else {
		mem := memory.New(logger)
		stores = service.Stores{
			Films:       mem.Films(),
			Users:       mem.Users(),
			Genres:      mem.Genres(),
			Mpa:         mem.Mpa(),
			Likes:       mem.Likes(),
			Friendships: mem.Friendships(),
			Tx:          mem.TxManager(),
		}
		logger.Info("In-memory storage initialized")
	}

	if cfg.Redis.Enabled {
		client, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			closeAll()
			return stores, func() {}, err
		}
		stores.Genres = cache.NewGenreStore(stores.Genres, client, cfg.Redis.TTL, logger)
		stores.Mpa = cache.NewMpaStore(stores.Mpa, client, cfg.Redis.TTL, logger)
		closeStore := closeAll
		closeAll = func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close Redis client", slog.String("error", err.Error()))
			}
			closeStore()
		}
		logger.Info("Redis reference cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
	}
	return stores, closeAll, nil
}

func runServe(cfg config.Config, logger *slog.Logger) error {
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	stores, closeStores, err := openStores(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStores()

	validate := domain.NewValidator(time.Now)
	films := service.NewFilmService(stores, validate, logger)
	users := service.NewUserService(stores, validate, logger)
	genres := service.NewGenreService(stores.Genres, logger)
	mpa := service.NewMpaService(stores.Mpa, logger)

	serveErr := make(chan error, 2)

	// --- Настройка и запуск gRPC сервера ---
	var (
		grpcSrv   *grpc.Server
		healthSrv *health.Server
	)
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.GRPC.Port, err)
		}
		grpcSrv, healthSrv = grpcServer.NewGRPCServer(grpcServer.NewServer(films, users, logger), cfg.HTTP.RateLimit.RPS, cfg.HTTP.RateLimit.Burst)
		reflection.Register(grpcSrv)

		go func() {
			logger.Info("Filmorate gRPC server starting", slog.String("port", cfg.GRPC.Port))
			if err := grpcSrv.Serve(lis); err != nil {
				serveErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// --- Настройка и запуск HTTP сервера ---
	handler := httpAPI.NewHandler(films, users, genres, mpa, logger)
	router := httpAPI.NewRouter(handler, httpAPI.NewLimiter(cfg.HTTP.RateLimit.RPS, cfg.HTTP.RateLimit.Burst))
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		logger.Info("Filmorate HTTP server starting", slog.String("port", cfg.HTTP.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("Filmorate shutting down...", slog.String("signal", sig.String()))
	case runErr = <-serveErr:
		logger.Error("Filmorate server failed, shutting down", slog.String("error", runErr.Error()))
	}

	if healthSrv != nil {
		// клиенты health видят NOT_SERVING до закрытия соединений
		healthSrv.Shutdown()
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Filmorate HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Filmorate HTTP server gracefully stopped.")
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
		logger.Info("Filmorate gRPC server gracefully stopped.")
	}
	return runErr
}
