package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"filmorate/internal/config"
	"filmorate/internal/domain"
	grpcServer "filmorate/internal/grpc"
)

func TestParseArgs(t *testing.T) {
	t.Setenv("FILMORATE_HTTP_PORT", "8181")

	o, err := parseArgs([]string{"--storage-driver", "pgx", "--database-url", "postgres://localhost/filmorate", "--redis-addr", "cache:6379"})
	require.NoError(t, err)
	assert.Equal(t, commandServe, o.command)

	cfg := config.Default()
	o.apply(&cfg)
	assert.Equal(t, "8181", cfg.HTTP.Port)
	assert.Equal(t, config.DriverPgx, cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/filmorate", cfg.Storage.DSN)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "9090", cfg.GRPC.Port)
	require.NoError(t, cfg.Validate())
}

func TestParseArgsCheck(t *testing.T) {
	o, err := parseArgs([]string{"check", "film", "3", "--addr", "films:9090"})
	require.NoError(t, err)
	assert.Equal(t, commandCheck, o.command)
	assert.Equal(t, "film", o.checkKind)
	assert.Equal(t, int64(3), o.checkID)
	assert.Equal(t, "films:9090", o.checkAddr)

	o, err = parseArgs([]string{"check", "health"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9090", o.checkAddr)

	_, err = parseArgs([]string{"check", "user"})
	assert.EqualError(t, err, "check user needs an id")

	_, err = parseArgs([]string{"check", "review", "1"})
	assert.Error(t, err)

	_, err = parseArgs([]string{"serve", "--storage-driver", "mysql"})
	assert.Error(t, err)
}

type fakeFilms map[int64]*domain.Film

func (f fakeFilms) FindByID(_ context.Context, id int64) (*domain.Film, error) {
	if film, ok := f[id]; ok {
		return film, nil
	}
	return nil, domain.NewNotFoundError(domain.EntityFilm, id)
}

type fakeUsers map[int64]*domain.User

func (u fakeUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, domain.NewNotFoundError(domain.EntityUser, id)
}

func TestRunCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := grpcServer.NewServer(
		fakeFilms{1: {ID: 1, Name: "Сталкер", ReleaseDate: domain.NewDate(1979, time.May, 25), Duration: 163, Mpa: domain.Mpa{ID: 2, Name: "PG"}}},
		fakeUsers{5: {ID: 5, Login: "andrei"}},
		logger,
	)
	lis := bufconn.Listen(1 << 20)
	srv, _ := grpcServer.NewGRPCServer(catalog, 0, 0)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)
	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})

	tests := []struct {
		name string
		opts options
		want string
	}{
		{name: "health", opts: options{checkKind: "health"}, want: "SERVING\n"},
		{name: "user exists", opts: options{checkKind: "user", checkID: 5}, want: "user 5 exists: true\n"},
		{name: "user missing", opts: options{checkKind: "user", checkID: 6}, want: "user 6 exists: false\n"},
		{name: "film missing", opts: options{checkKind: "film", checkID: 2}, want: "film 2 exists: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.checkAddr = "passthrough:///bufnet"
			var out bytes.Buffer
			require.NoError(t, runCheck(tt.opts, &out, logger, dialer))
			assert.Equal(t, tt.want, out.String())
		})
	}

	var out bytes.Buffer
	require.NoError(t, runCheck(options{checkKind: "film", checkID: 1, checkAddr: "passthrough:///bufnet"}, &out, logger, dialer))
	assert.Contains(t, out.String(), `"name": "Сталкер"`)
	assert.Contains(t, out.String(), `"releaseDate": "1979-05-25"`)
}
