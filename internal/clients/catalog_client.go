// internal/clients/catalog_client.go
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"filmorate/internal/genproto/catalogpb"
)

// CallTimeout таймаут одного вызова.
const CallTimeout = 3 * time.Second

// CatalogClient обращается к сервису filmorate.v1.Catalog.
type CatalogClient struct {
	client catalogpb.CatalogClient
	health healthpb.HealthClient
	logger *slog.Logger
	conn   *grpc.ClientConn
}

// NewCatalogClient создает клиент. Соединение устанавливается лениво при первом вызове.
// addr - адрес gRPC сервера (например, "localhost:9090").
func NewCatalogClient(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*CatalogClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()), // Для разработки; в продакшене используйте TLS
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		logger.Error("Failed to create Catalog gRPC client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create catalog client for %s: %w", addr, err)
	}
	return &CatalogClient{
		client: catalogpb.NewCatalogClient(conn),
		health: healthpb.NewHealthClient(conn),
		logger: logger,
		conn:   conn,
	}, nil
}

func (c *CatalogClient) logFailure(ctx context.Context, method string, id int64, err error) {
	st, _ := status.FromError(err)
	c.logger.ErrorContext(ctx, "Catalog."+method+" gRPC call failed",
		slog.Int64("id", id),
		slog.String("code", st.Code().String()),
		slog.String("message", st.Message()))
}

// FilmExists вызывает gRPC метод FilmExists.
func (c *CatalogClient) FilmExists(ctx context.Context, filmID int64) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := c.client.FilmExists(callCtx, wrapperspb.Int64(filmID))
	if err != nil {
		c.logFailure(ctx, "FilmExists", filmID, err)
		return false, fmt.Errorf("grpc FilmExists failed for film %d: %w", filmID, err)
	}
	c.logger.DebugContext(ctx, "Catalog.FilmExists gRPC call successful", slog.Int64("filmID", filmID), slog.Bool("exists", res.GetValue()))
	return res.GetValue(), nil
}

// UserExists вызывает gRPC метод UserExists.
func (c *CatalogClient) UserExists(ctx context.Context, userID int64) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := c.client.UserExists(callCtx, wrapperspb.Int64(userID))
	if err != nil {
		c.logFailure(ctx, "UserExists", userID, err)
		return false, fmt.Errorf("grpc UserExists failed for user %d: %w", userID, err)
	}
	c.logger.DebugContext(ctx, "Catalog.UserExists gRPC call successful", slog.Int64("userID", userID), slog.Bool("exists", res.GetValue()))
	return res.GetValue(), nil
}

// GetFilm возвращает фильм в JSON форме HTTP API.
func (c *CatalogClient) GetFilm(ctx context.Context, filmID int64) (map[string]interface{}, error) {
	callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := c.client.GetFilm(callCtx, wrapperspb.Int64(filmID))
	if err != nil {
		c.logFailure(ctx, "GetFilm", filmID, err)
		return nil, fmt.Errorf("grpc GetFilm failed for film %d: %w", filmID, err)
	}
	return res.AsMap(), nil
}

// Health проверяет статус сервиса Catalog через grpc.health.v1.
func (c *CatalogClient) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	res, err := c.health.Check(callCtx, &healthpb.HealthCheckRequest{Service: catalogpb.ServiceName})
	if err != nil {
		c.logFailure(ctx, "Health", 0, err)
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("grpc health check failed: %w", err)
	}
	return res.GetStatus(), nil
}

// Close закрывает gRPC соединение.
func (c *CatalogClient) Close() error {
	if c.conn != nil {
		c.logger.Info("Closing gRPC connection to Catalog")
		return c.conn.Close()
	}
	return nil
}
