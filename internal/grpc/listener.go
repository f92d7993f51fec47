package grpc

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/ratelimit"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"filmorate/internal/genproto/catalogpb"
)

type limiter struct {
	l *rate.Limiter
}

func newLimiter(rps float64, burst int) *limiter {
	if rps <= 0 {
		return &limiter{rate.NewLimiter(rate.Inf, 0)}
	}
	return &limiter{rate.NewLimiter(rate.Limit(rps), burst)}
}

// Limit сообщает интерцептору, что запрос нужно отклонить.
func (l *limiter) Limit() bool {
	return !l.l.Allow()
}

// NewGRPCServer регистрирует каталог и health сервис на новом grpc.Server.
// rps <= 0 отключает ограничение частоты.
func NewGRPCServer(catalog *Server, rps float64, burst int, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(ratelimit.UnaryServerInterceptor(newLimiter(rps, burst))),
	}, opts...)
	srv := grpc.NewServer(opts...)
	catalogpb.RegisterCatalogServer(srv, catalog)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(catalogpb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)
	return srv, healthSrv
}
