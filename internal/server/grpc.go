package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
)

// grpcServer exposes the standard gRPC health-checking protocol so
// orchestrators can probe the process over gRPC while all business traffic
// rides on HTTP.
type grpcServer struct {
	server          *grpc.Server
	health          *health.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("gRPC listen on %s: %w", cfg.GRPCAddress, err)
	}

	srv := grpc.NewServer()
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &grpcServer{
		server:          srv,
		health:          healthSrv,
		gRPCNetListener: listener,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Error().Msgf("gRPC server Serve: %v", err)
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.health.Shutdown()
	g.server.GracefulStop()
}
