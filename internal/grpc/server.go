package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ReadinessChecker reports whether the market can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// Server is the gRPC server. It currently exposes the standard health
// service, reporting SERVING while the market store and journal are usable.
type Server struct {
	mu sync.RWMutex

	// grpcServer is the underlying gRPC server
	grpcServer *gogrpc.Server

	// health tracks the serving status per service
	health *health.Server

	// ready provides the readiness probe
	ready ReadinessChecker

	config   *ServerConfig
	listener net.Listener
	running  bool
	logger   *zap.Logger
}

// NewServer creates a new gRPC server with the given configuration.
func NewServer(cfg *ServerConfig, ready ReadinessChecker, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("grpc")

	opts := []gogrpc.ServerOption{
		gogrpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		gogrpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		gogrpc.UnaryInterceptor(UnaryServerInterceptor(logger)),
	}
	grpcServer := gogrpc.NewServer(opts...)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		ready:      ready,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Serve listens and serves until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.logger.Info("grpc listening", zap.String("address", listener.Addr().String()))

	s.probe(ctx)
	probeCtx, cancelProbe := context.WithCancel(ctx)
	defer cancelProbe()
	go s.probeLoop(probeCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		s.markStopped()
		return err
	case <-ctx.Done():
	}

	s.Stop()
	<-errCh
	return nil
}

func (s *Server) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.ProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe updates the serving status from the readiness checker.
func (s *Server) probe(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.ready != nil {
		if err := s.ready.Ready(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("market not ready", zap.Error(err))
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.running = false
}

func (s *Server) markStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GetGRPCServer returns the underlying grpc.Server.
// This can be used to register additional services.
func (s *Server) GetGRPCServer() *gogrpc.Server {
	return s.grpcServer
}

// UnaryServerInterceptor logs every unary call.
func UnaryServerInterceptor(logger *zap.Logger) gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{zap.String("method", info.FullMethod), zap.Duration("took", time.Since(start))}
		if err != nil {
			logger.Info("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("grpc call", fields...)
		}
		return resp, err
	}
}
