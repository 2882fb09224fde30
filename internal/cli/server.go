package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeJamon/nftmarketd/internal/config"
	"github.com/LeJamon/nftmarketd/internal/grpc"
	"github.com/LeJamon/nftmarketd/internal/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mlog "github.com/LeJamon/nftmarketd/internal/log"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the market daemon",
	Long: `Start the marketd server which provides:
- HTTP JSON-RPC API endpoint
- WebSocket endpoint streaming submission results
- Health check endpoint (/healthz)
- gRPC health service, when enabled

The marketplace is initialized from the [market] section on first start.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := mlog.NewLogger(mlog.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cfg.Log.Console,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs every endpoint until ctx is cancelled or one of them fails.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	n, err := openNode(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting marketd",
		zap.String("version", Version),
		zap.String("config", cfg.GetConfigPath()),
		zap.String("database", cfg.Database.Type),
		zap.Bool("journal", cfg.Journal.Enabled),
		zap.String("custody", cfg.Custody.Mode))

	httpService := rpc.NewHTTPService(rpc.Config{
		Address: cfg.RPC.Address,
		WSPath:  cfg.RPC.WSPath,
		Timeout: cfg.RPC.Timeout,
	}, n.services(), logger)

	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		grpcCfg := grpc.DefaultServerConfig()
		grpcCfg.Address = cfg.GRPC.Address
		grpcCfg.ProbeInterval = cfg.GRPC.ProbeInterval
		grpcServer, err = grpc.NewServer(grpcCfg, n.host, logger)
		if err != nil {
			return fmt.Errorf("failed to create grpc server: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpService.Serve(gctx)
	})
	if grpcServer != nil {
		g.Go(func() error {
			return grpcServer.Serve(gctx)
		})
	}

	err = g.Wait()
	logger.Info("marketd stopped")
	return err
}
