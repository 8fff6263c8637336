package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/renebarto/gonet/internal/config"
	"github.com/renebarto/gonet/internal/connworker"
	"github.com/renebarto/gonet/internal/sockapi"
	"github.com/renebarto/gonet/internal/tcpserver"
)

func serveCmd() *cobra.Command {
	var configPath string
	var port uint16

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the TCP echo server in the foreground for manual testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeForeground(cmd.Context(), configPath, port)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to configuration file (YAML)")
	cmd.Flags().Uint16Var(&port, "port", 0, "override the configured listen port (0 keeps the config value)")

	return cmd
}

func runServeForeground(ctx context.Context, configPath string, portOverride uint16) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config from %s: %w", configPath, err)
		}
		cfg = loaded
	}
	if portOverride != 0 {
		cfg.Server.Port = portOverride
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.Log.Level),
	}))

	echo := connworker.DataCallback(func(data []byte) ([]byte, bool) {
		reply := make([]byte, len(data))
		copy(reply, data)
		return reply, true
	})

	srv := tcpserver.New(sockapi.NewSysAPI(), echo, logger)
	if err := srv.Start(cfg.Server.Port, cfg.Server.Backlog, cfg.Server.AcceptTimeout); err != nil {
		return fmt.Errorf("start tcp server: %w", err)
	}

	logger.Info("serving", slog.Uint64("port", uint64(cfg.Server.Port)))

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("shutting down")
	return srv.Stop()
}
