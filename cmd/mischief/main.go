package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/config"
	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/keeper"
	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/telemetry"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	envFile := flag.String("env-file", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.LoadBotConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded successfully", zap.String("env_file", *envFile))

	keeper.InitMetrics()

	shutdownTracing, err := telemetry.InitTracing(cfg.OTLPEndpoint, "mischief-manager", version, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", zap.Error(err))
		os.Exit(1)
	}
	defer shutdownTracing()

	srv, err := keeper.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		os.Exit(1)
	}
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("received signal, initiating graceful shutdown",
		zap.String("signal", sig.String()),
	)

	if err := srv.Stop(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("mischief manager exited cleanly")
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
