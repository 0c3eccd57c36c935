package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fastygo/spicecms/internal/client/api"
	"github.com/fastygo/spicecms/internal/client/cli"
	"github.com/fastygo/spicecms/internal/client/syncer"
	"github.com/fastygo/spicecms/internal/config"
	"github.com/fastygo/spicecms/internal/infrastructure/fallback"
	"github.com/fastygo/spicecms/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Client.LogLevel,
		Encoding: "console",
		Output:   os.Stderr,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := api.New(cfg.Client.APIURL, api.WithTimeout(cfg.Client.Timeout))
	if err != nil {
		zapLogger.Fatal("invalid api url", zap.Error(err))
	}

	local, err := fallback.Open(cfg.Client.FallbackPath, "")
	if err != nil {
		zapLogger.Fatal("failed to open fallback store", zap.String("path", cfg.Client.FallbackPath), zap.Error(err))
	}
	defer local.Close()

	s := syncer.New(backend, local, zapLogger, syncer.Config{CallTimeout: cfg.Client.Timeout})
	loaded, err := s.Start(ctx).Wait(ctx)
	if err != nil {
		zapLogger.Fatal("initial load interrupted", zap.Error(err))
	}
	zapLogger.Info("state ready", zap.Stringer("source", loaded.Source), zap.Stringer("outcome", loaded.Outcome))

	runErr := cli.NewApp(s, os.Stdout).Run(ctx, os.Args[1:])

	if err := s.Close(context.Background()); err != nil {
		zapLogger.Warn("synchronizer did not drain", zap.Error(err))
	}
	if runErr != nil {
		if !errors.Is(runErr, cli.ErrUsage) {
			zapLogger.Error("command failed", zap.Error(runErr))
		} else {
			log.Print(runErr)
		}
		os.Exit(1)
	}
}
