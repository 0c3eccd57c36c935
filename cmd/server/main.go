package main

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/spicecms/api/handler"
	"github.com/fastygo/spicecms/internal/config"
	"github.com/fastygo/spicecms/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/spicecms/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/spicecms/internal/infrastructure/redis"
	"github.com/fastygo/spicecms/internal/middleware"
	"github.com/fastygo/spicecms/internal/router"
	"github.com/fastygo/spicecms/internal/services"
	"github.com/fastygo/spicecms/internal/services/lifecycle"
	"github.com/fastygo/spicecms/pkg/httpcontext"
	"github.com/fastygo/spicecms/pkg/logger"
	"github.com/fastygo/spicecms/repository"
	"github.com/fastygo/spicecms/repository/bolt"
	pgRepo "github.com/fastygo/spicecms/repository/postgres"
	redisRepo "github.com/fastygo/spicecms/repository/redis"
	cmsUC "github.com/fastygo/spicecms/usecase/cms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen()
	appCtx := manager.Context()

	store, err := openStore(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register("storage", func(ctx context.Context) error {
		return store.Close()
	})

	mon := monitor.New(store, cfg.Storage.Driver, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	cmsUseCase := cmsUC.New(store, zapLogger)

	exporter := services.NewSnapshotExporter(cmsUseCase, zapLogger, services.ExporterConfig{
		Path:     cfg.Export.Path,
		Interval: cfg.Export.Interval,
	})
	exporter.Start()
	manager.Register("snapshot_exporter", exporter.Stop)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		CMS:    apiHandler.NewCMSHandler(cmsUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	handler := router.New(handlers,
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.CORS.AllowOrigin),
	)

	server := &fasthttp.Server{
		Handler:            handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Name:               cfg.AppName,
	}

	ln, err := net.Listen("tcp4", cfg.Address())
	if err != nil {
		zapLogger.Fatal("listen failed", zap.String("address", cfg.Address()), zap.Error(err))
	}
	manager.Go("http_server", func(ctx context.Context) error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver))
		return server.Serve(ln)
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	if err := manager.Wait(); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore connects the document store selected by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (repository.DocumentStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		return bolt.Open(cfg.Storage.BoltPath, "")

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisRepo.NewDocumentStore(client), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		return pgRepo.NewDocumentStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
