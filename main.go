package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"airsat/config"
	shttp "airsat/http"
	"airsat/logger"
	"airsat/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logger
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Load model
	model, modelLoaded := initializeModel(ctx, cfg, zlog)
	handler := shttp.NewHandler(ml.NewPredictor(model), modelLoaded, cfg.UI, zlog)

	// 4. Start HTTP server
	server := shttp.NewServer(shttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}, handler)
	go func() {
		if err := server.Start(); err != nil {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	if err := server.Stop(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("exiting")
}

// initializeModel loads the artifact behind a reloader and, if configured, a
// prediction cache. A missing artifact is logged, not fatal: the form still
// renders and predictions report the classifier as unavailable.
func initializeModel(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (ml.Model, func() bool) {
	reloading, err := ml.NewReloadingModel(cfg.Model.Type, cfg.Model.Path, zlog)
	if err != nil {
		zlog.Error("model not loaded", zap.Error(err))
	}

	if cfg.Model.Watch {
		if err := reloading.Watch(ctx); err != nil {
			zlog.Error("model watch disabled", zap.Error(err))
		}
	}

	if cfg.Model.CacheSize == 0 {
		return reloading, reloading.Loaded
	}
	cached, err := ml.NewCachedModel(reloading, cfg.Model.CacheSize)
	if err != nil {
		zlog.Error("prediction cache disabled", zap.Error(err))
		return reloading, reloading.Loaded
	}
	reloading.OnReload(cached.Purge)
	return cached, reloading.Loaded
}
