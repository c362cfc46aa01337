package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disease-predictor/internal/config"
	"disease-predictor/internal/platform/logging"
	"disease-predictor/internal/stubservice"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default "+config.DefaultPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger := logging.Init("predictor-stub", "development", "info", nil)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.Init("predictor-stub", cfg.Log.Env, cfg.Log.Level, nil)

	data, err := stubservice.DefaultDataset()
	if cfg.Stub.Dataset != "" {
		data, err = stubservice.LoadDataset(cfg.Stub.Dataset)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load dataset")
	}

	handler := stubservice.NewHandler(data, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Stub.Port,
		Handler:           stubservice.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Stub.Port).
			Int("symptoms", len(data.Symptoms)).
			Int("diseases", len(data.Diseases)).
			Msg("stub prediction service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
