package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"disease-predictor/internal/config"
	"disease-predictor/internal/history"
	"disease-predictor/internal/platform/logging"
	"disease-predictor/internal/platform/telegram"
	"disease-predictor/internal/predictor"
	"disease-predictor/internal/report"
	"disease-predictor/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default "+config.DefaultPath+")")
	baseURL := flag.String("base-url", "", "prediction service base URL, overrides config")
	flag.Parse()

	if *baseURL != "" {
		os.Setenv("PREDICTOR_BASE_URL", *baseURL)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger := logging.Init("disease-predictor", "development", "info", nil)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.Init("disease-predictor", cfg.Log.Env, cfg.Log.Level, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := predictor.NewClient(cfg.Service.BaseURL, predictor.WithTimeout(cfg.Service.Timeout))

	opts := []tui.Option{
		tui.WithLogger(logger),
		tui.WithReports(newReportService(cfg, logger), cfg.Report.Dir),
	}
	if repo := connectHistory(ctx, cfg, logger); repo != nil {
		opts = append(opts, tui.WithHistory(repo))
	}

	session, err := tui.NewSession(client, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start session")
	}

	logger.Info().Str("base_url", cfg.Service.BaseURL).Msg("starting disease predictor")
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("session ended with error")
	}
}

// connectHistory returns nil when no database is configured or it cannot be
// reached; the client then runs without history.
func connectHistory(ctx context.Context, cfg *config.Config, logger zerolog.Logger) history.Repository {
	if cfg.Database.URL == "" {
		return nil
	}
	db, err := history.Connect(ctx, cfg.Database.URL, 5, 2*time.Second)
	if err != nil {
		logger.Warn().Err(err).Msg("history database unavailable, continuing without history")
		return nil
	}
	if err := history.Migrate(cfg.Database.URL); err != nil {
		logger.Warn().Err(err).Msg("history migrations failed, continuing without history")
		db.Close()
		return nil
	}
	logger.Info().Msg("prediction history enabled")
	return history.NewRepository(db)
}

func newReportService(cfg *config.Config, logger zerolog.Logger) *report.Service {
	var tg report.TelegramClient
	if cfg.TelegramEnabled() {
		tg = telegram.NewClient(cfg.Telegram.Token)
	} else {
		logger.Debug().Msg("TELEGRAM_BOT_TOKEN or DOCTOR_CHAT_ID not set, reports stay local")
	}
	return report.NewService(tg, cfg.Telegram.DoctorChatID, cfg.Report.FontPaths, logger)
}
