package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given. It may be
// absent.
const DefaultPath = "predictor.yaml"

// Config holds all application configuration
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
	Stub     StubConfig     `yaml:"stub"`
}

// ServiceConfig points at the remote disease classifier.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig enables prediction history when URL is set.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type TelegramConfig struct {
	Token        string `yaml:"token"`
	DoctorChatID int64  `yaml:"doctor_chat_id"`
}

type ReportConfig struct {
	Dir       string   `yaml:"dir"`
	FontPaths []string `yaml:"font_paths"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// StubConfig configures the development stub service.
type StubConfig struct {
	Port    string `yaml:"port"`
	Dataset string `yaml:"dataset"`
}

func defaults() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
		},
		Report: ReportConfig{
			Dir: "reports",
			FontPaths: []string{
				"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			},
		},
		Log: LogConfig{
			Level: "info",
			Env:   "production",
		},
		Stub: StubConfig{
			Port: "5000",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// environment variables, in that order. A missing file is only an error when
// path was chosen explicitly.
func Load(path string) (*Config, error) {
	cfg := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Service.BaseURL = getEnv("PREDICTOR_BASE_URL", cfg.Service.BaseURL)
	cfg.Service.Timeout = getEnvAsDuration("PREDICTOR_TIMEOUT", cfg.Service.Timeout)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.Token)
	cfg.Telegram.DoctorChatID = getEnvAsInt64("DOCTOR_CHAT_ID", cfg.Telegram.DoctorChatID)
	cfg.Report.Dir = getEnv("REPORT_DIR", cfg.Report.Dir)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Env = getEnv("APP_ENV", cfg.Log.Env)
	cfg.Stub.Port = getEnv("PORT", cfg.Stub.Port)
	cfg.Stub.Dataset = getEnv("STUB_DATA", cfg.Stub.Dataset)
}

// Validate checks the settings the client cannot run without.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return errors.New("config: service.base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: service.base_url %q must be an http(s) URL", c.Service.BaseURL)
	}
	if c.Service.Timeout <= 0 {
		return errors.New("config: service.timeout must be positive")
	}
	return nil
}

// TelegramEnabled reports whether reports can be shared with a doctor.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.DoctorChatID != 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
