package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"studydesk/backend/internal/srs"
)

type Config struct {
	Port          string        `toml:"port"`
	DBPath        string        `toml:"db_path"`
	MigrationsDir string        `toml:"migrations_dir"`
	SessionSecret string        `toml:"session_secret"`
	SessionTTL    time.Duration `toml:"-"`
	CORSOrigins   []string      `toml:"cors_origins"`
	LogMode       string        `toml:"log_mode"`

	RedisAddr    string `toml:"redis_addr"`
	RedisChannel string `toml:"redis_channel"`
	OTelEnabled  bool   `toml:"otel_enabled"`

	SRS SRSConfig `toml:"srs"`

	FocusWriteTimeout time.Duration `toml:"-"`
	ServerURL         string        `toml:"server"`
	RecentsPath       string        `toml:"recents_path"`

	SessionTTLHours          int `toml:"session_ttl_hours"`
	FocusWriteTimeoutSeconds int `toml:"focus_write_timeout_seconds"`
}

type SRSConfig struct {
	CorrectBonus     float64 `toml:"correct_bonus"`
	IncorrectPenalty float64 `toml:"incorrect_penalty"`
	MinEase          float64 `toml:"min_ease"`
	InitialEase      float64 `toml:"initial_ease"`
	FirstInterval    int     `toml:"first_interval"`
	SecondInterval   int     `toml:"second_interval"`
}

func (c SRSConfig) Params() srs.Params {
	return srs.Params{
		CorrectBonus:     c.CorrectBonus,
		IncorrectPenalty: c.IncorrectPenalty,
		MinEase:          c.MinEase,
		InitialEase:      c.InitialEase,
		FirstInterval:    c.FirstInterval,
		SecondInterval:   c.SecondInterval,
	}
}

func defaults() Config {
	params := srs.DefaultParams()
	return Config{
		Port:          "8080",
		DBPath:        "./data/studydesk.db",
		SessionSecret: "change-this-secret",
		CORSOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		LogMode:       "dev",
		RedisChannel:  "studydesk-sync",
		SRS: SRSConfig{
			CorrectBonus:     params.CorrectBonus,
			IncorrectPenalty: params.IncorrectPenalty,
			MinEase:          params.MinEase,
			InitialEase:      params.InitialEase,
			FirstInterval:    params.FirstInterval,
			SecondInterval:   params.SecondInterval,
		},
		SessionTTLHours:          24 * 30,
		FocusWriteTimeoutSeconds: 10,
	}
}

// Load reads defaults, then the TOML file named by STUDYDESK_CONFIG, then
// environment overrides.
func Load() (Config, error) {
	cfg := defaults()

	if path := getEnv("STUDYDESK_CONFIG", ""); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTLHours = getEnvInt("SESSION_TTL_HOURS", cfg.SessionTTLHours)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisChannel = getEnv("REDIS_CHANNEL", cfg.RedisChannel)
	cfg.OTelEnabled = getEnvBool("OTEL_ENABLED", cfg.OTelEnabled)

	cfg.SRS.CorrectBonus = getEnvFloat("SRS_CORRECT_BONUS", cfg.SRS.CorrectBonus)
	cfg.SRS.IncorrectPenalty = getEnvFloat("SRS_INCORRECT_PENALTY", cfg.SRS.IncorrectPenalty)
	cfg.SRS.MinEase = getEnvFloat("SRS_MIN_EASE", cfg.SRS.MinEase)
	cfg.SRS.InitialEase = getEnvFloat("SRS_INITIAL_EASE", cfg.SRS.InitialEase)
	cfg.SRS.FirstInterval = getEnvInt("SRS_FIRST_INTERVAL", cfg.SRS.FirstInterval)
	cfg.SRS.SecondInterval = getEnvInt("SRS_SECOND_INTERVAL", cfg.SRS.SecondInterval)

	cfg.FocusWriteTimeoutSeconds = getEnvInt("FOCUS_WRITE_TIMEOUT_SECONDS", cfg.FocusWriteTimeoutSeconds)
	cfg.ServerURL = getEnv("STUDYDESK_SERVER", cfg.ServerURL)
	cfg.RecentsPath = getEnv("STUDYDESK_RECENTS", cfg.RecentsPath)

	if cfg.SessionTTLHours <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive, got %d hours", cfg.SessionTTLHours)
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLHours) * time.Hour
	if cfg.FocusWriteTimeoutSeconds <= 0 {
		cfg.FocusWriteTimeoutSeconds = 10
	}
	cfg.FocusWriteTimeout = time.Duration(cfg.FocusWriteTimeoutSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
