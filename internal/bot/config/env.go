package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBotToken       = "BOT_TOKEN"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvCSVPath        = "CSV_PATH"
	EnvSMTPHost       = "SMTP_HOST"
	EnvSMTPPort       = "SMTP_PORT"
	EnvSMTPUser       = "SMTP_USER"
	EnvSMTPPassword   = "SMTP_PASSWORD"
	EnvSMTPFrom       = "SMTP_FROM"
	EnvNotifyEmail    = "NOTIFY_EMAIL"
	EnvSessionIdleTTL = "SESSION_IDLE_TTL"
)

// parseEnv loads a .env file from the working directory, when present, and
// then overlays any set environment variables onto config. Variables already
// present in the process environment win over the file.
func parseEnv(config *Config) {
	// a missing .env is the normal case in production
	_ = godotenv.Load()
	applyEnv(config, os.LookupEnv)
}

// applyEnv copies non-empty values found via lookup into config. Malformed
// numbers or durations panic, as with malformed flags.
func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvBotToken, &config.BotToken)
	str(EnvDatabaseURL, &config.DatabaseDSN)
	str(EnvCSVPath, &config.CSVPath)
	str(EnvSMTPHost, &config.Mail.Host)
	str(EnvSMTPUser, &config.Mail.Username)
	str(EnvSMTPPassword, &config.Mail.Password)
	str(EnvSMTPFrom, &config.Mail.From)
	str(EnvNotifyEmail, &config.Mail.To)

	if v, ok := lookup(EnvSMTPPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.Mail.Port = port
	}

	if v, ok := lookup(EnvSessionIdleTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionIdleTTL = d
	}
}
