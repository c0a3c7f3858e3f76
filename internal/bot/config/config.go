// Package config handles configuration for the bot, layering defaults,
// environment variables (optionally from a .env file), a JSON file and
// command-line flags, in that order.
package config

import "time"

// Mail holds the SMTP relay parameters used for operator notifications.
// Notification is enabled only when every field is set.
type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username when empty.
	From string
	To   string
}

// Complete reports whether all delivery parameters are present.
func (m Mail) Complete() bool {
	return m.Host != "" && m.Port > 0 && m.Username != "" && m.Password != "" && m.To != ""
}

// Sender returns the envelope sender address.
func (m Mail) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

// Config holds runtime settings for the survey bot.
//
// Fields:
//   - BotToken: Telegram bot API token. Required.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty disables the relational store
//     and every record goes to the CSV file.
//   - CSVPath: append-only fallback file.
//   - Mail: SMTP relay for notifications.
//   - SessionIdleTTL: abandoned conversations older than this are dropped.
//     Zero disables eviction.
//   - JanitorInterval: how often idle sessions are swept.
type Config struct {
	BotToken        string
	DatabaseDSN     string
	CSVPath         string
	Mail            Mail
	SessionIdleTTL  time.Duration
	JanitorInterval time.Duration
}

// LoadDefaults populates Config with development defaults. Mail has no
// defaults: notification stays off until every SMTP parameter is given.
func (c *Config) LoadDefaults() {
	c.CSVPath = "testimonianze.csv"
	c.SessionIdleTTL = 24 * time.Hour
	c.JanitorInterval = 10 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
