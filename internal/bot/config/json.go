package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/testimonianze/internal/flagx"
	"github.com/dmitrijs2005/testimonianze/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Durations
// use timex.Duration so both "10m" and integer nanoseconds are accepted.
type JsonConfig struct {
	BotToken        string         `json:"bot_token"`
	DatabaseDSN     string         `json:"database_dsn"`
	CSVPath         string         `json:"csv_path"`
	SMTPHost        string         `json:"smtp_host"`
	SMTPPort        int            `json:"smtp_port"`
	SMTPUser        string         `json:"smtp_user"`
	SMTPPassword    string         `json:"smtp_password"`
	SMTPFrom        string         `json:"smtp_from"`
	NotifyEmail     string         `json:"notify_email"`
	SessionIdleTTL  timex.Duration `json:"session_idle_ttl"`
	JanitorInterval timex.Duration `json:"janitor_interval"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// non-empty value into config. A missing flag means nothing to load; an
// unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.BotToken, c.BotToken)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.CSVPath, c.CSVPath)
	setString(&config.Mail.Host, c.SMTPHost)
	setString(&config.Mail.Username, c.SMTPUser)
	setString(&config.Mail.Password, c.SMTPPassword)
	setString(&config.Mail.From, c.SMTPFrom)
	setString(&config.Mail.To, c.NotifyEmail)

	if c.SMTPPort != 0 {
		config.Mail.Port = c.SMTPPort
	}
	if c.SessionIdleTTL.Duration != 0 {
		config.SessionIdleTTL = c.SessionIdleTTL.Duration
	}
	if c.JanitorInterval.Duration != 0 {
		config.JanitorInterval = c.JanitorInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
