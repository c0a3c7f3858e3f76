package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   Telegram bot token
//	-d string   PostgreSQL DSN (empty: CSV only)
//	-f string   CSV fallback file path
//	-m string   SMTP host
//	-o int      SMTP port
//	-u string   SMTP user
//	-p string   SMTP password
//	-r string   notification recipient
//	-i int      session idle TTL, minutes (0 disables eviction)
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-d", "-f", "-m", "-o", "-u", "-p", "-r", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BotToken, "t", config.BotToken, "telegram bot token")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CSVPath, "f", config.CSVPath, "csv fallback path")

	fs.StringVar(&config.Mail.Host, "m", config.Mail.Host, "SMTP host")
	fs.IntVar(&config.Mail.Port, "o", config.Mail.Port, "SMTP port")
	fs.StringVar(&config.Mail.Username, "u", config.Mail.Username, "SMTP user")
	fs.StringVar(&config.Mail.Password, "p", config.Mail.Password, "SMTP password")
	fs.StringVar(&config.Mail.To, "r", config.Mail.To, "notification recipient")

	idleTTL := fs.Int("i", int(config.SessionIdleTTL.Minutes()), "session idle TTL (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -i overrides, so sub-minute values from env or JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			config.SessionIdleTTL = time.Duration(*idleTTL) * time.Minute
		}
	})
}
