package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "testimonianze.csv", c.CSVPath)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, 0, c.Mail.Port)
	assert.Equal(t, 24*time.Hour, c.SessionIdleTTL)
	assert.Equal(t, 10*time.Minute, c.JanitorInterval)
	assert.False(t, c.Mail.Complete())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	for _, k := range []string{EnvBotToken, EnvDatabaseURL, EnvCSVPath, EnvSMTPHost, EnvSMTPPort, EnvSessionIdleTTL} {
		t.Setenv(k, "")
	}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, "testimonianze.csv", c.CSVPath)
	assert.Equal(t, 0, c.Mail.Port)
	assert.Equal(t, 24*time.Hour, c.SessionIdleTTL)
}

func TestMail_Complete(t *testing.T) {
	full := Mail{Host: "smtp.example.org", Port: 465, Username: "bot@example.org", Password: "pw", To: "ops@example.org"}
	assert.True(t, full.Complete())
	assert.Equal(t, "bot@example.org", full.Sender())

	withFrom := full
	withFrom.From = "noreply@example.org"
	assert.Equal(t, "noreply@example.org", withFrom.Sender())

	for name, mutate := range map[string]func(*Mail){
		"host":     func(m *Mail) { m.Host = "" },
		"port":     func(m *Mail) { m.Port = 0 },
		"user":     func(m *Mail) { m.Username = "" },
		"password": func(m *Mail) { m.Password = "" },
		"to":       func(m *Mail) { m.To = "" },
	} {
		t.Run("missing "+name, func(t *testing.T) {
			m := full
			mutate(&m)
			assert.False(t, m.Complete())
		})
	}
}
