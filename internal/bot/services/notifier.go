package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/bot/config"
	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/logging"
	"gopkg.in/gomail.v2"
)

// Notifier tells an operator about a stored record. Implementations absorb
// every failure; a notification problem never affects the stored record.
type Notifier interface {
	Notify(ctx context.Context, rec models.Record)
}

// NopNotifier drops notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, models.Record) {}

// MailNotifier sends one plain-text email per record through an SMTP relay
// over implicit TLS.
type MailNotifier struct {
	cfg    config.Mail
	logger logging.Logger
	send   func(m *gomail.Message) error
}

func NewMailNotifier(cfg config.Mail, logger logging.Logger) *MailNotifier {
	n := &MailNotifier{
		cfg:    cfg,
		logger: logger.With("module", "notifier"),
	}
	n.send = n.dialAndSend
	return n
}

// Enabled reports whether every delivery parameter is configured.
func (n *MailNotifier) Enabled() bool {
	return n.cfg.Complete()
}

// Notify emails a summary of rec. With incomplete configuration it only logs.
func (n *MailNotifier) Notify(ctx context.Context, rec models.Record) {
	if !n.Enabled() {
		n.logger.Info(ctx, "notifier disabled, skipping email", "id", rec.ID.String())
		return
	}

	if err := n.send(n.compose(rec)); err != nil {
		n.logger.Warn(ctx, "notification failed", "id", rec.ID.String(), "error", err)
		return
	}

	n.logger.Info(ctx, "notification sent", "id", rec.ID.String())
}

func (n *MailNotifier) compose(rec models.Record) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.Sender())
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", "Nuova testimonianza "+rec.ID.String())
	m.SetBody("text/plain", Summary(rec))
	return m
}

func (n *MailNotifier) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	d.SSL = true
	return d.DialAndSend(m)
}

// Summary renders the fixed human-readable description of rec.
func Summary(rec models.Record) string {
	username := "-"
	if rec.Username != nil && *rec.Username != "" {
		username = "@" + *rec.Username
	}
	email := rec.Email
	if email == "" {
		email = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", rec.ID)
	fmt.Fprintf(&b, "Data: %s\n", rec.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Utente: %d (%s)\n", rec.UserID, username)
	fmt.Fprintf(&b, "Ateneo: %s\n", rec.Ateneo)
	fmt.Fprintf(&b, "Anno: %s\n", rec.Anno)
	fmt.Fprintf(&b, "Esito: %s\n", rec.Esito)
	fmt.Fprintf(&b, "Email: %s\n", email)
	fmt.Fprintf(&b, "\n%s\n", rec.Testo)
	return b.String()
}
