// Package telegram connects the survey orchestrator to the Telegram Bot API
// using long polling.
package telegram

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/testimonianze/internal/bot/services"
	"github.com/dmitrijs2005/testimonianze/internal/logging"
	"github.com/dmitrijs2005/testimonianze/internal/survey"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeout = 60

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dispatcher receives every accepted inbound turn.
type Dispatcher interface {
	Submit(ctx context.Context, t services.Turn)
}

type Bot struct {
	api     botAPI
	handler Dispatcher
	logger  logging.Logger
}

// New authenticates against the Bot API with token.
func New(token string, logger logging.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	b := newBot(api, logger)
	b.logger.Info(context.Background(), "telegram bot authenticated", "username", api.Self.UserName, "id", api.Self.ID)
	return b, nil
}

func newBot(api botAPI, logger logging.Logger) *Bot {
	return &Bot{api: api, logger: logger.With("module", "telegram")}
}

// SetHandler installs the dispatcher for inbound turns. It must be called
// before Run.
func (b *Bot) SetHandler(h Dispatcher) {
	b.handler = h
}

// SetCommands publishes the command menu shown by Telegram clients.
func (b *Bot) SetCommands(ctx context.Context) error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: survey.StartCommand, Description: "Inizia una nuova testimonianza"},
		tgbotapi.BotCommand{Command: survey.StopCommand, Description: "Interrompi la conversazione"},
		tgbotapi.BotCommand{Command: survey.SkipName, Description: "Salta l'email"},
	)
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// Run polls for updates and dispatches them until ctx is done or the update
// channel closes.
func (b *Bot) Run(ctx context.Context) error {
	if b.handler == nil {
		return fmt.Errorf("telegram bot has no handler")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info(ctx, "telegram bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info(ctx, "telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			turn, ok := toTurn(update.Message)
			if !ok {
				continue
			}
			// accepted turns complete even if shutdown starts meanwhile
			b.handler.Submit(context.WithoutCancel(ctx), turn)
		}
	}
}

// Send implements services.Sender.
func (b *Bot) Send(ctx context.Context, chatID int64, msg survey.Message) error {
	if _, err := b.api.Send(buildMessage(chatID, msg)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	b.logger.Debug(ctx, "message sent", "chat_id", chatID)
	return nil
}

// toTurn extracts a turn from a text message. Anything without a sender or
// text (stickers, photos, service messages) is dropped.
func toTurn(msg *tgbotapi.Message) (services.Turn, bool) {
	// Telegram never delivers an empty text message, so empty Text means a
	// non-text payload, which the conversation does not accept.
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return services.Turn{}, false
	}

	t := services.Turn{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.UserName,
		Text:     msg.Text,
	}
	if msg.IsCommand() {
		t.Command = msg.Command()
	}
	return t, true
}

func buildMessage(chatID int64, m survey.Message) tgbotapi.MessageConfig {
	cfg := tgbotapi.NewMessage(chatID, m.Text)
	if m.HTML {
		cfg.ParseMode = tgbotapi.ModeHTML
	}

	switch {
	case len(m.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Keyboard))
		for _, labels := range m.Keyboard {
			row := make([]tgbotapi.KeyboardButton, 0, len(labels))
			for _, l := range labels {
				row = append(row, tgbotapi.NewKeyboardButton(l))
			}
			rows = append(rows, row)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.OneTimeKeyboard = true
		kb.ResizeKeyboard = true
		cfg.ReplyMarkup = kb
	case m.RemoveKeyboard:
		cfg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	return cfg
}
