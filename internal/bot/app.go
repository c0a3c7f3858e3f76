// Package bot wires configuration, storage, notification, session handling
// and the Telegram transport into a runnable application.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/testimonianze/internal/bot/config"
	"github.com/dmitrijs2005/testimonianze/internal/bot/repositories/records"
	"github.com/dmitrijs2005/testimonianze/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/testimonianze/internal/bot/services"
	"github.com/dmitrijs2005/testimonianze/internal/bot/sessions"
	"github.com/dmitrijs2005/testimonianze/internal/bot/telegram"
	"github.com/dmitrijs2005/testimonianze/internal/common"
	"github.com/dmitrijs2005/testimonianze/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// transport is the chat side of the app; *telegram.Bot in production.
type transport interface {
	services.Sender
	SetHandler(h telegram.Dispatcher)
	SetCommands(ctx context.Context) error
	Run(ctx context.Context) error
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	store        *services.RecordStore
	janitor      *sessions.Janitor
	orchestrator *services.Orchestrator
	bot          transport
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	if c.BotToken == "" {
		return nil, common.ErrMissingBotToken
	}

	b, err := telegram.New(c.BotToken, logger)
	if err != nil {
		return nil, err
	}

	return newApp(c, logger, b)
}

func newApp(c *config.Config, logger logging.Logger, b transport) (*App, error) {
	var db *sql.DB
	if c.DatabaseDSN != "" {
		var err error
		// sql.Open only validates the DSN; connection problems surface per insert
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	store := services.NewRecordStore(db, repomanager.NewPostgresRepositoryManager(), records.NewCSVRepository(c.CSVPath), logger)

	var notifier services.Notifier = services.NopNotifier{}
	if mn := services.NewMailNotifier(c.Mail, logger); mn.Enabled() {
		notifier = mn
	} else {
		logger.Info(context.Background(), "smtp not fully configured, email notifications disabled")
	}

	ss := sessions.NewStore()
	orch := services.NewOrchestrator(ss, store, notifier, b, logger)
	b.SetHandler(orch)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		store:        store,
		janitor:      sessions.NewJanitor(ss, c.SessionIdleTTL, c.JanitorInterval, logger),
		orchestrator: orch,
		bot:          b,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startBot(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.bot.SetCommands(ctx); err != nil {
		app.logger.Warn(ctx, "command menu not published", "error", err)
	}

	if err := app.bot.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	cancelFunc()
}

// Run serves the bot until ctx is canceled, a termination signal arrives or
// the transport stops. In-flight turns are finished before it returns.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	app.store.Init(ctx)

	if err := app.janitor.Start(ctx); err != nil {
		app.logger.Error(ctx, "session janitor not started", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startBot(ctx, cancelFunc)
	}()

	wg.Wait()

	app.orchestrator.Wait()
	app.janitor.Stop()

	if err := app.closeDB(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}

func (app *App) closeDB() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
