// Package services binds chat turns to survey sessions and runs the finalize
// hand-off: persist the record, notify the operator, acknowledge the user.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/bot/sessions"
	"github.com/dmitrijs2005/testimonianze/internal/logging"
	"github.com/dmitrijs2005/testimonianze/internal/survey"
	"github.com/google/uuid"
)

// Turn is one inbound user message as delivered by the transport.
type Turn struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
	// Command is the bot command without its slash ("start"), or "" for plain text.
	Command string
}

// Sender delivers one outbound message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, msg survey.Message) error
}

// Persister is the part of RecordStore the orchestrator depends on.
type Persister interface {
	Persist(ctx context.Context, rec *models.Record) Outcome
}

type Orchestrator struct {
	sessions *sessions.Store
	store    Persister
	notifier Notifier
	sender   Sender
	logger   logging.Logger

	newID func() uuid.UUID
	now   func() time.Time

	queueMu sync.Mutex
	queues  map[int64][]queuedTurn
	wg      sync.WaitGroup
}

func NewOrchestrator(store *sessions.Store, p Persister, n Notifier, s Sender, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		sessions: store,
		store:    p,
		notifier: n,
		sender:   s,
		logger:   logger.With("module", "orchestrator"),
		newID:    uuid.New,
		now:      time.Now,
		queues:   make(map[int64][]queuedTurn),
	}
}

// HandleTurn applies one turn to the user's session. Turns for the same user
// are mutually exclusive.
func (o *Orchestrator) HandleTurn(ctx context.Context, t Turn) error {
	unlock := o.sessions.Lock(t.UserID)
	defer unlock()

	switch t.Command {
	case survey.StartCommand:
		sess, reply := survey.Start(t.UserID, t.Username)
		o.sessions.Put(sess, o.now())
		o.logger.Debug(ctx, "session started", "user_id", t.UserID)
		return o.reply(ctx, t.ChatID, reply)

	case survey.StopCommand:
		sess, ok := o.sessions.Get(t.UserID)
		if !ok {
			return nil
		}
		o.sessions.Delete(t.UserID)
		return o.reply(ctx, t.ChatID, sess.Abort())

	case "", survey.SkipName:
	default:
		o.logger.Debug(ctx, "ignoring command", "user_id", t.UserID, "command", t.Command)
		return nil
	}

	sess, ok := o.sessions.Get(t.UserID)
	if !ok {
		o.logger.Debug(ctx, "no active session, ignoring turn", "user_id", t.UserID)
		return nil
	}

	// the skip command only means something while an address is requested
	if t.Command == survey.SkipName && sess.Stage != survey.StageEmail {
		return nil
	}

	reply := sess.Advance(t.Text)

	switch sess.Stage {
	case survey.StageAborted:
		o.sessions.Delete(t.UserID)
		o.logger.Debug(ctx, "consent declined", "user_id", t.UserID)
		return o.reply(ctx, t.ChatID, reply)
	case survey.StageDone:
		return o.finalize(ctx, t, sess)
	default:
		o.sessions.Put(sess, o.now())
		return o.reply(ctx, t.ChatID, reply)
	}
}

// finalize builds the record, stores it and notifies. The session is gone
// before persistence starts, whatever the outcome.
func (o *Orchestrator) finalize(ctx context.Context, t Turn, sess *survey.Session) error {
	o.sessions.Delete(t.UserID)

	rec, err := sess.Record(o.newID(), o.now().UTC())
	if err != nil {
		return err
	}

	outcome := o.store.Persist(ctx, &rec)
	if !outcome.Saved() {
		return o.reply(ctx, t.ChatID, survey.SaveFailedReply())
	}

	o.logger.Info(ctx, "record saved", "id", rec.ID.String(), "target", outcome.Target.String())
	o.notifier.Notify(ctx, rec)

	return o.reply(ctx, t.ChatID, survey.SavedReply(rec.ID))
}

func (o *Orchestrator) reply(ctx context.Context, chatID int64, r survey.Reply) error {
	for _, msg := range r.Messages {
		if err := o.sender.Send(ctx, chatID, msg); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}
	return nil
}
