package survey

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/common"
	"github.com/google/uuid"
)

// Session is one user's in-progress response. It is not safe for concurrent
// use; callers serialise turns per user.
type Session struct {
	UserID   int64
	Username string
	Stage    Stage
	Answers  map[string]string
}

// Start opens a new session and returns the intro and consent prompt.
func Start(userID int64, username string) (*Session, Reply) {
	s := &Session{
		UserID:   userID,
		Username: username,
		// START always emits the intro, so the session opens at CONSENT
		Stage:   StageConsent,
		Answers: make(map[string]string, 5),
	}
	return s, reply(
		Message{Text: introText, HTML: true},
		withKeyboard(consentPrompt, ConsentChoices),
	)
}

// Advance consumes one user turn. Text is trimmed before it is stored; an
// empty turn is stored as "". Advance on a terminal session does nothing.
func (s *Session) Advance(input string) Reply {
	t := strings.TrimSpace(input)

	switch s.Stage {
	case StageConsent:
		if strings.ToLower(t) != AcceptToken {
			s.Stage = StageAborted
			return reply(withoutKeyboard(declineText))
		}
		s.Stage = StageInstitution
		return reply(withoutKeyboard(institutionPrompt))

	case StageInstitution:
		s.Answers[FieldInstitution] = t
		s.Stage = StageYear
		return reply(text(yearPrompt))

	case StageYear:
		s.Answers[FieldYear] = t
		s.Stage = StageOutcome
		return reply(withKeyboard(outcomePrompt, OutcomeChoices))

	case StageOutcome:
		// keyboard labels are a suggestion, free text is kept as typed
		s.Answers[FieldOutcome] = t
		s.Stage = StageNarrative
		return reply(withoutKeyboard(narrativePrompt))

	case StageNarrative:
		s.Answers[FieldNarrative] = t
		s.Stage = StageEmailChoice
		return reply(withKeyboard(emailChoicePrompt, EmailChoiceOptions))

	case StageEmailChoice:
		if strings.Contains(strings.ToLower(input), EmailOptIn) {
			s.Stage = StageEmail
			return reply(withoutKeyboard(emailPrompt))
		}
		s.Answers[FieldEmail] = ""
		s.Stage = StageDone
		return Reply{}

	case StageEmail:
		if strings.HasPrefix(t, SkipCommand) {
			s.Answers[FieldEmail] = ""
		} else {
			// no address validation on purpose
			s.Answers[FieldEmail] = t
		}
		s.Stage = StageDone
		return Reply{}
	}

	return Reply{}
}

// Abort ends the session from any non-terminal stage.
func (s *Session) Abort() Reply {
	if s.Stage.Terminal() {
		return Reply{}
	}
	s.Stage = StageAborted
	return reply(withoutKeyboard(stopText))
}

// Record converts a finished session into the record to persist. The id and
// timestamp are supplied by the caller at finalize time.
func (s *Session) Record(id uuid.UUID, now time.Time) (models.Record, error) {
	if s.Stage != StageDone {
		return models.Record{}, common.ErrSessionNotComplete
	}

	var username *string
	if s.Username != "" {
		u := s.Username
		username = &u
	}

	return models.Record{
		ID:        id,
		CreatedAt: now.UTC(),
		UserID:    s.UserID,
		Username:  username,
		Ateneo:    s.Answers[FieldInstitution],
		Anno:      s.Answers[FieldYear],
		Esito:     s.Answers[FieldOutcome],
		Testo:     s.Answers[FieldNarrative],
		Email:     s.Answers[FieldEmail],
	}, nil
}
