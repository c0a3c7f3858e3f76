package survey

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	introText = "<b>Raccolta testimonianze – Semestre filtro a Medicina</b>\n\n" +
		"Questo bot raccoglie in forma anonima (email facoltativa) esperienze sul semestre filtro " +
		"nei corsi di area medica in Italia."

	consentPrompt     = "Acconsenti al trattamento dei dati?"
	declineText       = "Capito. Se cambi idea, digita /start per ricominciare."
	institutionPrompt = "Indica il tuo Ateneo (es. UniMi)."
	yearPrompt        = "In che anno di corso ti trovi?"
	outcomePrompt     = "Esito del semestre filtro?"
	narrativePrompt   = "Racconta la tua esperienza:"
	emailChoicePrompt = "Vuoi lasciare un'email facoltativa?"
	emailPrompt       = "Scrivi la tua email (oppure digita /salta)."
	stopText          = "Conversazione terminata."
	savedTextFormat   = "Grazie! Testimonianza salvata (ID: %s)"
	saveFailedText    = "Si è verificato un problema nel salvataggio. Riprova più tardi con /start."
)

// Tokens recognised in user input.
const (
	AcceptToken  = "accetto"
	EmailOptIn   = "lascia"
	SkipCommand  = "/salta"
	StartCommand = "start"
	StopCommand  = "stop"
	SkipName     = "salta"
)

// Keyboard labels offered to the user.
var (
	ConsentChoices     = [][]string{{"Accetto"}, {"Non accetto"}}
	OutcomeChoices     = [][]string{{"Superato"}, {"Non superato"}, {"Non sostenuto / ritirato"}}
	EmailChoiceOptions = [][]string{{"Lascia email"}, {"Salta"}}
)

// Message is one outbound chat message.
type Message struct {
	Text string
	// HTML asks the transport to render Text as HTML.
	HTML bool
	// Keyboard, when set, is shown as a one-time choice keyboard, one row per slice.
	Keyboard [][]string
	// RemoveKeyboard hides a previously shown keyboard.
	RemoveKeyboard bool
}

// Reply is what the bot sends back after a turn, in order.
type Reply struct {
	Messages []Message
}

func reply(msgs ...Message) Reply {
	return Reply{Messages: msgs}
}

func text(s string) Message {
	return Message{Text: s}
}

func withKeyboard(s string, kb [][]string) Message {
	return Message{Text: s, Keyboard: kb}
}

func withoutKeyboard(s string) Message {
	return Message{Text: s, RemoveKeyboard: true}
}

// SavedReply acknowledges a stored record by its id.
func SavedReply(id uuid.UUID) Reply {
	return reply(withoutKeyboard(fmt.Sprintf(savedTextFormat, id)))
}

// SaveFailedReply is shown when no backend accepted the record.
func SaveFailedReply() Reply {
	return reply(withoutKeyboard(saveFailedText))
}
