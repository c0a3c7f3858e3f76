// Package survey implements the turn-by-turn conversation that collects one
// testimonianza. It knows nothing about Telegram or storage: a Session takes
// raw user text and answers with the Reply to show next.
package survey

// Stage is a position in the fixed prompt sequence.
type Stage int

const (
	StageStart Stage = iota
	StageConsent
	StageInstitution
	StageYear
	StageOutcome
	StageNarrative
	StageEmailChoice
	StageEmail
	StageDone
	StageAborted
)

var stageNames = [...]string{
	StageStart:       "start",
	StageConsent:     "consent",
	StageInstitution: "institution",
	StageYear:        "year",
	StageOutcome:     "outcome",
	StageNarrative:   "narrative",
	StageEmailChoice: "email_choice",
	StageEmail:       "email",
	StageDone:        "done",
	StageAborted:     "aborted",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transitions are possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageAborted
}

// Answer keys, named after the stored columns.
const (
	FieldInstitution = "ateneo"
	FieldYear        = "anno"
	FieldOutcome     = "esito"
	FieldNarrative   = "testo"
	FieldEmail       = "email"
)
