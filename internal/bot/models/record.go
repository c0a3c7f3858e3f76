// Package models holds the bot's persisted data types.
package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CSVHeader is the fixed column order of the flat store.
var CSVHeader = []string{"id", "timestamp", "user_id", "username", "ateneo", "anno", "esito", "testo", "email"}

// Record is one finalized survey response. It is created once, at finalize
// time, and never updated.
type Record struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
	Username  *string   `db:"username"`
	Ateneo    string    `db:"ateneo"`
	Anno      string    `db:"anno"`
	Esito     string    `db:"esito"`
	Testo     string    `db:"testo"`
	Email     string    `db:"email"`
}

// CSVRow renders the record in CSVHeader order. Absent values become "".
func (r Record) CSVRow() []string {
	username := ""
	if r.Username != nil {
		username = *r.Username
	}
	return []string{
		r.ID.String(),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		strconv.FormatInt(r.UserID, 10),
		username,
		r.Ateneo,
		r.Anno,
		r.Esito,
		r.Testo,
		r.Email,
	}
}
