package records

import (
	"context"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/dbx"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes rec as a new row. A duplicate id is a constraint error from
// the database; anything other than exactly one inserted row is an error.
func (r *PostgresRepository) Insert(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO testimonianze (id, created_at, user_id, username, ateneo, anno, esito, testo, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	return dbx.ExecOne(ctx, r.db, query,
		rec.ID, rec.CreatedAt, rec.UserID, rec.Username,
		rec.Ateneo, rec.Anno, rec.Esito, rec.Testo, rec.Email)
}
