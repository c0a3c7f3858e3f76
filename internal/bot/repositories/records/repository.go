// Package records holds the write-only backends for finalized survey records:
// a PostgreSQL table and an append-only CSV file.
package records

import (
	"context"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
)

// Repository durably appends one record. Implementations never update or
// delete what they wrote.
type Repository interface {
	Insert(ctx context.Context, rec *models.Record) error
}
