package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/testimonianze/internal/bot/repositories/records"
	"github.com/dmitrijs2005/testimonianze/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
}
