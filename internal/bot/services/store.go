package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/bot/repositories/records"
	"github.com/dmitrijs2005/testimonianze/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/testimonianze/internal/common"
	"github.com/dmitrijs2005/testimonianze/internal/dbx"
	"github.com/dmitrijs2005/testimonianze/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Target names the backend that accepted a record.
type Target int

const (
	TargetNone Target = iota
	TargetPostgres
	TargetCSV
)

func (t Target) String() string {
	switch t {
	case TargetPostgres:
		return "postgres"
	case TargetCSV:
		return "csv"
	default:
		return "none"
	}
}

// Outcome is the result of one Persist call. Err is set only when no backend
// accepted the record.
type Outcome struct {
	Target Target
	Err    error
}

// Saved reports whether the record reached some durable backend.
func (o Outcome) Saved() bool {
	return o.Target != TargetNone && o.Err == nil
}

// RecordStore writes finalized records to PostgreSQL when configured and
// falls back to the CSV file, exactly once, when that write fails.
type RecordStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	fallback    *records.CSVRepository
	logger      logging.Logger

	schemaGroup singleflight.Group
	schemaReady atomic.Bool
}

// NewRecordStore builds the store. A nil db means the relational backend is
// not configured and every record goes to fallback.
func NewRecordStore(db *sql.DB, rm repomanager.RepositoryManager, fallback *records.CSVRepository, logger logging.Logger) *RecordStore {
	return &RecordStore{
		db:          db,
		repomanager: rm,
		fallback:    fallback,
		logger:      logger.With("module", "record_store"),
	}
}

// PrimaryConfigured reports whether a relational backend was configured.
func (s *RecordStore) PrimaryConfigured() bool {
	return s.db != nil
}

// Init prepares both backends at startup. Failures are logged and leave the
// store usable: a missing schema is retried before each insert and the CSV
// header is created lazily on first append.
func (s *RecordStore) Init(ctx context.Context) {
	if s.PrimaryConfigured() {
		if err := s.ensureSchema(ctx); err != nil {
			s.logger.Warn(ctx, "schema setup failed, records will fall back to csv until it succeeds", "error", err)
		} else {
			s.logger.Info(ctx, "relational store ready")
		}
	} else {
		s.logger.Info(ctx, "relational store not configured, using csv only", "path", s.fallback.Path())
	}

	if err := s.fallback.EnsureFile(); err != nil {
		s.logger.Warn(ctx, "csv store setup failed", "path", s.fallback.Path(), "error", err)
	}
}

// Persist writes rec to the primary backend, or to the fallback when the
// primary is absent or fails. It never retries beyond that single fallback.
func (s *RecordStore) Persist(ctx context.Context, rec *models.Record) Outcome {
	var primaryErr error

	if s.PrimaryConfigured() {
		primaryErr = s.insertPrimary(ctx, rec)
		if primaryErr == nil {
			return Outcome{Target: TargetPostgres}
		}
		s.logger.Warn(ctx, "relational insert failed, falling back to csv", "id", rec.ID.String(), "error", primaryErr)
	}

	if err := s.fallback.Insert(ctx, rec); err != nil {
		err = fmt.Errorf("%w: %w", common.ErrPersistenceFailed, errors.Join(primaryErr, err))
		s.logger.Error(ctx, "record could not be stored", "id", rec.ID.String(), "error", err)
		return Outcome{Target: TargetNone, Err: err}
	}

	return Outcome{Target: TargetCSV}
}

func (s *RecordStore) insertPrimary(ctx context.Context, rec *models.Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Records(tx).Insert(ctx, rec)
	})
}

// ensureSchema runs migrations until they succeed once. Concurrent callers
// share a single in-flight attempt and its result.
func (s *RecordStore) ensureSchema(ctx context.Context) error {
	if s.schemaReady.Load() {
		return nil
	}

	_, err, _ := s.schemaGroup.Do("schema", func() (any, error) {
		if s.schemaReady.Load() {
			return nil, nil
		}
		if err := s.repomanager.RunMigrations(ctx, s.db); err != nil {
			return nil, err
		}
		s.schemaReady.Store(true)
		return nil, nil
	})
	return err
}
