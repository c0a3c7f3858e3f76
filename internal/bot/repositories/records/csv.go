package records

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/testimonianze/internal/bot/models"
	"github.com/dmitrijs2005/testimonianze/internal/filex"
)

// CSVRepository appends records to a UTF-8 comma-separated file whose first
// line is models.CSVHeader. Appends are serialised; each record is written
// with a single write call so concurrent writers never interleave lines.
type CSVRepository struct {
	path string
	mu   sync.Mutex
}

func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// Path returns the file the repository appends to.
func (r *CSVRepository) Path() string {
	return r.path
}

// EnsureFile creates the file with its header if it does not exist yet.
// Existing files are left untouched.
func (r *CSVRepository) EnsureFile() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureFile()
}

func (r *CSVRepository) ensureFile() error {
	exists, err := filex.Exists(r.path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := filex.EnsureParentDir(r.path); err != nil {
		return err
	}

	header, err := encodeRow(models.CSVHeader)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if errors.Is(err, fs.ErrExist) {
		// another process won the race
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", r.path, err)
	}

	if _, err := f.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}

// Insert appends rec as one line.
func (r *CSVRepository) Insert(ctx context.Context, rec *models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := encodeRow(rec.CSVRow())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFile(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat %s: %w", r.path, err)
	}
	size := info.Size()

	if _, err := writeFile(f, line); err != nil {
		return rollback(f, size, fmt.Errorf("append record %s: %w", rec.ID, err))
	}
	if err := syncFile(f); err != nil {
		return rollback(f, size, fmt.Errorf("sync %s: %w", r.path, err))
	}
	return f.Close()
}

// writeFile and syncFile are seams for fault injection in tests.
var writeFile = func(f *os.File, b []byte) (int, error) {
	return f.Write(b)
}

var syncFile = func(f *os.File) error {
	return f.Sync()
}

// rollback cuts f back to size so a failed append leaves no fragment behind,
// then closes it and returns cause.
func rollback(f *os.File, size int64, cause error) error {
	if err := f.Truncate(size); err != nil {
		cause = errors.Join(cause, fmt.Errorf("truncate: %w", err))
	}
	_ = f.Close()
	return cause
}

func encodeRow(row []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return buf.Bytes(), nil
}
