package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/testimonianze/internal/common"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return ExecOne(ctx, tx, `INSERT INTO t(v) VALUES ('ok')`)
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestExecOne_ZeroRowsIsError(t *testing.T) {
	db := setupDB(t)

	err := ExecOne(context.Background(), db, `UPDATE t SET v = 'x' WHERE id = -1`)
	require.ErrorIs(t, err, common.ErrUnexpectedRows)
}

func TestExecOne_ManyRowsRollsBack(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO t(v) VALUES ('a'), ('b')`)
	require.NoError(t, err)

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return ExecOne(ctx, tx, `DELETE FROM t`)
	})
	require.ErrorIs(t, err, common.ErrUnexpectedRows)
	require.Equal(t, 2, countRows(t, db))
}

func TestExecOne_StatementError(t *testing.T) {
	db := setupDB(t)

	err := ExecOne(context.Background(), db, `INSERT INTO missing(v) VALUES ('a')`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "db error")
}
