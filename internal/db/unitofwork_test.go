package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jamesfeng2009/forecastdesk/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func insertOrder(ctx context.Context, tx db.DBTX, system, customer string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO forecast_orders
		(system_number, customer_number, channel_id, country_code, payload_json, created_at)
		VALUES (?, ?, 'HK_TNT', 'US', '{}', '2025-01-01T00:00:00Z')`, system, customer)
	return err
}

func countOrders(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM forecast_orders`).Scan(&n))
	return n
}

func TestMigrate_Idempotent(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))
}

func TestMigrate_CreatesTables(t *testing.T) {
	database := openTestDB(t)
	for _, table := range []string{"forecast_orders", "forecast_order_children"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenDB_FileBacked(t *testing.T) {
	path := t.TempDir() + "/nested/orders.db"
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestWithinTx_Commit(t *testing.T) {
	database := openTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertOrder(ctx, tx, "SYS1", "T1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countOrders(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database := openTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertOrder(ctx, tx, "SYS1", "T1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countOrders(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database := openTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			require.NoError(t, insertOrder(ctx, tx, "SYS1", "T1"))
			panic("kaboom")
		})
	})
	assert.Equal(t, 0, countOrders(t, database))
}

func TestForeignKeysEnforced(t *testing.T) {
	database := openTestDB(t)
	_, err := database.Exec(`INSERT INTO forecast_order_children
		(system_number, order_system_number, customer_number, track_number, seq)
		VALUES ('SYS1-1', 'missing', 'T1-1', '1Z', 1)`)
	assert.Error(t, err)
}
