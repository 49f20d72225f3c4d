package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/xerkit/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory run store with the schema applied.
// It is closed by t.Cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening run store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// RowCount returns the number of rows in table.
func RowCount(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
