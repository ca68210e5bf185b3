package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"session-auth/pkg/config"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	query := "SELECT id FROM users WHERE username = ? AND is_active = ?"

	assert.Equal(t, query, Rebind(DialectSQLite, query))
	assert.Equal(t,
		"SELECT id FROM users WHERE username = $1 AND is_active = $2",
		Rebind(DialectPostgres, query))
	assert.Equal(t, "SELECT 1", Rebind(DialectPostgres, "SELECT 1"))
}

func TestNewConnection_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Type:         DialectSQLite,
		Path:         filepath.Join(t.TempDir(), "auth.db"),
		MaxOpenConns: 1,
	}

	db, err := NewConnection(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DialectSQLite, DialectOf(db))
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migrations must be idempotent")
}

func TestNewConnection_UnsupportedType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}

func TestDialectOf_Postgres(t *testing.T) {
	// sql.Open does not connect, so no server is needed.
	db, err := sql.Open("postgres", "host=localhost dbname=none sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DialectPostgres, DialectOf(db))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23514"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
