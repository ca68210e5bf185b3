package database

import (
	"database/sql"
	"fmt"
)

// Migrate creates the user directory schema. Statements are idempotent and
// valid for both SQLite and PostgreSQL.
func Migrate(db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createUsersRoleIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(16) NOT NULL DEFAULT 'STUDENT'
        CHECK (role IN ('ADMIN', 'MANAGER', 'STUDENT', 'TEACHER')),
    aux_id BIGINT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_login TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const createUsersRoleIndex = `CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);`
