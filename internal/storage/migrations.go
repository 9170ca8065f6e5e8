package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// currentVersion returns the highest applied schema version, 0 for a new database
func (ss *SQLiteStorage) currentVersion() (int, error) {
	_, err := ss.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err = ss.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking migration version: %w", err)
	}
	return version, nil
}

// migrate brings the schema up to date
func (ss *SQLiteStorage) migrate() error {
	version, err := ss.currentVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := ss.MigrateToV1(); err != nil {
			return fmt.Errorf("migrating to v1: %w", err)
		}
	}
	if version < 2 {
		if err := ss.MigrateToV2(); err != nil {
			return fmt.Errorf("migrating to v2: %w", err)
		}
	}
	return nil
}

// MigrateToV1 creates the switches table
func (ss *SQLiteStorage) MigrateToV1() error {
	tx, err := ss.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS switches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL UNIQUE,
			port INTEGER NOT NULL DEFAULT 0,
			community TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating switches table: %w", err)
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_switches_position ON switches(position)`)
	if err != nil {
		return fmt.Errorf("creating switches index: %w", err)
	}

	_, err = tx.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (1)`)
	if err != nil {
		return fmt.Errorf("setting migration version: %w", err)
	}

	return tx.Commit()
}

// MigrateToV2 adds description and enabled columns to switches
func (ss *SQLiteStorage) MigrateToV2() error {
	tx, err := ss.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`ALTER TABLE switches ADD COLUMN description TEXT NOT NULL DEFAULT ''`)
	if err != nil && !isDuplicateColumnError(err) {
		return fmt.Errorf("adding description column: %w", err)
	}

	_, err = tx.Exec(`ALTER TABLE switches ADD COLUMN enabled INTEGER NOT NULL DEFAULT 1`)
	if err != nil && !isDuplicateColumnError(err) {
		return fmt.Errorf("adding enabled column: %w", err)
	}

	_, err = tx.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (2)`)
	if err != nil {
		return fmt.Errorf("setting migration version: %w", err)
	}

	return tx.Commit()
}

// isDuplicateColumnError checks if the error is about duplicate column
func isDuplicateColumnError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
