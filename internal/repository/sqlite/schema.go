package sqlite

import "fmt"

var pragmas = []string{
	`PRAGMA journal_mode=WAL`,
	`PRAGMA busy_timeout=5000`,
}

// schema is applied on every open. Every statement is IF NOT EXISTS, so
// running it against an existing database changes nothing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS presets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		shader_code TEXT NOT NULL,
		language    TEXT NOT NULL,
		uniforms    TEXT,
		created_at  TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at  TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		shaders        TEXT NOT NULL,
		audio_settings TEXT,
		created_at     TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at     TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_presets_updated_at ON presets(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at)`,
}

func (db *DB) migrate() error {
	for i, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
