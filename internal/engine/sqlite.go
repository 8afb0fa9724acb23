package engine

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added created_at index on snapshots
const currentSchemaVersion = 1

// ErrNoConfiguration is returned when the store has never been seeded with
// a configuration document.
var ErrNoConfiguration = errors.New("no configuration present")

// SQLiteEngine is a local configuration store implementing cache.Transport.
type SQLiteEngine struct {
	db *sql.DB
}

// Open creates or opens the configuration store at the given path.
// Applies required pragmas and migrations automatically. Idempotent.
func Open(path string) (*SQLiteEngine, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteEngine{db: db}, nil
}

// Close closes the database connection.
func (e *SQLiteEngine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Seed installs an initial configuration document if none exists.
func (e *SQLiteEngine) Seed(payload []byte) error {
	_, err := e.db.Exec(`
		INSERT INTO configuration (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO NOTHING
	`, payload)
	if err != nil {
		return fmt.Errorf("seed configuration: %w", err)
	}
	return nil
}

// FetchConfiguration returns the live configuration document.
func (e *SQLiteEngine) FetchConfiguration() ([]byte, error) {
	var payload []byte
	err := e.db.QueryRow(`SELECT payload FROM configuration WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoConfiguration
	}
	if err != nil {
		return nil, fmt.Errorf("fetch configuration: %w", err)
	}
	return payload, nil
}

// WriteConfiguration replaces the live configuration document.
func (e *SQLiteEngine) WriteConfiguration(payload []byte) error {
	_, err := e.db.Exec(`
		INSERT INTO configuration (id, payload, updated_at)
		VALUES (1, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, payload)
	if err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}

// SaveConfiguration persists the payload as a snapshot and returns its id.
func (e *SQLiteEngine) SaveConfiguration(payload []byte, comment string) (string, error) {
	id := uuid.NewString()
	_, err := e.db.Exec(`
		INSERT INTO snapshots (config_id, payload, comment) VALUES (?, ?, ?)
	`, id, payload, comment)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

// LoadConfigurationByID returns a saved snapshot's payload.
func (e *SQLiteEngine) LoadConfigurationByID(id string) ([]byte, error) {
	var payload []byte
	err := e.db.QueryRow(`SELECT payload FROM snapshots WHERE config_id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no snapshot with id %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return payload, nil
}

// Snapshot describes a saved configuration.
type Snapshot struct {
	ConfigID  string
	Comment   string
	CreatedAt string
}

// ListSnapshots returns saved configurations, newest first.
func (e *SQLiteEngine) ListSnapshots() ([]Snapshot, error) {
	rows, err := e.db.Query(`
		SELECT config_id, comment, created_at
		FROM snapshots
		ORDER BY created_at DESC, config_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ConfigID, &s.Comment, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	if out == nil {
		out = []Snapshot{}
	}
	return out, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		// The created_at index ships in schema.sql for new databases;
		// CREATE INDEX IF NOT EXISTS is a no-op there.
		if _, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_snapshots_created
			ON snapshots(created_at)
		`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
