// audit_backend.go: Pluggable storage backends for the audit trail
//
// Two backends ship with Proteus: a JSONL file backend (human-readable,
// grep-able, easily shipped to log aggregators) and a SQLite backend
// (queryable single-file audit database, WAL mode for concurrent access).
// Backend selection is automatic: .jsonl paths select JSONL, everything
// else selects SQLite, with JSONL as the degradation path when SQLite
// initialization fails so audit logging never prevents startup.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// auditBackend abstracts the audit storage mechanism so JSONL files and
// SQLite databases are interchangeable behind the same logger API.
type auditBackend interface {
	// Write persists a batch of audit events.
	Write(events []AuditEvent) error

	// Flush commits pending writes to storage.
	Flush() error

	// Close releases all resources. The backend must not be used after.
	Close() error
}

// createAuditBackend selects the backend for the given configuration.
// SQLite is preferred; JSONL is the fallback when SQLite fails to open.
func createAuditBackend(config AuditConfig) (auditBackend, error) {
	if !config.Enabled {
		return nil, nil
	}

	if filepath.Ext(config.OutputFile) == ".jsonl" {
		return newJSONLBackend(config.OutputFile)
	}

	backend, err := newSQLiteBackend(config)
	if err == nil {
		return backend, nil
	}

	// Graceful degradation: audit must never block startup.
	fallback := config.OutputFile
	if fallback == "" {
		fallback = filepath.Join(os.TempDir(), "proteus", "audit.jsonl")
	}
	return newJSONLBackend(fallback)
}

// unifiedAuditPath is the default system-wide SQLite audit database.
func unifiedAuditPath() string {
	return filepath.Join(os.TempDir(), "proteus", "audit.db")
}

// jsonlAuditBackend appends events as one JSON document per line.
type jsonlAuditBackend struct {
	mu   sync.Mutex
	file *os.File
}

func newJSONLBackend(path string) (*jsonlAuditBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- audit path is operator-provided
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}
	return &jsonlAuditBackend{file: file}, nil
}

func (b *jsonlAuditBackend) Write(events []AuditEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal audit event: %w", err)
		}
		if _, err := b.file.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to append audit event: %w", err)
		}
	}
	return nil
}

func (b *jsonlAuditBackend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Sync()
}

func (b *jsonlAuditBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}

// sqliteAuditBackend stores events in a single SQLite database.
//
// Pragmas: WAL mode keeps readers and writers from blocking each other,
// which fits an append-heavy audit workload; NORMAL synchronous trades the
// last ~1s of events for 3x write throughput; the busy timeout covers
// multi-process deployments sharing one database file.
type sqliteAuditBackend struct {
	mu         sync.Mutex
	db         *sql.DB
	insertStmt *sql.Stmt
	closed     bool
}

func newSQLiteBackend(config AuditConfig) (*sqliteAuditBackend, error) {
	dbPath := config.OutputFile
	if dbPath == "" || filepath.Ext(dbPath) != ".db" {
		dbPath = unifiedAuditPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit database directory: %w", err)
	}

	db, err := sql.Open("sqlite3",
		fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	backend := &sqliteAuditBackend{db: db}
	if err := backend.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *sqliteAuditBackend) initialize() error {
	const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp    TEXT NOT NULL,
	level        TEXT NOT NULL,
	event        TEXT NOT NULL,
	component    TEXT NOT NULL,
	scope        TEXT,
	detail       TEXT,
	process_id   INTEGER,
	process_name TEXT,
	context      TEXT,
	checksum     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_events_scope ON audit_events(scope);`

	if _, err := b.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	stmt, err := b.db.Prepare(`INSERT INTO audit_events
		(timestamp, level, event, component, scope, detail, process_id, process_name, context, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	b.insertStmt = stmt
	return nil
}

func (b *sqliteAuditBackend) Write(events []AuditEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("audit backend is closed")
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}

	stmt := tx.Stmt(b.insertStmt)
	for _, event := range events {
		contextJSON := ""
		if event.Context != nil {
			if data, err := json.Marshal(event.Context); err == nil {
				contextJSON = string(data)
			}
		}
		_, err := stmt.Exec(
			event.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
			event.Level.String(), event.Event, event.Component, event.Scope,
			event.Detail, event.ProcessID, event.ProcessName, contextJSON, event.Checksum)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert audit event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit events: %w", err)
	}
	return nil
}

func (b *sqliteAuditBackend) Flush() error {
	// SQLite commits per batch; nothing buffered here.
	return nil
}

func (b *sqliteAuditBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if b.insertStmt != nil {
		_ = b.insertStmt.Close()
	}
	return b.db.Close()
}
