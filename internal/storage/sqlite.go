package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lan-dot-party/gurtdns/internal/config"
)

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	unbounded:   " LIMIT -1",
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance from a sqlite:// URL.
func NewSQLiteStorage(cfg config.DatabaseConfig) (*SQLiteStorage, error) {
	path := cfg.SQLitePath()
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is empty in %q", cfg.URL)
	}
	return &SQLiteStorage{
		path: path,
	}, nil
}

// Init opens the SQLite database, creating its directory, file and schema
// as needed.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if err := s.open(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		s.closeOnError()
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := s.createSchema(ctx); err != nil {
		s.closeOnError()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Connect opens an existing database file. Nothing is created on disk.
func (s *SQLiteStorage) Connect(ctx context.Context) error {
	if s.path != ":memory:" {
		info, err := os.Stat(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoDatabase, s.path)
		}
		if err != nil {
			return fmt.Errorf("failed to access database: %w", err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("database path %s is not a regular file", s.path)
		}
	}
	return s.open(ctx)
}

func (s *SQLiteStorage) open(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStorage) closeOnError() {
	_ = s.db.Close()
	s.db = nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS domains (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		tld TEXT NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name, tld)
	);

	CREATE INDEX IF NOT EXISTS idx_domains_status ON domains(status);
	CREATE INDEX IF NOT EXISTS idx_domains_created ON domains(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Ping verifies the database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDomain inserts a domain and sets its ID.
func (s *SQLiteStorage) SaveDomain(ctx context.Context, domain *Domain) error {
	if err := domain.prepare(); err != nil {
		return err
	}

	query := `INSERT INTO domains (name, tld, ip, status, created_at) VALUES (?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		domain.Name,
		domain.TLD,
		domain.IP,
		domain.Status,
		domain.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert domain %s: %w", domain.FQDN(), err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	domain.ID = id

	return nil
}

// GetDomain retrieves a single domain by ID.
func (s *SQLiteStorage) GetDomain(ctx context.Context, id int64) (*Domain, error) {
	query := `SELECT id, name, tld, ip, status, created_at FROM domains WHERE id = ?`

	domain := &Domain{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&domain.ID,
		&domain.Name,
		&domain.TLD,
		&domain.IP,
		&domain.Status,
		&domain.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}

	return domain, nil
}

// ListDomains retrieves domains based on filter criteria, newest first.
func (s *SQLiteStorage) ListDomains(ctx context.Context, filter DomainFilter) ([]Domain, error) {
	where, args := filter.whereClause(sqliteDialect)
	query := `SELECT id, name, tld, ip, status, created_at FROM domains` + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDomains(rows)
}

// CountByStatus returns the number of domains in each registration state.
// Every known state is present in the result, even when its count is zero.
func (s *SQLiteStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, s.db)
}

// DeletePendingBefore removes pending domains created before the given time.
func (s *SQLiteStorage) DeletePendingBefore(ctx context.Context, before time.Time) (int64, error) {
	query := "DELETE FROM domains WHERE status = ? AND created_at < ?"

	result, err := s.db.ExecContext(ctx, query, StatusPending, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending domains: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return count, nil
}

// scanDomains drains rows into a slice. Shared by both backends.
func scanDomains(rows *sql.Rows) ([]Domain, error) {
	var domains []Domain
	for rows.Next() {
		var d Domain
		if err := rows.Scan(&d.ID, &d.Name, &d.TLD, &d.IP, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domains: %w", err)
	}

	return domains, nil
}

func countByStatus(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM domains GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count domains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int, len(Statuses))
	for _, status := range Statuses {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}

	return counts, nil
}
