package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lan-dot-party/gurtdns/internal/config"
)

var postgresDialect = dialect{
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// PostgresStorage implements the Storage interface using PostgreSQL.
type PostgresStorage struct {
	db  *sql.DB
	cfg config.DatabaseConfig
}

// NewPostgresStorage creates a new PostgreSQL storage instance.
func NewPostgresStorage(cfg config.DatabaseConfig) (*PostgresStorage, error) {
	return &PostgresStorage{
		cfg: cfg,
	}, nil
}

// Init connects to PostgreSQL and creates the schema.
func (s *PostgresStorage) Init(ctx context.Context) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	if err := s.createSchema(ctx); err != nil {
		s.closeOnError()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Connect opens the connection pool and checks that the server answers.
func (s *PostgresStorage) Connect(ctx context.Context) error {
	// pgx accepts postgres:// URLs directly as its DSN
	db, err := sql.Open("pgx", s.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxConnections)
	db.SetMaxIdleConns(max(1, s.cfg.MaxConnections/2))
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *PostgresStorage) closeOnError() {
	_ = s.db.Close()
	s.db = nil
}

// createSchema creates the database tables if they don't exist.
func (s *PostgresStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS domains (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		tld TEXT NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(name, tld)
	);

	CREATE INDEX IF NOT EXISTS idx_domains_status ON domains(status);
	CREATE INDEX IF NOT EXISTS idx_domains_created ON domains(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Ping verifies the database is reachable.
func (s *PostgresStorage) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDomain inserts a domain and sets its ID.
func (s *PostgresStorage) SaveDomain(ctx context.Context, domain *Domain) error {
	if err := domain.prepare(); err != nil {
		return err
	}

	query := `
	INSERT INTO domains (name, tld, ip, status, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		domain.Name,
		domain.TLD,
		domain.IP,
		domain.Status,
		domain.CreatedAt,
	).Scan(&domain.ID)
	if err != nil {
		return fmt.Errorf("failed to insert domain %s: %w", domain.FQDN(), err)
	}

	return nil
}

// GetDomain retrieves a single domain by ID.
func (s *PostgresStorage) GetDomain(ctx context.Context, id int64) (*Domain, error) {
	query := `SELECT id, name, tld, ip, status, created_at FROM domains WHERE id = $1`

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
func (s *PostgresStorage) ListDomains(ctx context.Context, filter DomainFilter) ([]Domain, error) {
	where, args := filter.whereClause(postgresDialect)
	query := `SELECT id, name, tld, ip, status, created_at FROM domains` + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	return scanDomains(rows)
}

// CountByStatus returns the number of domains in each registration state.
func (s *PostgresStorage) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, s.db)
}

// DeletePendingBefore removes pending domains created before the given time.
func (s *PostgresStorage) DeletePendingBefore(ctx context.Context, before time.Time) (int64, error) {
	query := "DELETE FROM domains WHERE status = $1 AND created_at < $2"

	result, err := s.db.ExecContext(ctx, query, StatusPending, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending domains: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return count, nil
}
