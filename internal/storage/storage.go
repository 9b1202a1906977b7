// Package storage provides database storage for the domain registry.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lan-dot-party/gurtdns/internal/config"
)

// ErrNotFound is returned when a requested domain does not exist.
var ErrNotFound = errors.New("domain not found")

// ErrNoDatabase is returned by Connect when the registry database does not exist.
var ErrNoDatabase = errors.New("registry database does not exist")

// Storage defines the interface for storing and retrieving registry domains.
type Storage interface {
	// Lifecycle. Init creates the database and schema when missing;
	// Connect only opens an existing registry. Both leave nothing open
	// when they fail.
	Init(ctx context.Context) error
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// Domains
	SaveDomain(ctx context.Context, domain *Domain) error
	GetDomain(ctx context.Context, id int64) (*Domain, error)
	ListDomains(ctx context.Context, filter DomainFilter) ([]Domain, error)

	// Stats
	CountByStatus(ctx context.Context) (map[string]int, error)

	// Cleanup
	DeletePendingBefore(ctx context.Context, before time.Time) (int64, error)
}

// DomainFilter defines criteria for filtering domains.
type DomainFilter struct {
	Status string
	TLD    string
	Since  time.Time
	Limit  int
	Offset int
}

// NewStorage creates a new Storage instance based on the database URL scheme.
func NewStorage(cfg config.DatabaseConfig) (Storage, error) {
	switch cfg.Backend() {
	case config.BackendSQLite:
		return NewSQLiteStorage(cfg)
	case config.BackendPostgres:
		return NewPostgresStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported database url: %q", cfg.URL)
	}
}

// dialect captures the SQL differences between the backends.
type dialect struct {
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// unbounded is the LIMIT clause required before a bare OFFSET.
	unbounded string
}

// whereClause builds the filter conditions, ordering and paging shared by both backends.
func (f DomainFilter) whereClause(d dialect) (string, []interface{}) {
	placeholder := d.placeholder

	clause := " WHERE 1=1"
	args := []interface{}{}

	if f.Status != "" {
		args = append(args, f.Status)
		clause += " AND status = " + placeholder(len(args))
	}
	if f.TLD != "" {
		args = append(args, f.TLD)
		clause += " AND tld = " + placeholder(len(args))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		clause += " AND created_at >= " + placeholder(len(args))
	}

	clause += " ORDER BY created_at DESC, id DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		clause += " LIMIT " + placeholder(len(args))
	}
	if f.Offset > 0 {
		if f.Limit <= 0 {
			clause += d.unbounded
		}
		args = append(args, f.Offset)
		clause += " OFFSET " + placeholder(len(args))
	}

	return clause, args
}
