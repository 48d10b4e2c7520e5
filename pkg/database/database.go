package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jordanlanch/leadflow/pkg/domain"
)

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgConnectionClass     = "08"
)

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns sensible defaults for connection pooling
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// Client implements domain.Persistence against the hosted Postgres instance.
type Client struct {
	DB *sqlx.DB
}

var _ domain.Persistence = (*Client)(nil)

// NewClient creates a database client with default pooling.
func NewClient(databaseURL string) (*Client, error) {
	return NewClientWithPool(databaseURL, DefaultPoolConfig())
}

// NewClientWithPool creates a database client with explicit pool settings.
func NewClientWithPool(databaseURL string, pool PoolConfig) (*Client, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed connecting to database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	return &Client{DB: db}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// mapError translates driver errors into the domain taxonomy. Unique
// violations become conflicts, missing rows not-found, connection trouble
// transient; everything else is internal.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(resource)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case string(pqErr.Code) == pgUniqueViolation:
			return domain.NewConflictError(fmt.Sprintf("%s already exists", resource))
		case string(pqErr.Code) == pgForeignKeyViolation:
			return domain.NewValidationError(fmt.Sprintf("referenced %s does not exist", resource))
		case pqErr.Code.Class() == pgConnectionClass:
			return domain.NewTransientError(err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTransientError(err)
	}

	return domain.NewInternalError(err)
}
