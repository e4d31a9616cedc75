// Package analytics stores batch outcomes in ClickHouse for reporting.
package analytics

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/config"
)

// Client wraps the ClickHouse driver connection
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client with the given configuration
func NewClient(ctx context.Context, cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Host},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.conn
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// CreateSchema creates the outcomes table if it does not exist.
func (c *Client) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS transaction_outcomes (
		run_id UUID,
		sequence UInt32,
		transaction_id String,
		status Enum8('APPROVED' = 1, 'DECLINED' = 2),
		message String,
		processed_at DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (run_id, sequence)
	`

	if err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create transaction_outcomes table: %w", err)
	}
	return nil
}
