// Package db provides SQLite database fixtures for suites. A setup fixture
// opens a Client, tests query it, and the matching teardown closes it.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

// QueryResult represents the result of a database query
type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Client represents a database client
type Client struct {
	db           *sql.DB
	dataSource   string
	queryTimeout time.Duration
}

// NewClient creates a new database client from a connection string.
// Supported formats:
//   - sqlite://path/to/db.sqlite
//   - sqlite:./test.db
//   - sqlite::memory:
func NewClient(connectionString string) (*Client, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: opens its own database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Client{
		db:           db,
		dataSource:   dsn,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Open is NewClient for use inside a fixture or test: the client is closed
// when the context runs its cleanups.
func Open(tc *testctx.Context, connectionString string) (*Client, error) {
	c, err := NewClient(connectionString)
	if err != nil {
		return nil, err
	}
	tc.Teardown(func() {
		if err := c.Close(); err != nil {
			panic(err)
		}
	})
	return c, nil
}

// DataSource is the DSN handed to the driver.
func (c *Client) DataSource() string {
	return c.dataSource
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Exec runs a statement that returns no rows and reports the number of
// affected rows.
func (c *Client) Exec(query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.queryTimeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Query executes a SQL query and returns the result
func (c *Client) Query(query string, args ...any) (*QueryResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.queryTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0),
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = val
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// Value runs a query expected to return exactly one row and returns its
// first column.
func (c *Client) Value(query string, args ...any) (any, error) {
	result, err := c.Query(query, args...)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 row, got %d", len(result.Rows))
	}
	if len(result.Columns) == 0 {
		return nil, fmt.Errorf("query returned no columns")
	}
	return result.Rows[0][result.Columns[0]], nil
}

func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	var dsn string
	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		dsn = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		dsn = strings.TrimPrefix(connStr, "sqlite:")
	default:
		scheme, _, ok := strings.Cut(connStr, "://")
		if !ok {
			return "", fmt.Errorf("invalid connection string: %q", connStr)
		}
		return "", fmt.Errorf("unsupported database scheme: %s", scheme)
	}
	if dsn == "" {
		return "", fmt.Errorf("invalid connection string: %q has no path", connStr)
	}
	return dsn, nil
}
