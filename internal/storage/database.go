package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	// Database drivers - imported for side effects (driver registration)
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pastecn/pastecn/internal/config"
	"github.com/pastecn/pastecn/internal/model"
)

// Database implements the Storage interface using SQL databases, for
// self-hosted deployments without an object store.
// Supports SQLite, PostgreSQL, and MySQL.
type Database struct {
	db     *sql.DB
	driver string // "sqlite3", "postgres", or "mysql"
}

// NewDatabase creates a database storage backend. The snippet table is
// created automatically if it doesn't exist.
func NewDatabase(cfg *config.Config) (*Database, error) {
	driver := cfg.Model.Driver
	dsn := cfg.Model.DSN

	if driver == "postgres" && strings.HasPrefix(dsn, "postgresql://") {
		dsn = strings.Replace(dsn, "postgresql://", "postgres://", 1)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	d := &Database{db: db, driver: driver}

	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return d, nil
}

// createTables creates the snippet table. The primary key on id is what
// enforces create-if-absent: a duplicate insert violates the constraint.
func (d *Database) createTables() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS snippet (
			id VARCHAR(16) PRIMARY KEY,
			document %s NOT NULL,
			created BIGINT NOT NULL
		)`, d.textType())

	_, err := d.db.Exec(schema)
	return err
}

// textType returns the large-text column type for the current driver.
func (d *Database) textType() string {
	if d.driver == "mysql" {
		return "MEDIUMTEXT"
	}
	return "TEXT"
}

// placeholder returns the n-th SQL parameter placeholder for the driver.
func (d *Database) placeholder(n int) string {
	if d.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// CreateSnippet inserts a document, relying on the primary key to reject
// duplicates atomically.
func (d *Database) CreateSnippet(ctx context.Context, id string, doc *model.RegistryDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO snippet (id, document, created) VALUES (%s, %s, %s)",
		d.placeholder(1), d.placeholder(2), d.placeholder(3))

	_, err = d.db.ExecContext(ctx, query, id, string(data), time.Now().Unix())
	if err != nil {
		if d.snippetExistsQuiet(ctx, id) {
			return model.ErrSnippetExists
		}
		return fmt.Errorf("%w: inserting snippet: %v", model.ErrStorageFailure, err)
	}
	return nil
}

// ReadDocument retrieves a document from the database.
func (d *Database) ReadDocument(ctx context.Context, id string) (*model.RegistryDocument, error) {
	query := fmt.Sprintf("SELECT document FROM snippet WHERE id = %s", d.placeholder(1))

	var data string
	err := d.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSnippetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: selecting snippet: %v", model.ErrStorageFailure, err)
	}

	var doc model.RegistryDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, model.ErrSnippetNotFound
	}
	return &doc, nil
}

// SnippetExists checks if a snippet row exists.
func (d *Database) SnippetExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM snippet WHERE id = %s", d.placeholder(1))

	var one int
	err := d.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: checking snippet: %v", model.ErrStorageFailure, err)
	}
	return true, nil
}

// snippetExistsQuiet is SnippetExists without error reporting, used to
// classify insert failures as collisions.
func (d *Database) snippetExistsQuiet(ctx context.Context, id string) bool {
	exists, err := d.SnippetExists(ctx, id)
	return err == nil && exists
}

// Close closes the database connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}
