package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLStore keeps the namespace in a secrets table. The queries use $N
// placeholders, which both postgres and sqlite3 accept.
type SQLStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, namespace: Namespace}
}

// OpenDB opens and pings a database for the given driver.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = "user=postgres dbname=postgres password=password sslmode=disable"
		}
		if !strings.Contains(dsn, "sslmode=") {
			if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
				dsn += "?sslmode=require"
			} else {
				dsn += " sslmode=require"
			}
		}
	case "sqlite3":
		if dsn == "" {
			dsn = "loadline.db"
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates the secrets table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS secrets (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create secrets table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := "SELECT value FROM secrets WHERE namespace=$1 AND key=$2"
	err := s.db.QueryRowContext(ctx, query, s.namespace, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO secrets (namespace, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`
	_, err := s.db.ExecContext(ctx, query, s.namespace, key, value)
	return err
}
