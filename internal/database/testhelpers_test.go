package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// sentimentTables lists every table the migrations create, children first
var sentimentTables = []string{"dataset_records", "dataset_runs", "news_items", "price_bars"}

// integrationDB is a migrated Postgres container for repository tests
type integrationDB struct {
	*DB
}

// newIntegrationDB skips in short mode, otherwise starts Postgres, applies
// db/migrations and terminates the container when the test ends
func newIntegrationDB(t *testing.T) *integrationDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("stocksentiment"),
		tcpostgres.WithUsername("sentiment"),
		tcpostgres.WithPassword("sentiment"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := New(connStr)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrateUp(db.conn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return &integrationDB{DB: db}
}

func migrateUp(conn *sql.DB) error {
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(filename), "..", "..", "db", "migrations")

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// reset empties every sentiment table in one statement
func (idb *integrationDB) reset(t *testing.T) {
	t.Helper()
	stmt := "TRUNCATE TABLE " + strings.Join(sentimentTables, ", ")
	if _, err := idb.conn.Exec(stmt); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// rowCount counts rows in table, optionally filtered by a where clause
func (idb *integrationDB) rowCount(t *testing.T, table, where string, args ...interface{}) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := idb.conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
