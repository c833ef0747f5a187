package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Database drivers for the backup table fixtures.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// BackupsTableDDL creates a backup table whose column order matches the legacy layout:
// job_name at index 2 and status at index 5.
const BackupsTableDDL = `CREATE TABLE %s (
	id INTEGER NOT NULL,
	date TEXT NOT NULL,
	job_name TEXT NOT NULL,
	host TEXT NOT NULL,
	size_bytes INTEGER,
	status TEXT NOT NULL
)`

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	TempDir() string
	Cleanup(func())
}

// NewSQLiteBackupsDB creates a sqlite file under t.TempDir() holding table with rows
// and returns the file path.
func NewSQLiteBackupsDB(t TestingTB, table string, rows []BackupRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "backups.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal("Failed to open sqlite database:", err)
	}
	defer closeAndLog(t, "sqlite fixture", db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(BackupsTableDDL, table)); err != nil {
		t.Fatalf("Failed to create table %s: %v", table, err)
	}
	InsertBackupRows(t, db, table, "?", rows)
	return path
}

// SQLiteConnector returns a connector opening the sqlite file at path.
// The returned function is assignable to data.Connector.
func SQLiteConnector(path string) func(ctx context.Context) (*sql.DB, error) {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		if pingErr := db.PingContext(ctx); pingErr != nil {
			closeErr := db.Close()
			if closeErr != nil {
				return nil, fmt.Errorf("%w (close: %v)", pingErr, closeErr)
			}
			return nil, pingErr
		}
		return db, nil
	}
}

// InsertBackupRows inserts rows into table using the given placeholder style ("?" or "$").
func InsertBackupRows(t TestingTB, db *sql.DB, table, placeholder string, rows []BackupRow) {
	t.Helper()

	marks := make([]string, 6)
	for i := range marks {
		if placeholder == "$" {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	stmt := fmt.Sprintf("INSERT INTO %s (id, date, job_name, host, size_bytes, status) VALUES (%s)",
		table, strings.Join(marks, ", "))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i, r := range rows {
		if _, err := db.ExecContext(ctx, stmt, i+1, r.Date, r.JobName, r.Host, r.SizeBytes, r.Status); err != nil {
			t.Fatalf("Failed to insert backup row %d: %v", i, err)
		}
	}
}

// TestDBConfig holds configuration for the optional Postgres integration database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
// CI/CD environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "backup_audit"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "backup_audit"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "backup_audit"),
	}
}

// PostgresDSN builds the DSN for cfg.
func (cfg TestDBConfig) PostgresDSN() string {
	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User, cfg.Password, hostPort, cfg.DBName)
}

// SetupPostgresBackupsDB connects to the integration database, creates a uniquely named
// backup table holding rows and drops it when the test finishes. It skips the test when
// the database is unavailable (unless TEST_REQUIRE_DB is set).
func SetupPostgresBackupsDB(t TestingTB, rows []BackupRow) (*sql.DB, string) {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", DefaultTestDBConfig().PostgresDSN())
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}

	table := fmt.Sprintf("backups_%d", time.Now().UnixNano())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := strings.Replace(fmt.Sprintf(BackupsTableDDL, table), "date TEXT", "date DATE", 1)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		closeAndLog(t, "postgres", db)
		t.Fatalf("Failed to create table %s: %v", table, err)
	}
	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if _, err := db.ExecContext(cctx, "DROP TABLE IF EXISTS "+table); err != nil {
			t.Logf("Warning: failed to drop table %s: %v", table, err)
		}
		closeAndLog(t, "postgres", db)
	})

	InsertBackupRows(t, db, table, "$", rows)
	return db, table
}

// SkipIfNoTestDB skips the test if the Postgres test database is not available.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().PostgresDSN())
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}
	defer closeAndLog(t, "test db probe", db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if requireDB() {
			t.Fatal("Test database not available:", pingErr)
		}
		t.Skip("Test database not available:", pingErr)
	}
}

func closeAndLog(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }

// TestTime returns a fixed time for testing: 2026-10-15 12:00 UTC.
func TestTime() time.Time {
	return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
}

// TestDay is TestTime's calendar date.
const TestDay = "2026-10-15"
