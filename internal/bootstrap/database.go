package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver

	"github.com/target/backup-audit/config"
	"github.com/target/backup-audit/internal/data"
	apperrors "github.com/target/backup-audit/internal/errors"
)

// DatabaseConfig contains configuration for record store connections.
type DatabaseConfig struct {
	DBConfig config.DBConfig
	Logger   *slog.Logger
}

// DriverName returns the database/sql driver registered for the configured backend.
func DriverName(driver config.Driver) string {
	switch driver.Dialect() {
	case config.DriverPostgres:
		return "pgx"
	case config.DriverSQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// DSN builds the data source name for the configured backend.
func DSN(cfg config.DBConfig) string {
	switch cfg.Driver.Dialect() {
	case config.DriverPostgres:
		// Build DSN using url.URL to safely handle special characters in credentials
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:   "/" + cfg.Name,
		}
		q := u.Query()
		q.Set("sslmode", cfg.SSLMode)
		if secs := int(cfg.ConnectTimeout / time.Second); secs > 0 {
			q.Set("connect_timeout", strconv.Itoa(secs))
		}
		u.RawQuery = q.Encode()
		return u.String()
	case config.DriverSQLite:
		// The auditor only reads, so open the file read-only.
		u := &url.URL{Scheme: "file", Opaque: cfg.Path, RawQuery: "mode=ro"}
		return u.String()
	default:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.Timeout = cfg.ConnectTimeout
		mc.ParseTime = true
		return mc.FormatDSN()
	}
}

// ConnectDB opens a record store handle and verifies it with a ping bounded by the connect timeout.
// Open and ping failures are connection errors.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "connecting to database",
			"driver", string(cfg.DBConfig.Driver),
			"host", cfg.DBConfig.Host,
			"user", cfg.DBConfig.User,
			"password", cfg.DBConfig.Redacted().Password,
			"database", cfg.DBConfig.Name,
		)
	}

	db, err := sql.Open(DriverName(cfg.DBConfig.Driver), DSN(cfg.DBConfig))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConnection, "open database")
	}

	// One query per run; a single connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	timeout := cfg.DBConfig.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, apperrors.Wrap(pingErr, apperrors.ErrCodeConnection, "database connection error")
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "database connected", "store", describeStore(cfg.DBConfig))
	}
	return db, nil
}

// NewConnector returns a data.Connector that opens a fresh, verified handle per call.
func NewConnector(cfg DatabaseConfig) data.Connector {
	return func(ctx context.Context) (*sql.DB, error) {
		return ConnectDB(ctx, cfg)
	}
}
