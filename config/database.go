package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Driver names a supported record store backend.
type Driver string

const (
	// DriverMySQL uses github.com/go-sql-driver/mysql.
	DriverMySQL Driver = "mysql"
	// DriverMariaDB is an alias of DriverMySQL.
	DriverMariaDB Driver = "mariadb"
	// DriverPostgres uses the pgx stdlib driver.
	DriverPostgres Driver = "postgres"
	// DriverSQLite uses modernc.org/sqlite.
	DriverSQLite Driver = "sqlite"
)

// UnmarshalText implements encoding.TextUnmarshaler for Driver to allow env parsing.
func (d *Driver) UnmarshalText(text []byte) error {
	v := Driver(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case "postgresql", "pgx":
		v = DriverPostgres
	case "sqlite3":
		v = DriverSQLite
	}
	if !v.Valid() {
		return fmt.Errorf("invalid DB_DRIVER: %q", string(text))
	}
	*d = v
	return nil
}

// Valid returns true if the Driver is supported.
func (d Driver) Valid() bool {
	switch d {
	case DriverMySQL, DriverMariaDB, DriverPostgres, DriverSQLite:
		return true
	}
	return false
}

// Dialect collapses aliases to the SQL dialect actually spoken.
func (d Driver) Dialect() Driver {
	if d == DriverMariaDB {
		return DriverMySQL
	}
	return d
}

// DBConfig contains record store connection and backup table layout configuration.
type DBConfig struct {
	Driver   Driver `env:"DRIVER"   envDefault:"mysql"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"` // 0 selects the driver default
	User     string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // postgres only
	// Path is the database file for the sqlite driver.
	Path string `env:"PATH"`

	Table         string `env:"TABLE"          envDefault:"backups"`
	DateColumn    string `env:"DATE_COLUMN"    envDefault:"date"`
	JobColumn     string `env:"JOB_COLUMN"     envDefault:"job_name"`
	StatusColumn  string `env:"STATUS_COLUMN"  envDefault:"status"`
	SuccessStatus string `env:"SUCCESS_STATUS" envDefault:"success"`

	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	QueryTimeout   time.Duration `env:"QUERY_TIMEOUT"   envDefault:"30s"`
}

// Sanitize trims values and fills driver-dependent defaults.
func (c *DBConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	c.User = strings.TrimSpace(c.User)
	c.Name = strings.TrimSpace(c.Name)
	c.Path = strings.TrimSpace(c.Path)
	c.Table = strings.TrimSpace(c.Table)
	c.DateColumn = strings.TrimSpace(c.DateColumn)
	c.JobColumn = strings.TrimSpace(c.JobColumn)
	c.StatusColumn = strings.TrimSpace(c.StatusColumn)
	c.SuccessStatus = strings.TrimSpace(c.SuccessStatus)

	if c.Driver == "" {
		c.Driver = DriverMySQL
	}
	if c.Port <= 0 {
		c.Port = c.DefaultPort()
	}
	if c.SSLMode = strings.TrimSpace(c.SSLMode); c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.DateColumn == "" {
		c.DateColumn = "date"
	}
	if c.SuccessStatus == "" {
		c.SuccessStatus = "success"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 30 * time.Second
	}
}

// Redacted returns a copy with the password masked.
func (c DBConfig) Redacted() DBConfig {
	c.Password = mask(c.Password)
	return c
}

// DefaultPort returns the conventional port for the configured driver.
func (c *DBConfig) DefaultPort() int {
	switch c.Driver.Dialect() {
	case DriverMySQL:
		return 3306
	case DriverPostgres:
		return 5432
	default:
		return 0
	}
}

// Validate checks that the settings needed by the selected driver are present.
func (c *DBConfig) Validate() error {
	if !c.Driver.Valid() {
		return fmt.Errorf("DB_DRIVER %q is not supported", c.Driver)
	}
	var errs []error
	if c.Driver == DriverSQLite {
		if c.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	} else {
		if c.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.User == "" {
			errs = append(errs, errors.New("DB_USERNAME is required"))
		}
		if c.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required"))
		}
	}
	if c.Table == "" {
		errs = append(errs, errors.New("DB_TABLE is required"))
	}
	return errors.Join(errs...)
}
