package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/backup-audit/config"
)

// Dialect captures the SQL differences between the supported record stores:
// identifier quoting, placeholder syntax and how the date parameter is bound.
type Dialect struct {
	driver config.Driver
}

// DialectFor returns the dialect spoken by driver.
func DialectFor(driver config.Driver) (Dialect, error) {
	if !driver.Valid() {
		return Dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
	return Dialect{driver: driver.Dialect()}, nil
}

// Name returns the canonical dialect name.
func (d Dialect) Name() string {
	return string(d.driver)
}

// QuoteIdent quotes a possibly qualified identifier such as "schema.table".
func (d Dialect) QuoteIdent(ident string) string {
	parts := strings.Split(ident, ".")
	switch d.driver {
	case config.DriverPostgres:
		return pgx.Identifier(parts).Sanitize()
	case config.DriverMySQL:
		return quoteParts(parts, "`")
	default:
		return quoteParts(parts, `"`)
	}
}

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d.driver == config.DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// DateArg converts a YYYY-MM-DD day into the value bound against the date column.
// Postgres binds a time.Time so the date codec is used; the others compare text.
func (d Dialect) DateArg(day string) (any, error) {
	if d.driver != config.DriverPostgres {
		return day, nil
	}
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}
	return t, nil
}

// SelectByDate builds SELECT * FROM <table> WHERE <dateColumn> = <placeholder>.
func (d Dialect) SelectByDate(table, dateColumn string) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		d.QuoteIdent(table),
		d.QuoteIdent(dateColumn),
		d.Placeholder(1))
}

func quoteParts(parts []string, quote string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		quoted = append(quoted, quote+strings.ReplaceAll(p, quote, quote+quote)+quote)
	}
	return strings.Join(quoted, ".")
}
