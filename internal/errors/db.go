package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server and client error numbers that mean the store could not be reached or
// refused the credentials.
var mysqlConnectionErrors = map[uint16]struct{}{
	1044: {}, // ER_DBACCESS_DENIED_ERROR
	1045: {}, // ER_ACCESS_DENIED_ERROR
	1049: {}, // ER_BAD_DB_ERROR
	2002: {}, // CR_CONNECTION_ERROR
	2003: {}, // CR_CONN_HOST_ERROR
	2005: {}, // CR_UNKNOWN_HOST
	2006: {}, // CR_SERVER_GONE_ERROR
	2013: {}, // CR_SERVER_LOST
}

// MapDBError maps record store driver errors to Connection or Query AppErrors.
//
// Connection is chosen for:
// - deadline/timeout errors (store did not answer in time)
// - network errors and dropped connections
// - PostgreSQL SQLSTATE classes 08 (connection exception) and 28 (invalid authorization)
// - MySQL/MariaDB access-denied and client connection error numbers
// - SQLite open/auth failures
//
// Everything else is a Query error. Errors that already carry an AppError code are
// returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}

	if IsConnectionFailure(err) {
		return Wrap(err, ErrCodeConnection, "database connection error")
	}
	return Wrap(err, ErrCodeQuery, "query execution error")
}

// IsConnectionFailure reports whether a driver error means the store was unreachable.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsInvalidAuthorizationSpecification(pgErr.Code)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := mysqlConnectionErrors[myErr.Number]
		return ok
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_PERM:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
