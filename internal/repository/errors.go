// Package repository holds the SQL data access for users, schools,
// statistics and refresh tokens. Queries are written once with `?`
// placeholders and rebound per dialect. The sentinel errors below let the
// service layer tell a uniqueness conflict or a missing row from a storage
// failure without parsing driver messages.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when an insert violates a unique constraint.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicateKey = errors.New("duplicate key")

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

// isDuplicateKey recognises unique-constraint violations from each of the
// supported drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
