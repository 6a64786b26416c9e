package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is a connection pool tagged with the SQL dialect it speaks. The
// repositories write queries once with `?` placeholders and let Rebind
// adapt them.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the backing store selected by driver and verifies the
// connection. For sqlite, dsn is a file path (the directory is created) or
// a full "file:" URI; for postgres it is a connection URL such as the one
// a hosted provider hands out; for mysql use MySQLDSN.
func Open(driver, dsn string) (*DB, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch d {
	case SQLite:
		if db, err = sql.Open("sqlite", sqliteDSN(dsn)); err != nil {
			return nil, err
		}
		// One writer at a time; busy_timeout makes the rest wait instead of
		// failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	case MySQL:
		if db, err = sql.Open("mysql", dsn); err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	case Postgres:
		if db, err = sql.Open("pgx", dsn); err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	return &DB{DB: db, Dialect: d}, nil
}

// MySQLDSN builds a go-sql-driver DSN. parseTime=true maps DATETIME to
// time.Time and loc=UTC keeps times consistent.
func MySQLDSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn
	}
	if dir := filepath.Dir(dsn); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
}
