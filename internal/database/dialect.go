package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect names the SQL flavour of the backing store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// ParseDialect accepts the DB_DRIVER spellings used in deployment files.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx", "supabase":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// Rebind rewrites `?` placeholders to `$1, $2, ...` for Postgres and leaves
// the query untouched otherwise. Question marks inside single-quoted
// literals are preserved.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n, inQuote := 0, false
	for i := 0; i < len(q); i++ {
		ch := q[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
// MySQL falls back to LastInsertId.
func (d Dialect) SupportsReturning() bool { return d != MySQL }

// InsertIgnore returns an INSERT statement that silently skips rows whose
// unique key already exists. conflict names the unique column(s).
func (d Dialect) InsertIgnore(table, columns, conflict string, nargs int) string {
	ph := strings.TrimSuffix(strings.Repeat("?,", nargs), ",")
	if d == MySQL {
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", table, columns, ph)
	}
	return d.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		table, columns, ph, conflict))
}
