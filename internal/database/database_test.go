package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iliyamo/tedris-portal/internal/catalog"
)

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"sqlite":   SQLite,
		"SQLite3":  SQLite,
		"mysql":    MySQL,
		"postgres": Postgres,
		"supabase": Postgres,
	}
	for in, want := range cases {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM users WHERE phone = ? AND note = '?' AND region = ?"
	if got := MySQL.Rebind(q); got != q {
		t.Errorf("mysql rebind changed query: %s", got)
	}
	want := "SELECT id FROM users WHERE phone = $1 AND note = '?' AND region = $2"
	if got := Postgres.Rebind(q); got != want {
		t.Errorf("postgres rebind = %s", got)
	}
}

func TestInsertIgnore(t *testing.T) {
	if got := MySQL.InsertIgnore("schools", "name,region", "name", 2); got != "INSERT IGNORE INTO schools (name,region) VALUES (?,?)" {
		t.Errorf("mysql: %s", got)
	}
	want := "INSERT INTO schools (name,region) VALUES ($1,$2) ON CONFLICT (name) DO NOTHING"
	if got := Postgres.InsertIgnore("schools", "name,region", "name", 2); got != want {
		t.Errorf("postgres: %s", got)
	}
	if !SQLite.SupportsReturning() || MySQL.SupportsReturning() {
		t.Error("SupportsReturning mismatch")
	}
}

func TestMySQLDSN(t *testing.T) {
	got := MySQLDSN("app", "", "db", "3306", "tedris")
	if got != "app@tcp(db:3306)/tedris?charset=utf8mb4&parseTime=true&loc=UTC" {
		t.Errorf("dsn = %s", got)
	}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "nested", "tedris.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}
	var n int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name LIKE 'idx_%'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != len(sharedIndexes) {
		t.Errorf("indexes = %d, want %d", n, len(sharedIndexes))
	}
}

func TestDefaultSchoolsUseCatalog(t *testing.T) {
	for _, s := range DefaultSchools {
		if !catalog.ValidSubRegion(s.Region, s.SubRegion) {
			t.Errorf("seed school %q has invalid location %q/%q", s.Name, s.Region, s.SubRegion)
		}
	}
}
