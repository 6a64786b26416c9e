package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/tedris-portal/internal/database"
	"github.com/iliyamo/tedris-portal/internal/model"
)

// SchoolRepo reads and writes the schools table.
type SchoolRepo struct{ DB *database.DB }

func NewSchoolRepo(db *database.DB) *SchoolRepo { return &SchoolRepo{DB: db} }

// List returns active schools ordered by name, optionally narrowed to a
// region and sub-region. Empty filters match everything.
func (r *SchoolRepo) List(ctx context.Context, region, subRegion string) ([]model.School, error) {
	var (
		where = []string{"is_active = ?"}
		args  = []any{true}
	)
	if region != "" {
		where = append(where, "region = ?")
		args = append(args, region)
	}
	if subRegion != "" {
		where = append(where, "sub_region = ?")
		args = append(args, subRegion)
	}
	q := "SELECT id, name, region, sub_region, is_active, created_at FROM schools WHERE " +
		strings.Join(where, " AND ") + " ORDER BY name ASC"

	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.School
	for rows.Next() {
		var (
			s       model.School
			created dbTime
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Region, &s.SubRegion, &s.IsActive, &created); err != nil {
			return nil, err
		}
		s.CreatedAt = created.Time
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateIfAbsent inserts a school unless one with the same name exists.
// It reports whether a row was written; an existing name is not an error.
func (r *SchoolRepo) CreateIfAbsent(ctx context.Context, name, region, subRegion string) (bool, error) {
	q := r.DB.Dialect.InsertIgnore("schools", "name, region, sub_region, is_active, created_at", "name", 5)
	res, err := r.DB.ExecContext(ctx, q, name, region, subRegion, true, now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of school rows, active or not.
func (r *SchoolRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schools").Scan(&n)
	return n, err
}

// Seed inserts schools when the table is empty and returns how many rows
// were written. A populated table is left alone.
func (r *SchoolRepo) Seed(ctx context.Context, schools []model.School) (int, error) {
	n, err := r.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	inserted := 0
	for _, s := range schools {
		ok, err := r.CreateIfAbsent(ctx, s.Name, s.Region, s.SubRegion)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
