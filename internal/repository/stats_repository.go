package repository

import (
	"context"
	"time"

	"github.com/iliyamo/tedris-portal/internal/database"
)

// RegionCount is one row of the per-region aggregation.
type RegionCount struct {
	Region string
	Count  int64
}

// StatsRepo runs the read-only aggregates behind the admin dashboard.
type StatsRepo struct{ DB *database.DB }

func NewStatsRepo(db *database.DB) *StatsRepo { return &StatsRepo{DB: db} }

// CountUsers returns the number of registered users.
func (r *StatsRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// CountByCategory returns the number of users per user_category. Categories
// without users are absent from the map.
func (r *StatsRepo) CountByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_category, COUNT(*) FROM users GROUP BY user_category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			category string
			n        int64
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		out[category] = n
	}
	return out, rows.Err()
}

// CountByRegion returns the topN regions by user count, ties broken by
// region name. topN <= 0 returns every region.
func (r *StatsRepo) CountByRegion(ctx context.Context, topN int) ([]RegionCount, error) {
	q := "SELECT region, COUNT(*) AS n FROM users GROUP BY region ORDER BY n DESC, region ASC"
	var args []any
	if topN > 0 {
		q += " LIMIT ?"
		args = append(args, topN)
	}
	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionCount
	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// CountSince returns the number of users created at or after since.
func (r *StatsRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(
		"SELECT COUNT(*) FROM users WHERE created_at >= ?"), since.UTC()).Scan(&n)
	return n, err
}
