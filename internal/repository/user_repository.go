package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/tedris-portal/internal/database"
	"github.com/iliyamo/tedris-portal/internal/model"
)

const userColumns = "id, phone, national_id, employee_id, full_name, password_hash, " +
	"user_category, specific_role, region, sub_region, school, is_new_school, created_at, updated_at"

// UserRepo reads and writes the users table.
type UserRepo struct{ DB *database.DB }

func NewUserRepo(db *database.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u and returns its generated ID. The caller hashes the
// password beforehand. CreatedAt and UpdatedAt are stamped here when
// zero. A unique-constraint violation on phone, national_id or
// employee_id yields ErrDuplicateKey.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	q := "INSERT INTO users (phone, national_id, employee_id, full_name, password_hash, " +
		"user_category, specific_role, region, sub_region, school, is_new_school, created_at, updated_at) " +
		"VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)"
	args := []any{u.Phone, u.NationalID, u.EmployeeID, u.FullName, u.PasswordHash,
		u.UserCategory, u.SpecificRole, u.Region, u.SubRegion, u.School, u.IsNewSchool,
		u.CreatedAt, u.UpdatedAt}

	var id uint64
	if r.DB.Dialect.SupportsReturning() {
		err := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(q+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, insertErr(err)
		}
	} else {
		res, err := r.DB.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, insertErr(err)
		}
		last, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		id = uint64(last)
	}
	u.ID = id
	return id, nil
}

func insertErr(err error) error {
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

// ExistsAny reports which of the three unique identifiers is already
// taken: "phone", "nationalId" or "employeeId". An empty string means none.
func (r *UserRepo) ExistsAny(ctx context.Context, phone, nationalID, employeeID string) (string, error) {
	var p, n, e string
	err := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(
		"SELECT phone, national_id, employee_id FROM users "+
			"WHERE phone=? OR national_id=? OR employee_id=? LIMIT 1"),
		phone, nationalID, employeeID).Scan(&p, &n, &e)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	switch {
	case p == phone:
		return "phone", nil
	case n == nationalID:
		return "nationalId", nil
	default:
		return "employeeId", nil
	}
}

// GetByPhone fetches a user by login phone.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(
		"SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1"), phone)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, r.DB.Dialect.Rebind(
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1"), id)
	return scanUser(row)
}

// List returns users newest first. limit <= 0 returns every row.
func (r *UserRepo) List(ctx context.Context, limit int) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC, id DESC"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(s rowScanner) (model.User, error) {
	var (
		u                model.User
		created, updated dbTime
	)
	err := s.Scan(&u.ID, &u.Phone, &u.NationalID, &u.EmployeeID, &u.FullName, &u.PasswordHash,
		&u.UserCategory, &u.SpecificRole, &u.Region, &u.SubRegion, &u.School, &u.IsNewSchool,
		&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt, u.UpdatedAt = created.Time, updated.Time
	return u, nil
}
