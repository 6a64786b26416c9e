package database

import (
	"context"
	"fmt"
)

// Uniqueness of users.phone, users.national_id, users.employee_id and
// schools.name lives in the schema so concurrent writers cannot break it.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		phone         TEXT NOT NULL UNIQUE,
		national_id   TEXT NOT NULL UNIQUE,
		employee_id   TEXT NOT NULL UNIQUE,
		full_name     TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		user_category TEXT NOT NULL,
		specific_role TEXT NOT NULL,
		region        TEXT NOT NULL,
		sub_region    TEXT NOT NULL,
		school        TEXT NOT NULL,
		is_new_school BOOLEAN NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schools (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL UNIQUE,
		region     TEXT NOT NULL,
		sub_region TEXT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		phone         VARCHAR(8) NOT NULL UNIQUE,
		national_id   VARCHAR(32) NOT NULL UNIQUE,
		employee_id   VARCHAR(64) NOT NULL UNIQUE,
		full_name     TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		user_category VARCHAR(32) NOT NULL,
		specific_role VARCHAR(32) NOT NULL,
		region        VARCHAR(64) NOT NULL,
		sub_region    VARCHAR(64) NOT NULL,
		school        TEXT NOT NULL,
		is_new_school BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schools (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		region     VARCHAR(64) NOT NULL,
		sub_region VARCHAR(64) NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Lookup indexes shared by sqlite and postgres. The unique columns are
// already indexed by their constraints; naming them keeps the schema
// readable in admin tools.
var sharedIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone)`,
	`CREATE INDEX IF NOT EXISTS idx_users_national_id ON users(national_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_employee_id ON users(employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_region ON users(region)`,
	`CREATE INDEX IF NOT EXISTS idx_users_school ON users(school)`,
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_schools_region ON schools(region)`,
	`CREATE INDEX IF NOT EXISTS idx_schools_sub_region ON schools(sub_region)`,
	`CREATE INDEX IF NOT EXISTS idx_schools_name ON schools(name)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so its indexes are declared
// inline. School names are capped at 191 characters for utf8mb4 keys.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		phone         VARCHAR(8) NOT NULL,
		national_id   VARCHAR(32) NOT NULL,
		employee_id   VARCHAR(64) NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		user_category VARCHAR(32) NOT NULL,
		specific_role VARCHAR(32) NOT NULL,
		region        VARCHAR(64) NOT NULL,
		sub_region    VARCHAR(64) NOT NULL,
		school        VARCHAR(191) NOT NULL,
		is_new_school TINYINT(1) NOT NULL DEFAULT 0,
		created_at    DATETIME(6) NOT NULL,
		updated_at    DATETIME(6) NOT NULL,
		UNIQUE KEY uq_users_phone (phone),
		UNIQUE KEY uq_users_national_id (national_id),
		UNIQUE KEY uq_users_employee_id (employee_id),
		KEY idx_users_region (region),
		KEY idx_users_school (school),
		KEY idx_users_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS schools (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(191) NOT NULL,
		region     VARCHAR(64) NOT NULL,
		sub_region VARCHAR(64) NOT NULL,
		is_active  TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_schools_name (name),
		KEY idx_schools_region (region),
		KEY idx_schools_sub_region (sub_region)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		revoked_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Statements returns the DDL for d in execution order.
func (d Dialect) Statements() []string {
	switch d {
	case MySQL:
		return mysqlSchema
	case Postgres:
		return append(append([]string{}, postgresSchema...), sharedIndexes...)
	default:
		return append(append([]string{}, sqliteSchema...), sharedIndexes...)
	}
}

// Migrate creates the tables and indexes if they do not exist. It is safe
// to run on every start.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range db.Dialect.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
