package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS users (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	name VARCHAR(32) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	password VARCHAR(255) NOT NULL,
// 	resume VARCHAR(512) DEFAULT NULL,
// 	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE UNIQUE INDEX users_email_idx ON users (email);
//
// CREATE TABLE IF NOT EXISTS company (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	name VARCHAR(64) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	password VARCHAR(255) NOT NULL,
// 	slug VARCHAR(255) NOT NULL,
// 	address VARCHAR(128) NOT NULL DEFAULT '',
// 	logo VARCHAR(256) NOT NULL DEFAULT '',
// 	finance_stage VARCHAR(16) NOT NULL DEFAULT '',
// 	field VARCHAR(16) NOT NULL DEFAULT '',
// 	website VARCHAR(255) NOT NULL DEFAULT '',
// 	description VARCHAR(255) NOT NULL DEFAULT '',
// 	details TEXT NOT NULL DEFAULT '',
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE UNIQUE INDEX company_email_idx ON company (email);
// CREATE UNIQUE INDEX company_slug_idx ON company (slug);
//
// CREATE TABLE IF NOT EXISTS job (
// 	id SERIAL PRIMARY KEY,
// 	name VARCHAR(32) NOT NULL,
// 	salary_min INTEGER NOT NULL CHECK (salary_min > 0 AND salary_min <= 100),
// 	salary_max INTEGER NOT NULL CHECK (salary_max > 0 AND salary_max <= 100),
// 	city VARCHAR(8) NOT NULL,
// 	tags VARCHAR(64) NOT NULL DEFAULT '',
// 	exp VARCHAR(16) NOT NULL,
// 	education VARCHAR(16) NOT NULL,
// 	treatment VARCHAR(256) NOT NULL DEFAULT '',
// 	description TEXT NOT NULL,
// 	is_enable BOOLEAN NOT NULL DEFAULT TRUE,
// 	created_at TIMESTAMP NOT NULL,
// 	company_id CHAR(27) NOT NULL REFERENCES company (id) ON DELETE CASCADE,
// 	CHECK (salary_min <= salary_max)
// );
// CREATE INDEX job_company_id_idx ON job (company_id);
// CREATE INDEX job_is_enable_created_at_idx ON job (is_enable, created_at DESC);
//
// CREATE TABLE IF NOT EXISTS delivery (
// 	id SERIAL PRIMARY KEY,
// 	job_id INTEGER NOT NULL REFERENCES job (id) ON DELETE CASCADE,
// 	user_id CHAR(27) NOT NULL REFERENCES users (id) ON DELETE CASCADE,
// 	resume VARCHAR(512) NOT NULL,
// 	created_at TIMESTAMP NOT NULL
// );
// CREATE UNIQUE INDEX delivery_job_id_user_id_idx ON delivery (job_id, user_id);

const uniqueViolation = "23505"

// GetDbConn tries to establish a connection to postgres and return the connection handler
func GetDbConn(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}

// WithTx runs fn inside a transaction, committing only if fn succeeds.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "unable to commit transaction")
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}
