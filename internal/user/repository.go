package user

import (
	"context"
	"database/sql"

	"github.com/dustin/go-humanize"
	"github.com/job-web/job-board/internal/database"
	"github.com/pkg/errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const userColumns = `id, name, email, password, COALESCE(resume, ''), is_admin, created_at`

func scanUser(row *sql.Row) (User, error) {
	u := User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Resume, &u.IsAdmin, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

// UserByEmail returns sql.ErrNoRows when no user owns the email.
func (r *Repository) UserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *Repository) UserByID(ctx context.Context, id string) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, errors.Wrap(err, "unable to look up user email")
}

func (r *Repository) SaveUser(ctx context.Context, u *User) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO users (id, name, email, password, is_admin, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID,
			u.Name,
			u.Email,
			u.Password,
			u.IsAdmin,
			u.CreatedAt,
		)
		return errors.Wrap(err, "unable to insert user")
	})
}

func (r *Repository) UpdateResume(ctx context.Context, userID, resume string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE users SET resume = $1 WHERE id = $2`, resume, userID)
		return errors.Wrap(err, "unable to update user resume")
	})
}
