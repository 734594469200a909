package delivery

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

func (r *Repository) SaveDelivery(ctx context.Context, d *Delivery) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(
			ctx,
			`INSERT INTO delivery (job_id, user_id, resume, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			d.JobID,
			d.UserID,
			d.Resume,
			d.CreatedAt,
		).Scan(&d.ID)
		return errors.Wrap(err, "unable to insert delivery")
	})
}

// DeliveriesByCompany lists the resumes sent to the jobs of companyID, newest
// first. A jobID of 0 lists every job.
func (r *Repository) DeliveriesByCompany(ctx context.Context, companyID string, jobID int) ([]*Delivery, error) {
	deliveries := []*Delivery{}
	rows, err := r.db.QueryContext(ctx, `SELECT d.id, d.job_id, d.user_id, d.resume, d.created_at, j.name, u.name, u.email
	FROM delivery d
	JOIN job j ON j.id = d.job_id
	JOIN users u ON u.id = d.user_id
	WHERE j.company_id = $1 AND ($2 = 0 OR d.job_id = $2)
	ORDER BY d.created_at DESC`, companyID, jobID)
	if err != nil {
		return deliveries, errors.Wrap(err, "unable to query deliveries")
	}
	defer rows.Close()
	for rows.Next() {
		d := &Delivery{}
		if err := rows.Scan(&d.ID, &d.JobID, &d.UserID, &d.Resume, &d.CreatedAt, &d.JobName, &d.UserName, &d.UserEmail); err != nil {
			return deliveries, errors.Wrap(err, "unable to scan delivery")
		}
		d.TimeAgo = humanize.Time(d.CreatedAt)
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
