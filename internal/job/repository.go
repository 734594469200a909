package job

import (
	"context"
	"database/sql"
	"strconv"

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

const jobColumns = `j.id, j.name, j.salary_min, j.salary_max, j.city, j.tags, j.exp, j.education, j.treatment, j.description, j.is_enable, j.created_at, j.company_id, c.name, c.slug`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner, extra ...interface{}) (*Job, error) {
	j := &Job{}
	dest := append(extra,
		&j.ID,
		&j.Name,
		&j.SalaryMin,
		&j.SalaryMax,
		&j.City,
		&j.Tags,
		&j.Exp,
		&j.Education,
		&j.Treatment,
		&j.Description,
		&j.IsEnable,
		&j.CreatedAt,
		&j.CompanyID,
		&j.CompanyName,
		&j.CompanySlug,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	j.TimeAgo = humanize.Time(j.CreatedAt)
	return j, nil
}

func (r *Repository) paginate(ctx context.Context, p Pagination, where string, args ...interface{}) (Pagination, error) {
	args = append(args, p.PerPage, p.Offset())
	n := len(args)
	rows, err := r.db.QueryContext(ctx, `SELECT count(*) OVER() AS full_count, `+jobColumns+`
	FROM job j JOIN company c ON c.id = j.company_id `+where+`
	ORDER BY j.created_at DESC
	LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return p, errors.Wrap(err, "unable to query jobs")
	}
	defer rows.Close()
	p.Items = []*Job{}
	for rows.Next() {
		j, err := scanJob(rows, &p.Total)
		if err != nil {
			return p, errors.Wrap(err, "unable to scan job")
		}
		p.Items = append(p.Items, j)
	}
	if err := rows.Err(); err != nil {
		return p, err
	}
	// a page past the end returns no rows, so the window count is unknown
	if len(p.Items) == 0 && p.Page > 1 {
		var total int
		if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM job j `+where, args[:n-2]...).Scan(&total); err != nil {
			return p, errors.Wrap(err, "unable to count jobs")
		}
		p.Total = total
	}
	return p, nil
}

// EnabledJobs returns one page of published jobs, newest first.
func (r *Repository) EnabledJobs(ctx context.Context, page, perPage int) (Pagination, error) {
	return r.paginate(ctx, NewPagination(page, perPage), `WHERE j.is_enable = TRUE`)
}

// AllJobs returns one page of every job, published or not.
func (r *Repository) AllJobs(ctx context.Context, page, perPage int) (Pagination, error) {
	return r.paginate(ctx, NewPagination(page, perPage), ``)
}

// JobsByCompany returns one page of the jobs posted by companyID.
func (r *Repository) JobsByCompany(ctx context.Context, companyID string, page, perPage int) (Pagination, error) {
	return r.paginate(ctx, NewPagination(page, perPage), `WHERE j.company_id = $1`, companyID)
}

// LatestEnabledJobs returns at most limit published jobs, newest first.
func (r *Repository) LatestEnabledJobs(ctx context.Context, limit int) ([]*Job, error) {
	p, err := r.paginate(ctx, NewPagination(1, limit), `WHERE j.is_enable = TRUE`)
	return p.Items, err
}

// JobByID returns sql.ErrNoRows when no job has the id.
func (r *Repository) JobByID(ctx context.Context, id int) (*Job, error) {
	return scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job j JOIN company c ON c.id = j.company_id WHERE j.id = $1`, id))
}

func (r *Repository) SaveJob(ctx context.Context, j *Job) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(
			ctx,
			`INSERT INTO job (name, salary_min, salary_max, city, tags, exp, education, treatment, description, is_enable, created_at, company_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
			j.Name,
			j.SalaryMin,
			j.SalaryMax,
			j.City,
			j.Tags,
			j.Exp,
			j.Education,
			j.Treatment,
			j.Description,
			j.IsEnable,
			j.CreatedAt,
			j.CompanyID,
		).Scan(&j.ID)
		return errors.Wrap(err, "unable to insert job")
	})
}

func (r *Repository) UpdateJob(ctx context.Context, j *Job) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE job SET name = $1, salary_min = $2, salary_max = $3, city = $4, tags = $5, exp = $6, education = $7, treatment = $8, description = $9, is_enable = $10 WHERE id = $11`,
			j.Name,
			j.SalaryMin,
			j.SalaryMax,
			j.City,
			j.Tags,
			j.Exp,
			j.Education,
			j.Treatment,
			j.Description,
			j.IsEnable,
			j.ID,
		)
		return errors.Wrapf(err, "unable to update job %d", j.ID)
	})
}

// DeleteJob removes the job together with its deliveries.
func (r *Repository) DeleteJob(ctx context.Context, id int) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM delivery WHERE job_id = $1`, id); err != nil {
			return errors.Wrapf(err, "unable to delete deliveries of job %d", id)
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM job WHERE id = $1`, id)
		return errors.Wrapf(err, "unable to delete job %d", id)
	})
}

func (r *Repository) SetJobEnabled(ctx context.Context, id int, enabled bool) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE job SET is_enable = $1 WHERE id = $2`, enabled, id)
		return errors.Wrapf(err, "unable to set is_enable on job %d", id)
	})
}
