package company

import (
	"context"
	"database/sql"

	"github.com/job-web/job-board/internal/database"
	"github.com/pkg/errors"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const companyColumns = `id, name, email, password, slug, address, logo, finance_stage, field, website, description, details, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row scanner) (Company, error) {
	c := Company{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Password,
		&c.Slug,
		&c.Address,
		&c.Logo,
		&c.FinanceStage,
		&c.Field,
		&c.Website,
		&c.Description,
		&c.Details,
		&c.CreatedAt,
	)
	return c, err
}

// CompanyByEmail returns sql.ErrNoRows when no company owns the email.
func (r *Repository) CompanyByEmail(ctx context.Context, email string) (Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM company WHERE email = $1`, email))
}

func (r *Repository) CompanyByID(ctx context.Context, id string) (Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM company WHERE id = $1`, id))
}

func (r *Repository) CompanyBySlug(ctx context.Context, slug string) (Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM company WHERE slug = $1`, slug))
}

// CompaniesWithoutDescription returns the companies that set a website but
// no summary yet.
func (r *Repository) CompaniesWithoutDescription(ctx context.Context) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM company WHERE website != '' AND description = '' ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query companies without description")
	}
	defer rows.Close()
	var out []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan company")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "unable to iterate companies")
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM company WHERE email = $1)`, email).Scan(&exists)
	return exists, errors.Wrap(err, "unable to look up company email")
}

func (r *Repository) SaveCompany(ctx context.Context, c *Company) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO company (id, name, email, password, slug, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID,
			c.Name,
			c.Email,
			c.Password,
			c.Slug,
			c.CreatedAt,
		)
		return errors.Wrap(err, "unable to insert company")
	})
}

func (r *Repository) UpdateCompanyDetail(ctx context.Context, c *Company) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE company SET address = $1, logo = $2, finance_stage = $3, field = $4, website = $5, description = $6, details = $7 WHERE id = $8`,
			c.Address,
			c.Logo,
			c.FinanceStage,
			c.Field,
			c.Website,
			c.Description,
			c.Details,
			c.ID,
		)
		return errors.Wrap(err, "unable to update company detail")
	})
}
