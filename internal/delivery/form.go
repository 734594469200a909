package delivery

import (
	"context"
	"time"

	"github.com/job-web/job-board/internal/database"
	"github.com/job-web/job-board/internal/form"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/job"
	"github.com/job-web/job-board/internal/user"
	"github.com/pkg/errors"
)

var (
	ErrResumeMissing    = errors.New("user has no resume")
	ErrJobClosed        = errors.New("job is not enabled")
	ErrAlreadyDelivered = errors.New("resume already delivered to job")
)

type deliverySaver interface {
	SaveDelivery(ctx context.Context, d *Delivery) error
}

// CompanyForm filters the deliveries a company sees by job.
type CompanyForm struct {
	*form.Form
}

func NewCompanyForm() *CompanyForm {
	return &CompanyForm{form.New(form.Field{
		Name:  "job_id",
		Label: i18n.LabelJobID,
		Validators: []form.Validator{
			form.Optional(),
			form.Integer(i18n.MsgIntegerRequired),
		},
	})}
}

// JobID returns the selected job, or 0 for every job.
func (f *CompanyForm) JobID() int {
	n, _ := f.Int("job_id")
	return n
}

// Deliver sends the stored resume of u to j.
func Deliver(ctx context.Context, s deliverySaver, j *job.Job, u user.User) (*Delivery, error) {
	if !j.IsEnable {
		return nil, ErrJobClosed
	}
	if !u.HasResume() {
		return nil, ErrResumeMissing
	}
	d := &Delivery{
		JobID:     j.ID,
		UserID:    u.ID,
		Resume:    u.Resume,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveDelivery(ctx, d); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyDelivered
		}
		return nil, err
	}
	return d, nil
}
