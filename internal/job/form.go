package job

import (
	"context"
	"strconv"
	"time"

	"github.com/job-web/job-board/internal/form"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/microcosm-cc/bluemonday"
)

const (
	enabled  = "True"
	disabled = "False"
)

type jobSaver interface {
	SaveJob(ctx context.Context, j *Job) error
}

type jobUpdater interface {
	UpdateJob(ctx context.Context, j *Job) error
}

type Form struct {
	*form.Form
}

// NewForm returns an empty job form defaulting to the first choices and to
// publishing immediately.
func NewForm() *Form {
	f := &Form{form.New(
		form.Field{
			Name:  "name",
			Label: i18n.LabelJobName,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(4, 32, i18n.MsgLengthBetween, 4, 32),
			},
		},
		form.Field{
			Name:  "salary_min",
			Label: i18n.LabelSalaryMin,
			Validators: []form.Validator{
				form.IntegerRequired(i18n.MsgIntegerRequired),
				salaryMin,
			},
		},
		form.Field{
			Name:  "salary_max",
			Label: i18n.LabelSalaryMax,
			Validators: []form.Validator{
				form.IntegerRequired(i18n.MsgIntegerRequired),
				salaryMax,
			},
		},
		form.Field{
			Name:  "city",
			Label: i18n.LabelCity,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(0, 8, i18n.MsgLengthMax, 8),
			},
		},
		form.Field{
			Name:       "tags",
			Label:      i18n.LabelTags,
			Validators: []form.Validator{form.Length(0, 64, i18n.MsgLengthMax, 64)},
		},
		form.Field{
			Name:       "exp",
			Label:      i18n.LabelExp,
			Validators: []form.Validator{form.OneOf(Exps, i18n.MsgInvalidChoice)},
		},
		form.Field{
			Name:       "education",
			Label:      i18n.LabelEducation,
			Validators: []form.Validator{form.OneOf(Educations, i18n.MsgInvalidChoice)},
		},
		form.Field{
			Name:       "treatment",
			Label:      i18n.LabelTreatment,
			Validators: []form.Validator{form.Length(0, 256, i18n.MsgLengthMax, 256)},
		},
		form.Field{
			Name:       "description",
			Label:      i18n.LabelJobDescription,
			Validators: []form.Validator{form.Required(i18n.MsgRequired)},
		},
		form.Field{
			Name:       "is_enable",
			Label:      i18n.LabelIsEnable,
			Validators: []form.Validator{form.OneOf([]string{enabled, disabled}, i18n.MsgInvalidChoice)},
		},
	)}
	f.Set("exp", Exps[0])
	f.Set("education", Educations[0])
	f.Set("is_enable", enabled)
	return f
}

func inSalaryRange(n int) bool {
	return n > SalaryFloor && n <= SalaryCeiling
}

// salaryMin rejects a minimum above a parsed, non zero maximum.
func salaryMin(ctx context.Context, f *form.Form, field string) error {
	n, _ := f.Int(field)
	if !inSalaryRange(n) {
		return form.Invalid(i18n.MsgSalaryRange)
	}
	if max, ok := f.Int("salary_max"); ok && max != 0 && n > max {
		return form.Invalid(i18n.MsgSalaryBelowMax)
	}
	return nil
}

// salaryMax rejects a maximum below a parsed, non zero minimum.
func salaryMax(ctx context.Context, f *form.Form, field string) error {
	n, _ := f.Int(field)
	if !inSalaryRange(n) {
		return form.Invalid(i18n.MsgSalaryRange)
	}
	if min, ok := f.Int("salary_min"); ok && min != 0 && n < min {
		return form.Invalid(i18n.MsgSalaryAboveMin)
	}
	return nil
}

// FromJob prefills the form with the stored values of j.
func (f *Form) FromJob(j Job) *Form {
	f.Set("name", j.Name)
	f.Set("salary_min", strconv.Itoa(j.SalaryMin))
	f.Set("salary_max", strconv.Itoa(j.SalaryMax))
	f.Set("city", j.City)
	f.Set("tags", j.Tags)
	f.Set("exp", j.Exp)
	f.Set("education", j.Education)
	f.Set("treatment", j.Treatment)
	f.Set("description", j.Description)
	if j.IsEnable {
		f.Set("is_enable", enabled)
	} else {
		f.Set("is_enable", disabled)
	}
	return f
}

func (f *Form) populate(j *Job) {
	j.Name = f.Get("name")
	j.SalaryMin, _ = f.Int("salary_min")
	j.SalaryMax, _ = f.Int("salary_max")
	j.City = f.Get("city")
	j.Tags = f.Get("tags")
	j.Exp = f.Get("exp")
	j.Education = f.Get("education")
	j.Treatment = f.Get("treatment")
	j.Description = bluemonday.UGCPolicy().Sanitize(f.Get("description"))
	j.IsEnable = f.Get("is_enable") == enabled
}

// CreateJob stores a new job owned by companyID from the validated fields.
func (f *Form) CreateJob(ctx context.Context, s jobSaver, companyID string) (*Job, error) {
	j := &Job{CompanyID: companyID, CreatedAt: time.Now().UTC()}
	f.populate(j)
	if err := s.SaveJob(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateJob copies the validated fields onto j and saves it. Ownership and
// creation time are left untouched.
func (f *Form) UpdateJob(ctx context.Context, s jobUpdater, j *Job) error {
	f.populate(j)
	return s.UpdateJob(ctx, j)
}
