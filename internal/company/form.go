package company

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/database"
	"github.com/job-web/job-board/internal/form"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/user"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

type emailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

type companySaver interface {
	SaveCompany(ctx context.Context, c *Company) error
}

type detailSaver interface {
	UpdateCompanyDetail(ctx context.Context, c *Company) error
}

type RegisterForm struct {
	*form.Form
}

func NewRegisterForm(companies emailChecker) *RegisterForm {
	fields := []form.Field{
		{
			Name:  "name",
			Label: i18n.LabelCompanyName,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(4, 64, i18n.MsgLengthBetween, 4, 64),
			},
		},
		{
			Name:  "email",
			Label: i18n.LabelEmail,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Email(i18n.MsgEmailInvalid),
				form.Unique(companies.EmailExists, i18n.MsgEmailTaken),
			},
		},
	}
	return &RegisterForm{form.New(append(fields, user.PasswordFields()...)...)}
}

// CreateCompany stores a new company from the validated fields.
func (f *RegisterForm) CreateCompany(ctx context.Context, s companySaver) (*Company, error) {
	hash, err := auth.HashPassword(f.Get("password"))
	if err != nil {
		return nil, errors.Wrap(err, "unable to hash password")
	}
	id := ksuid.New().String()
	c := &Company{
		ID:        id,
		Name:      f.Get("name"),
		Email:     f.Get("email"),
		Password:  hash,
		Slug:      slug.Make(fmt.Sprintf("%s %s", f.Get("name"), strings.ToLower(id[len(id)-6:]))),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveCompany(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, user.ErrEmailTaken
		}
		return nil, err
	}
	return c, nil
}

type DetailForm struct {
	*form.Form
}

func NewDetailForm() *DetailForm {
	return &DetailForm{form.New(
		form.Field{
			Name:  "address",
			Label: i18n.LabelAddress,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(0, 128, i18n.MsgLengthMax, 128),
			},
		},
		form.Field{
			Name:  "logo",
			Label: i18n.LabelLogo,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(1, 256, i18n.MsgLogoInvalid),
			},
		},
		form.Field{
			Name:       "finance_stage",
			Label:      i18n.LabelFinanceStage,
			Validators: []form.Validator{form.OneOf(FinanceStages, i18n.MsgInvalidChoice)},
		},
		form.Field{
			Name:       "field",
			Label:      i18n.LabelField,
			Validators: []form.Validator{form.OneOf(Fields, i18n.MsgInvalidChoice)},
		},
		form.Field{
			Name:  "website",
			Label: i18n.LabelWebsite,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.URL(i18n.MsgWebsiteInvalid),
			},
		},
		form.Field{
			Name:  "description",
			Label: i18n.LabelDescription,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(0, MaxDescription, i18n.MsgLengthMax, MaxDescription),
			},
		},
		form.Field{
			Name:       "details",
			Label:      i18n.LabelDetails,
			Validators: []form.Validator{form.Required(i18n.MsgRequired)},
		},
	)}
}

// FromCompany prefills the form with the stored detail of c.
func (f *DetailForm) FromCompany(c Company) *DetailForm {
	f.Set("address", c.Address)
	f.Set("logo", c.Logo)
	f.Set("finance_stage", c.FinanceStage)
	f.Set("field", c.Field)
	f.Set("website", c.Website)
	f.Set("description", c.Description)
	f.Set("details", c.Details)
	return f
}

// UpdateDetail copies the validated fields onto c and saves them.
func (f *DetailForm) UpdateDetail(ctx context.Context, s detailSaver, c *Company) error {
	c.Address = f.Get("address")
	c.Logo = f.Get("logo")
	c.FinanceStage = f.Get("finance_stage")
	c.Field = f.Get("field")
	c.Website = f.Get("website")
	c.Description = f.Get("description")
	c.Details = bluemonday.UGCPolicy().Sanitize(f.Get("details"))
	return s.UpdateCompanyDetail(ctx, c)
}
