package user

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/database"
	"github.com/job-web/job-board/internal/form"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// PasswordPattern is shared by user and company registration.
var PasswordPattern = regexp.MustCompile(`^[a-zA-Z]+\w+`)

// ErrEmailTaken is returned when the unique index rejects an insert that
// passed the form's uniqueness check.
var ErrEmailTaken = errors.New("email already registered")

type emailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userSaver interface {
	SaveUser(ctx context.Context, u *User) error
}

type resumeSaver interface {
	UpdateResume(ctx context.Context, userID, resume string) error
}

// ResumeStore keeps uploaded resumes and returns their public URL.
type ResumeStore interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
}

// PasswordFields returns the password and repeat_password fields used by
// every registration form.
func PasswordFields() []form.Field {
	return []form.Field{
		{
			Name:  "password",
			Label: i18n.LabelPassword,
			Validators: []form.Validator{
				form.Required(i18n.MsgPasswordRequired),
				form.Length(6, 24, i18n.MsgLengthBetween, 6, 24),
				form.Regexp(PasswordPattern, i18n.MsgPasswordFormat),
			},
		},
		{
			Name:  "repeat_password",
			Label: i18n.LabelRepeatPassword,
			Validators: []form.Validator{
				form.Required(i18n.MsgPasswordRequired),
				form.EqualTo("password", i18n.MsgPasswordMismatch),
			},
		},
	}
}

type RegisterForm struct {
	*form.Form
}

func NewRegisterForm(users emailChecker) *RegisterForm {
	fields := []form.Field{
		{
			Name:  "name",
			Label: i18n.LabelName,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Length(4, 16, i18n.MsgLengthBetween, 4, 16),
			},
		},
		{
			Name:  "email",
			Label: i18n.LabelEmail,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Email(i18n.MsgEmailInvalid),
				form.Unique(users.EmailExists, i18n.MsgEmailTaken),
			},
		},
	}
	return &RegisterForm{form.New(append(fields, PasswordFields()...)...)}
}

// CreateUser stores a new user from the validated fields.
func (f *RegisterForm) CreateUser(ctx context.Context, s userSaver) (*User, error) {
	hash, err := auth.HashPassword(f.Get("password"))
	if err != nil {
		return nil, errors.Wrap(err, "unable to hash password")
	}
	u := &User{
		ID:        ksuid.New().String(),
		Name:      f.Get("name"),
		Email:     f.Get("email"),
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveUser(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

type LoginForm struct {
	*form.Form
}

func NewLoginForm() *LoginForm {
	return &LoginForm{form.New(
		form.Field{
			Name:  "email",
			Label: i18n.LabelEmail,
			Validators: []form.Validator{
				form.Required(i18n.MsgRequired),
				form.Email(i18n.MsgEmailInvalid),
			},
		},
		form.Field{
			Name:  "password",
			Label: i18n.LabelPassword,
			Validators: []form.Validator{
				form.Required(i18n.MsgPasswordRequired),
				form.Length(6, 24, i18n.MsgLengthBetween, 6, 24),
			},
		},
		form.Field{Name: "remember_me", Label: i18n.LabelRememberMe},
	)}
}

func (f *LoginForm) RememberMe() bool {
	switch f.Get("remember_me") {
	case "y", "on", "true", "True", "1":
		return true
	}
	return false
}

type DetailForm struct {
	*form.Form
}

func NewDetailForm() *DetailForm {
	return &DetailForm{form.New(form.Field{
		Name:  "resume",
		Label: i18n.LabelResume,
		Validators: []form.Validator{
			form.FileRequired(i18n.MsgFileRequired),
			form.FileAllowed([]string{"pdf"}, i18n.MsgPDFOnly),
			pdfContent,
		},
	})}
}

// pdfContent rejects uploads named .pdf whose bytes are not a PDF.
func pdfContent(ctx context.Context, f *form.Form, field string) error {
	fh := f.File(field)
	if fh == nil {
		return nil
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "unable to open uploaded resume")
	}
	defer file.Close()
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return errors.Wrap(err, "unable to detect resume type")
	}
	if !mt.Is("application/pdf") {
		return form.Invalid(i18n.MsgPDFOnly)
	}
	return nil
}

// UpdateDetail stores the uploaded resume and records its URL on u.
func (f *DetailForm) UpdateDetail(ctx context.Context, store ResumeStore, s resumeSaver, u *User) error {
	fh := f.File("resume")
	if fh == nil {
		return errors.New("no resume uploaded")
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "unable to open uploaded resume")
	}
	defer file.Close()
	name := fmt.Sprintf("%s/%s.pdf", u.ID, ksuid.New().String())
	url, err := store.Save(ctx, name, file, "application/pdf")
	if err != nil {
		return errors.Wrap(err, "unable to store resume")
	}
	if err := s.UpdateResume(ctx, u.ID, url); err != nil {
		return err
	}
	u.Resume = url
	return nil
}
