// Package form binds submitted request values to a declared list of fields
// and runs each field's validators in order, collecting localized messages.
package form

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/message"
)

const maxMemory = 8 << 20

// Validator checks one field of f. It returns a *ValidationError when the
// value is rejected; any other error aborts validation.
type Validator func(ctx context.Context, f *Form, field string) error

type ValidationError struct {
	Msg  string
	Args []interface{}
	// Stop ends the validator chain of the field.
	Stop bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(e.Msg, e.Args...)
}

// Invalid rejects a value and lets the remaining validators of the field run.
func Invalid(msg string, args ...interface{}) error {
	return &ValidationError{Msg: msg, Args: args}
}

// Stop rejects a value and skips the remaining validators of the field.
func Stop(msg string, args ...interface{}) error {
	return &ValidationError{Msg: msg, Args: args, Stop: true}
}

type Field struct {
	Name       string
	Label      string
	Validators []Validator
}

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

type Form struct {
	fields []Field
	values url.Values
	files  map[string]*multipart.FileHeader
	Errors Errors
}

func New(fields ...Field) *Form {
	return &Form{
		fields: fields,
		values: url.Values{},
		files:  map[string]*multipart.FileHeader{},
		Errors: Errors{},
	}
}

// Bind copies the posted values (and uploaded files) of the declared fields.
func (f *Form) Bind(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return errors.Wrap(err, "unable to parse multipart form")
		}
	} else if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "unable to parse form")
	}
	for _, field := range f.fields {
		f.values.Set(field.Name, r.PostForm.Get(field.Name))
		if r.MultipartForm == nil {
			continue
		}
		if fhs := r.MultipartForm.File[field.Name]; len(fhs) > 0 {
			f.files[field.Name] = fhs[0]
		}
	}
	return nil
}

// BindQuery copies the declared fields from the URL query.
func (f *Form) BindQuery(q url.Values) {
	for _, field := range f.fields {
		f.values.Set(field.Name, q.Get(field.Name))
	}
}

func (f *Form) Get(field string) string {
	return f.values.Get(field)
}

func (f *Form) Set(field, value string) {
	f.values.Set(field, value)
}

// Int parses the field as an integer.
func (f *Form) Int(field string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(f.values.Get(field)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f *Form) File(field string) *multipart.FileHeader {
	return f.files[field]
}

func (f *Form) SetFile(field string, fh *multipart.FileHeader) {
	f.files[field] = fh
}

// AddError attaches a message rendered with p to field.
func (f *Form) AddError(p *message.Printer, field, msg string, args ...interface{}) {
	f.Errors[field] = append(f.Errors[field], p.Sprintf(msg, args...))
}

// Labels translates every field label with p.
func (f *Form) Labels(p *message.Printer) map[string]string {
	labels := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		labels[field.Name] = p.Sprintf(field.Label)
	}
	return labels
}

// Validate runs all validators and reports whether the form is valid.
// Messages are rendered with p and stored in f.Errors.
func (f *Form) Validate(ctx context.Context, p *message.Printer) (bool, error) {
	f.Errors = Errors{}
	for _, field := range f.fields {
		for _, v := range field.Validators {
			err := v(ctx, f, field.Name)
			if err == nil {
				continue
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return false, errors.Wrapf(err, "unable to validate field %s", field.Name)
			}
			if verr.Msg != "" {
				f.Errors[field.Name] = append(f.Errors[field.Name], p.Sprintf(verr.Msg, verr.Args...))
			}
			if verr.Stop {
				break
			}
		}
	}
	return len(f.Errors) == 0, nil
}
