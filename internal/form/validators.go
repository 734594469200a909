package form

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Required rejects empty or blank values and stops the chain.
func Required(msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if strings.TrimSpace(f.Get(field)) == "" {
			return Stop(msg)
		}
		return nil
	}
}

// Optional stops the chain silently when the value is empty.
func Optional() Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if strings.TrimSpace(f.Get(field)) == "" {
			return &ValidationError{Stop: true}
		}
		return nil
	}
}

// IntegerRequired rejects values that are not a non zero integer and stops
// the chain.
func IntegerRequired(msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		n, ok := f.Int(field)
		if !ok || n == 0 {
			return Stop(msg)
		}
		return nil
	}
}

// Integer rejects values that do not parse as an integer.
func Integer(msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if _, ok := f.Int(field); !ok {
			return Stop(msg)
		}
		return nil
	}
}

// Length rejects values whose character count is outside [min, max].
func Length(min, max int, msg string, args ...interface{}) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		n := utf8.RuneCountInString(f.Get(field))
		if n < min || n > max {
			return Invalid(msg, args...)
		}
		return nil
	}
}

// Regexp rejects values not matching re at their start.
func Regexp(re *regexp.Regexp, msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		loc := re.FindStringIndex(f.Get(field))
		if loc == nil || loc[0] != 0 {
			return Invalid(msg)
		}
		return nil
	}
}

func Email(msg string) Validator {
	return tag("email", msg)
}

func URL(msg string) Validator {
	return tag("url", msg)
}

func tag(t, msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if err := validate.Var(f.Get(field), t); err != nil {
			return Invalid(msg)
		}
		return nil
	}
}

// EqualTo rejects a value different from the one of other.
func EqualTo(other, msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if f.Get(field) != f.Get(other) {
			return Invalid(msg)
		}
		return nil
	}
}

func OneOf(choices []string, msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		v := f.Get(field)
		for _, c := range choices {
			if c == v {
				return nil
			}
		}
		return Invalid(msg)
	}
}

func FileRequired(msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		if fh := f.File(field); fh == nil || fh.Filename == "" {
			return Stop(msg)
		}
		return nil
	}
}

// FileAllowed rejects uploads whose extension is not in exts.
func FileAllowed(exts []string, msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		fh := f.File(field)
		if fh == nil {
			return nil
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		for _, e := range exts {
			if e == ext {
				return nil
			}
		}
		return Invalid(msg)
	}
}

// Unique rejects a value for which exists reports a stored record. The lookup
// reads current storage state, so two concurrent submissions can both pass.
func Unique(exists func(ctx context.Context, value string) (bool, error), msg string) Validator {
	return func(ctx context.Context, f *Form, field string) error {
		found, err := exists(ctx, f.Get(field))
		if err != nil {
			return err
		}
		if found {
			return Invalid(msg)
		}
		return nil
	}
}
