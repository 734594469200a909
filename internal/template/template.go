package template

import (
	"bytes"
	"io/fs"
	"net/http"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

type Template struct {
	templates *stdtemplate.Template
	policy    *bluemonday.Policy
}

// NewTemplate parses every view under views/ of fsys.
func NewTemplate(fsys fs.FS) (*Template, error) {
	t := &Template{policy: bluemonday.UGCPolicy()}
	funcMap := stdtemplate.FuncMap{
		"humannumber": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"truncate": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "…"
		},
		"dict": func(kv ...interface{}) (map[string]interface{}, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict expects key value pairs")
			}
			m := make(map[string]interface{}, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, errors.Errorf("dict key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"safeHTML": t.SafeHTML,
		"markdown": t.MarkdownToHTML,
	}
	tmpl, err := stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(fsys, "views/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse views")
	}
	t.templates = tmpl
	return t, nil
}

// Render executes the view into a buffer first, so a failing view never
// leaves a half written page behind.
func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	buf := &bytes.Buffer{}
	if err := t.templates.ExecuteTemplate(buf, name, data); err != nil {
		return errors.Wrapf(err, "unable to render %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SafeHTML marks rich text as HTML after running it through the UGC policy.
func (t *Template) SafeHTML(s string) stdtemplate.HTML {
	return stdtemplate.HTML(t.policy.Sanitize(s))
}

func (t *Template) MarkdownToHTML(s string) stdtemplate.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	return t.SafeHTML(string(blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))))
}
