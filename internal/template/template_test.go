package template

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T) *Template {
	fsys := fstest.MapFS{
		"views/detail.html": {Data: []byte(`{{ define "detail.html" }}<div>{{ safeHTML .Body }}</div><p>{{ truncate .Title 4 }}</p>{{ end }}`)},
		"views/broken.html": {Data: []byte(`{{ define "broken.html" }}{{ .Missing.Field }}{{ end }}`)},
		"views/md.html":     {Data: []byte(`{{ define "md.html" }}{{ markdown .Body }}{{ end }}`)},
	}
	tmpl, err := NewTemplate(fsys)
	require.NoError(t, err)
	return tmpl
}

func TestRenderSanitizesRichText(t *testing.T) {
	tmpl := newTestTemplate(t)
	w := httptest.NewRecorder()
	err := tmpl.Render(w, http.StatusOK, "detail.html", map[string]interface{}{
		"Body":  `<b>Go</b><script>alert(1)</script>`,
		"Title": "后端工程师招聘",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<div><b>Go</b></div><p>后端工程…</p>", w.Body.String())
}

func TestRenderFailureWritesNothing(t *testing.T) {
	tmpl := newTestTemplate(t)
	w := httptest.NewRecorder()
	err := tmpl.Render(w, http.StatusOK, "broken.html", map[string]interface{}{"Missing": 3})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}

func TestMarkdownToHTML(t *testing.T) {
	tmpl := newTestTemplate(t)
	w := httptest.NewRecorder()
	require.NoError(t, tmpl.Render(w, http.StatusOK, "md.html", map[string]interface{}{"Body": "**remote** <img src=x onerror=alert(1)>"}))
	assert.Contains(t, w.Body.String(), "<strong>remote</strong>")
	assert.NotContains(t, w.Body.String(), "onerror")
}
