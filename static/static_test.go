package static

import (
	"io/fs"
	"testing"

	"github.com/job-web/job-board/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsParse(t *testing.T) {
	views, err := fs.Glob(Views, "views/*.html")
	require.NoError(t, err)
	assert.Contains(t, views, "views/layout.html")
	assert.Contains(t, views, "views/job-form.html")

	_, err = template.NewTemplate(Views)
	require.NoError(t, err)
}
