package httpx

import (
	"bytes"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_LoadTemplates(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	require.NotNil(t, tr, "Template renderer should not be nil")

	expected := []string{"layout", "nav", "error-layout"}
	for _, name := range ContentTemplateMap() {
		expected = append(expected, name)
	}
	expected = append(expected,
		fragmentStats, fragmentBookTable, fragmentBorrowedTable, fragmentUserBooks, fragmentUserBorrowed)

	for _, name := range expected {
		assert.True(t, tr.Has(name), "Template %s should be loaded", name)
	}
}

func TestTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_ParseError(t *testing.T) {
	fsys := fstest.MapFS{"broken.tmpl": {Data: []byte(`{{define "x"}}{{.Missing`)}}
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, Logger: discardLogger()})
	require.Error(t, err)
}

func TestTemplateRenderer_RenderStatus(t *testing.T) {
	fsys := fstest.MapFS{
		"base.tmpl": {Data: []byte(`{{define "hello"}}<p>Hello {{.}}</p>{{end}}{{define "boom"}}{{index . 5}}{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, Logger: discardLogger()})
	require.NoError(t, err)

	t.Run("writes status and body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, tr.RenderStatus(rec, 422, "hello", "<Ada>"))
		assert.Equal(t, 422, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>Hello &lt;Ada&gt;</p>", rec.Body.String())
	})

	t.Run("failed execution writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.Error(t, tr.RenderStatus(rec, 200, "boom", []int{1}))
		assert.Zero(t, rec.Body.Len())
		assert.Empty(t, rec.Header().Get("Content-Type"))
	})
}

func TestTemplateRenderer_DevModeReloads(t *testing.T) {
	fsys := fstest.MapFS{"a.tmpl": {Data: []byte(`{{define "greet"}}v1{{end}}`)}}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, DevMode: true, Logger: discardLogger()})
	require.NoError(t, err)

	fsys["a.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "greet"}}v2{{end}}`)}
	var buf bytes.Buffer
	require.NoError(t, tr.templates().ExecuteTemplate(&buf, "greet", nil))
	assert.Equal(t, "v2", buf.String())

	// A broken edit keeps the last good set.
	fsys["a.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "greet"}}{{end`)}
	buf.Reset()
	require.NoError(t, tr.templates().ExecuteTemplate(&buf, "greet", nil))
	assert.Equal(t, "v2", buf.String())
}

func TestTemplateRenderer_FromRootPath(t *testing.T) {
	if _, err := os.Stat(TemplatePathFromRoot); err != nil {
		t.Skip("not running from the project root")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromRoot)})
	require.NoError(t, err)
	assert.True(t, tr.Has("layout"))
}
