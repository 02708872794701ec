package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCompressed(t *testing.T, cfg CompressionConfig, method, acceptEncoding string, h http.HandlerFunc) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(cfg)(h).ServeHTTP(rec, req)
	res := rec.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer zr.Close()
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(b)
}

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	}
}

func TestCompression(t *testing.T) {
	body := strings.Repeat("Borrowed books ", 500)

	tests := []struct {
		name           string
		acceptEncoding string
		level          int
		wantGzip       bool
	}{
		{name: "accepts gzip", acceptEncoding: "gzip, deflate", level: 6, wantGzip: true},
		{name: "deflate only", acceptEncoding: "deflate", level: 6},
		{name: "no header", level: 6},
		{name: "fastest level", acceptEncoding: "gzip", level: 1, wantGzip: true},
		{name: "out of range level", acceptEncoding: "gzip", level: 42, wantGzip: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serveCompressed(t, CompressionConfig{Level: tt.level}, http.MethodGet, tt.acceptEncoding, htmlHandler(body))
			if tt.wantGzip {
				assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
				assert.Empty(t, res.Header.Get("Content-Length"))
				assert.Equal(t, body, gunzip(t, res.Body))
				return
			}
			assert.Empty(t, res.Header.Get("Content-Encoding"))
			got, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestCompressionSetsVary(t *testing.T) {
	res := serveCompressed(t, CompressionConfig{}, http.MethodGet, "gzip", htmlHandler("ok"))
	assert.Equal(t, "Accept-Encoding", res.Header.Get("Vary"))
}

func TestCompressionSkipsBodylessStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotModified} {
		res := serveCompressed(t, CompressionConfig{}, http.MethodGet, "gzip", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(status)
		})
		assert.Equal(t, status, res.StatusCode)
		assert.Empty(t, res.Header.Get("Content-Encoding"), "status %d", status)
	}
}

func TestCompressionContentTypeFiltering(t *testing.T) {
	tests := map[string]bool{
		"text/html; charset=utf-8": true,
		"application/json":         true,
		"text/css":                 true,
		"image/png":                false,
		"application/octet-stream": false,
	}
	for ct, want := range tests {
		res := serveCompressed(t, CompressionConfig{}, http.MethodGet, "gzip", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", ct)
			_, _ = io.WriteString(w, strings.Repeat("x", 256))
		})
		assert.Equal(t, want, res.Header.Get("Content-Encoding") == "gzip", ct)
	}
}

func TestCompressionHEADRequest(t *testing.T) {
	res := serveCompressed(t, CompressionConfig{}, http.MethodHead, "gzip", htmlHandler(""))
	assert.Empty(t, res.Header.Get("Content-Encoding"))
}

func TestCompressionPreExistingContentEncoding(t *testing.T) {
	res := serveCompressed(t, CompressionConfig{}, http.MethodGet, "gzip", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "already encoded")
	})
	assert.Equal(t, "br", res.Header.Get("Content-Encoding"))
	got, _ := io.ReadAll(res.Body)
	assert.Equal(t, "already encoded", string(got))
}

func TestCompressionMinSize(t *testing.T) {
	res := serveCompressed(t, CompressionConfig{MinSize: 1024}, http.MethodGet, "gzip", htmlHandler("tiny"))
	assert.Empty(t, res.Header.Get("Content-Encoding"))
	got, _ := io.ReadAll(res.Body)
	assert.Equal(t, "tiny", string(got))

	large := strings.Repeat("a", 2048)
	res = serveCompressed(t, CompressionConfig{MinSize: 1024}, http.MethodGet, "gzip", htmlHandler(large))
	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	assert.Equal(t, large, gunzip(t, res.Body))
}

func TestAcceptsGzip(t *testing.T) {
	tests := map[string]bool{
		"gzip":               true,
		"GZIP":               true,
		"deflate, gzip;q=1":  true,
		"gzip;q=0.5, br":     true,
		"gzip;q=0":           false,
		"gzip; q=0.0":        false,
		"br, x-gzip":         false,
		"":                   false,
		"identity;q=1, gzip": true,
	}
	for header, want := range tests {
		assert.Equal(t, want, acceptsGzip(header), header)
	}
}
