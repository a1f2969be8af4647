package server

import (
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, files map[string]string) *siteHandler {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, "out/"+p, []byte(body), 0o644))
	}
	return &siteHandler{fs: fs, root: "out", script: "<script>lr</script>"}
}

func get(h *siteHandler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestHandlerServesDirectoryIndex(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		"index.html":       "<body>home</body>",
		"posts/index.html": "<body>posts</body>",
	})

	rec := get(h, "/")
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "home")

	rec = get(h, "/posts/")
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "posts")
}

func TestHandlerInjectsReloadScript(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		"index.html": "<body>x</body>",
	})

	rec := get(h, "/")
	require.Equal(t, "<body>x<script>lr</script></body>", rec.Body.String())
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestHandlerServesAssetsUntouched(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		"assets/css/main.css": "body{}",
	})

	rec := get(h, "/assets/css/main.css")
	require.Equal(t, 200, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestHandlerCustomNotFound(t *testing.T) {
	h := newTestHandler(t, map[string]string{
		"404/index.html": "<body>lost</body>",
	})

	rec := get(h, "/nope/")
	require.Equal(t, 404, rec.Code)
	require.Contains(t, rec.Body.String(), "lost")
	require.Contains(t, rec.Body.String(), "<script>lr</script>")
}

func TestHandlerPlainNotFound(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := get(h, "/missing")
	require.Equal(t, 404, rec.Code)
}

func TestHandlerRejectsTraversal(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := get(h, "/../../etc/passwd")
	require.NotEqual(t, 200, rec.Code)
}
