package content

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoaderFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"site/index.md",
		"site/about.html",
		"site/feed.html.jinja",
		"site/posts/2024-01-01-a.md",
		"site/posts/_draft.md",
		"site/_layouts/default.html",
		"site/_partials/nav.html",
		"site/notes.txt",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}

	loader := NewLoader(fs, "site")

	files, err := loader.Files(false)
	require.NoError(t, err)
	require.Equal(t, []string{
		"about.html",
		"feed.html.jinja",
		"index.md",
		"posts/2024-01-01-a.md",
	}, files)

	withDrafts, err := loader.Files(true)
	require.NoError(t, err)
	require.Contains(t, withDrafts, "posts/_draft.md")
	require.NotContains(t, withDrafts, "_layouts/default.html")
}
