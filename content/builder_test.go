package content

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/gorgon-dev/gorgon/markup"
)

func newTestBuilder(t *testing.T, files map[string]string) *Builder {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, "site/"+p, []byte(body), 0o644))
	}
	return NewBuilder(fs, "site", markup.NewConverter(markup.Options{}))
}

func TestBuildMarkdownPage(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"posts/2024-03-01-first.md": "# First Post\n\nHello #golang world.\n",
	})

	page, err := b.Build("posts/2024-03-01-first.md", false)
	require.NoError(t, err)

	require.Equal(t, "First Post", page.Title)
	require.Equal(t, "first", page.Slug)
	require.Equal(t, "/posts/first/", page.URL)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), page.Date)
	require.Equal(t, []string{"golang"}, page.Tags)
	require.Equal(t, "posts", page.Group)
	require.Equal(t, "default", page.Layout)
	require.Equal(t, markup.SourceMarkdown, page.Type)
	require.False(t, page.Draft)

	require.Contains(t, page.Content, `<h1 id="first-post">First Post</h1>`)
	require.Contains(t, page.Content, "Hello golang world.")
	require.Len(t, page.TOC, 1)
	require.Equal(t, "first-post", page.TOC[0].ID)
}

func TestBuildJinjaPassthrough(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"list.html.jinja": "---\ntitle: Listing\n---\n{% for p in pages.All() %}{{ p.Title }}{% endfor %}",
	})

	page, err := b.Build("list.html.jinja", false)
	require.NoError(t, err)
	require.Equal(t, "Listing", page.Title)
	require.Equal(t, markup.SourceJinja, page.Type)
	// Template sources stay unexpanded until render time.
	require.Contains(t, page.Content, "{% for p in pages.All() %}")
	require.Empty(t, page.Excerpt)
}

func TestBuildHTMLPassthroughStripsHashtags(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"note.html": "<p>Tagged #golang content.</p>\n",
	})

	page, err := b.Build("note.html", false)
	require.NoError(t, err)
	require.Equal(t, markup.SourceHTML, page.Type)
	require.Equal(t, []string{"golang"}, page.Tags)
	require.Contains(t, page.Content, "Tagged golang content.")
	require.NotContains(t, page.Content, "#golang")
}

func TestBuildDraftMarkers(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"_wip.md": "work in progress",
		"done.md": "---\ndraft: true\n---\ndone but hidden",
		"live.md": "live",
	})

	page, err := b.Build("_wip.md", false)
	require.NoError(t, err)
	require.True(t, page.Draft)

	page, err = b.Build("done.md", false)
	require.NoError(t, err)
	require.True(t, page.Draft)

	page, err = b.Build("live.md", false)
	require.NoError(t, err)
	require.False(t, page.Draft)
}

func TestBuildFrontmatterSlugOverride(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"posts/long-name.md": "---\nslug: short\n---\nbody",
	})

	page, err := b.Build("posts/long-name.md", false)
	require.NoError(t, err)
	require.Equal(t, "short", page.Slug)
	require.Equal(t, "/posts/short/", page.URL)
}

func TestBuildRejectsInvalidUTF8(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "site/bad.md", []byte{0xff, 0xfe, 0xfd}, 0o644))
	b := NewBuilder(fs, "site", markup.NewConverter(markup.Options{}))

	_, err := b.Build("bad.md", false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UTF-8")
}

func TestBuildMissingFile(t *testing.T) {
	b := newTestBuilder(t, nil)
	_, err := b.Build("nope.md", false)
	require.Error(t, err)
}
