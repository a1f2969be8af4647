package build

import (
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const basicSite = `
-- gorgon.yaml --
output_dir: output
-- data/site.yaml --
title: Test Site
-- site/_layouts/default.html.jinja --
<html><head><title>{{ current_page.Title }} - {{ data.title }}</title></head>
<body>{{ page_content }}</body></html>
-- site/_layouts/posts.html.jinja --
<article data-layout="posts">{{ page_content }}</article>
-- site/index.md --
# Home

Welcome to the test site.
-- site/posts/2024-03-01-first.md --
# First Post

Tagged #golang content.
-- site/posts/_unfinished.md --
# Not Ready
-- assets/css/main.css --
body { color: black; }
`

func projectFromTxtar(t *testing.T, archive string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		require.NoError(t, afero.WriteFile(fs, "proj/"+f.Name, f.Data, 0o644))
	}
	return fs
}

func TestSiteBuild(t *testing.T) {
	fs := projectFromTxtar(t, basicSite)

	result, err := Site("proj", Options{Fs: fs, CleanOutput: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.Pages.Len())

	home, err := afero.ReadFile(fs, "proj/output/index.html")
	require.NoError(t, err)
	require.Contains(t, string(home), "<title>Home - Test Site</title>")
	require.Contains(t, string(home), "Welcome to the test site.")

	post, err := afero.ReadFile(fs, "proj/output/posts/first/index.html")
	require.NoError(t, err)
	require.Contains(t, string(post), `data-layout="posts"`)
	require.Contains(t, string(post), "Tagged golang content.")

	css, err := afero.ReadFile(fs, "proj/output/assets/css/main.css")
	require.NoError(t, err)
	require.Equal(t, "body{color:black}", string(css))

	// Drafts are excluded by default, and feeds need a site url.
	exists, _ := afero.Exists(fs, "proj/output/posts/unfinished/index.html")
	require.False(t, exists)
	exists, _ = afero.Exists(fs, "proj/output/rss.xml")
	require.False(t, exists)
}

func TestSiteBuildWithDrafts(t *testing.T) {
	fs := projectFromTxtar(t, basicSite)

	result, err := Site("proj", Options{Fs: fs, CleanOutput: true, IncludeDrafts: true})
	require.NoError(t, err)
	require.Equal(t, 3, result.Pages.Len())

	exists, _ := afero.Exists(fs, "proj/output/posts/unfinished/index.html")
	require.True(t, exists)
}

func TestSiteBuildRootURL(t *testing.T) {
	fs := projectFromTxtar(t, basicSite)

	_, err := Site("proj", Options{Fs: fs, CleanOutput: true, RootURL: "https://example.com"})
	require.NoError(t, err)

	home, err := afero.ReadFile(fs, "proj/output/index.html")
	require.NoError(t, err)
	require.NotContains(t, string(home), `href="/`)

	exists, _ := afero.Exists(fs, "proj/output/rss.xml")
	require.True(t, exists)
	exists, _ = afero.Exists(fs, "proj/output/sitemap.xml")
	require.True(t, exists)
}

func TestSiteBuildMissingSiteDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("proj", 0o755))

	_, err := Site("proj", Options{Fs: fs})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no site directory")
}

func TestSiteBuildBrokenTemplateFails(t *testing.T) {
	fs := projectFromTxtar(t, `
-- site/_layouts/default.html.jinja --
{{ page_content }}
-- site/broken.html.jinja --
{% for x in %}oops{% endfor %}
`)

	_, err := Site("proj", Options{Fs: fs})
	require.Error(t, err)

	var buildErr *Error
	require.ErrorAs(t, err, &buildErr)
	require.Equal(t, "broken.html.jinja", buildErr.Path)
}

func TestSiteBuildMissingAssetFails(t *testing.T) {
	fs := projectFromTxtar(t, `
-- site/_layouts/default.html.jinja --
<link href="{{ css_path('nope') }}">
-- site/index.md --
# Hi
`)

	_, err := Site("proj", Options{Fs: fs})
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope")
}
