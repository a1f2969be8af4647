package templates

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/gorgon-dev/gorgon/assets"
	"github.com/gorgon-dev/gorgon/collections"
	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/content"
	"github.com/gorgon-dev/gorgon/markup"
)

func newTestEngine(t *testing.T, files map[string]string, data maps.Params) (*Engine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	if data == nil {
		data = maps.Params{}
	}
	e := NewEngine(fs, ".", "site", data, "")
	e.UpdateCollections(collections.New(nil), collections.Tags{})
	return e, fs
}

func mdPage(title, html string) *content.Page {
	return &content.Page{
		Title:   title,
		Content: html,
		Layout:  "default",
		Type:    markup.SourceMarkdown,
		Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderPageThroughLayout(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": "<title>{{ current_page.Title }}</title><main>{{ page_content }}</main>",
	}, nil)

	out, err := e.RenderPage(mdPage("Hello", "<p>body</p>"))
	require.NoError(t, err)
	require.Contains(t, out, "<title>Hello</title>")
	// page_content is injected unescaped.
	require.Contains(t, out, "<main><p>body</p></main>")
}

func TestRenderPageMissingLayoutDegrades(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)

	out, err := e.RenderPage(mdPage("Hello", "<p>bare</p>"))
	require.NoError(t, err)
	require.Equal(t, "<p>bare</p>", out)
}

func TestRenderPageLayoutFallsBackToDefault(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html": "default:{{ page_content }}",
	}, nil)

	p := mdPage("X", "<p>x</p>")
	p.Layout = "posts"
	out, err := e.RenderPage(p)
	require.NoError(t, err)
	require.Equal(t, "default:<p>x</p>", out)
}

func TestRenderJinjaSourceSeesCollections(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": "{{ page_content }}",
	}, nil)

	a := mdPage("First", "")
	b := mdPage("Second", "")
	e.UpdateCollections(collections.New(collections.Pages{a, b}), collections.Tags{})

	p := &content.Page{
		Title:  "Listing",
		Body:   "{% for pg in pages.All() %}[{{ pg.Title }}]{% endfor %}",
		Layout: "default",
		Type:   markup.SourceJinja,
	}
	out, err := e.RenderPage(p)
	require.NoError(t, err)
	require.Equal(t, "[First][Second]", out)
}

func TestRenderJinjaSourceStripsHashtags(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": "{{ page_content }}",
	}, nil)

	p := &content.Page{
		Title:  "Note",
		Body:   "<p>Tagged #golang content.</p>",
		Layout: "default",
		Type:   markup.SourceJinja,
	}
	out, err := e.RenderPage(p)
	require.NoError(t, err)
	require.Contains(t, out, "Tagged golang content.")
	require.NotContains(t, out, "#golang")
}

func TestRenderPageDataAndPartials(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": `{% include "nav.html.jinja" %}|{{ data.title }}`,
		"site/_partials/nav.html.jinja":    "NAV",
	}, maps.Params{"title": "My Site"})

	out, err := e.RenderPage(mdPage("X", ""))
	require.NoError(t, err)
	require.Equal(t, "NAV|My Site", out)
}

func TestRenderTOCHelper(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": "{{ render_toc() }}",
	}, nil)

	p := mdPage("X", "")
	p.TOC = []markup.Heading{{ID: "intro", Text: "Intro", Level: 2}}
	out, err := e.RenderPage(p)
	require.NoError(t, err)
	require.Equal(t, `<ul><li><a href="#intro">Intro</a></li></ul>`, out)
}

func TestAssetHelperResolves(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": `{{ css_path('main') }}`,
		"assets/css/main.css":              "body{}",
	}, nil)

	out, err := e.RenderPage(mdPage("X", ""))
	require.NoError(t, err)
	require.Equal(t, "/assets/css/main.css", out)
}

func TestAssetHelperMissingFailsRender(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"site/_layouts/default.html.jinja": `{{ js_path('missing') }}`,
	}, nil)

	_, err := e.RenderPage(mdPage("X", ""))
	require.Error(t, err)
	var nf *assets.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "missing", nf.Name)
}

func TestURLForHelper(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "site/_layouts/default.html.jinja",
		[]byte(`{{ url_for('/about/') }}`), 0o644))

	e := NewEngine(fs, ".", "site", maps.Params{}, "https://example.com")
	e.UpdateCollections(collections.New(nil), collections.Tags{})

	out, err := e.RenderPage(mdPage("X", ""))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/about/", out)
}

func TestRenderStringExtraContext(t *testing.T) {
	e, _ := newTestEngine(t, nil, maps.Params{"title": "Site"})
	out, err := e.RenderString("{{ data.title }}:{{ extra }}", map[string]any{"extra": "v"})
	require.NoError(t, err)
	require.Equal(t, "Site:v", out)
}
