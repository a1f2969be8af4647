package templates

import (
	"fmt"
	"path/filepath"

	"github.com/flosch/pongo2/v6"
	"github.com/spf13/afero"

	"github.com/gorgon-dev/gorgon/assets"
	"github.com/gorgon-dev/gorgon/collections"
	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/content"
	"github.com/gorgon-dev/gorgon/log"
	"github.com/gorgon-dev/gorgon/markup"
	"github.com/gorgon-dev/gorgon/transform"
)

// layout probe order mirrors content.ResolveLayout.
var layoutTemplateExts = []string{".html.jinja", ".jinja", ".html", ""}

// Engine renders page bodies and layouts. One engine serves a whole
// build; collections are swapped in once all pages are resolved.
type Engine struct {
	set      *pongo2.TemplateSet
	data     maps.Params
	rootURL  string
	pages    *collections.Collection
	tags     collections.Tags
	resolver *assets.Resolver

	// assetErr records the first asset helper failure during a render;
	// template functions cannot return errors themselves.
	assetErr error
}

func NewEngine(fs afero.Fs, projectRoot, siteDir string, data maps.Params, rootURL string) *Engine {
	e := &Engine{
		set:     pongo2.NewSet("site", newLoader(fs, siteDir)),
		data:    data,
		rootURL: rootURL,
	}
	e.resolver = assets.NewResolver(fs, filepath.Join(projectRoot, "assets"), e.urlFor)
	return e
}

// UpdateCollections installs the page and tag collections templates
// iterate over. Must be called before RenderPage.
func (e *Engine) UpdateCollections(pages *collections.Collection, tags collections.Tags) {
	e.pages = pages
	e.tags = tags
}

// RenderPage runs a page through its layout. Jinja sources are
// executed first so their output becomes the page content; a missing
// layout degrades to the bare content with a warning.
func (e *Engine) RenderPage(page *content.Page) (string, error) {
	ctx := e.contextFor(page)

	pageContent := page.Content
	if page.Type == markup.SourceJinja {
		rendered, err := e.renderSource(page, ctx)
		if err != nil {
			return "", err
		}
		pageContent = markup.RewriteInlineImages(rendered, page.Folder)
	}

	tpl, name := e.layoutTemplate(page.Layout)
	if tpl == nil {
		log.Warnf("no layout %q for %s, emitting bare content", page.Layout, page.Path)
		return pageContent, nil
	}

	ctx["page_content"] = pongo2.AsSafeValue(pageContent)
	e.assetErr = nil
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("layout %s: %w", name, err)
	}
	if e.assetErr != nil {
		return "", e.assetErr
	}
	return out, nil
}

// RenderString executes template source against the engine context,
// for feeds and scaffolding.
func (e *Engine) RenderString(src string, extra pongo2.Context) (string, error) {
	tpl, err := e.set.FromString(src)
	if err != nil {
		return "", err
	}
	ctx := e.baseContext()
	for k, v := range extra {
		ctx[k] = v
	}
	e.assetErr = nil
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", err
	}
	if e.assetErr != nil {
		return "", e.assetErr
	}
	return out, nil
}

func (e *Engine) renderSource(page *content.Page, ctx pongo2.Context) (string, error) {
	tpl, err := e.set.FromString(content.StripHashtags(page.Body))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", page.Path, err)
	}
	e.assetErr = nil
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", page.Path, err)
	}
	if e.assetErr != nil {
		return "", e.assetErr
	}
	return out, nil
}

// layoutTemplate probes the layout name against the template forms,
// then falls back to the default layout.
func (e *Engine) layoutTemplate(layout string) (*pongo2.Template, string) {
	names := []string{layout}
	if layout != "default" {
		names = append(names, "default")
	}
	for _, name := range names {
		for _, ext := range layoutTemplateExts {
			tpl, err := e.set.FromCache(name + ext)
			if err == nil {
				return tpl, name + ext
			}
		}
	}
	return nil, ""
}

func (e *Engine) baseContext() pongo2.Context {
	return pongo2.Context{
		"data":          map[string]any(e.data),
		"pages":         e.pages,
		"tags":          e.tags,
		"url_for":       e.fnURLFor(),
		"highlight_css": e.fnHighlightCSS(),
		"js_path":       e.fnAssetPath(e.resolver.JSPath),
		"css_path":      e.fnAssetPath(e.resolver.CSSPath),
		"img_path":      e.fnAssetPath(e.resolver.ImgPath),
		"font_path":     e.fnAssetPath(e.resolver.FontPath),
	}
}

func (e *Engine) contextFor(page *content.Page) pongo2.Context {
	ctx := e.baseContext()
	ctx["current_page"] = page
	ctx["frontmatter"] = map[string]any(page.Frontmatter)
	ctx["render_toc"] = e.fnRenderTOC(page)
	return ctx
}

func (e *Engine) urlFor(p string) string {
	if e.rootURL == "" {
		return p
	}
	return transform.JoinURL(e.rootURL, p)
}

func (e *Engine) fnURLFor() func(...*pongo2.Value) *pongo2.Value {
	return func(args ...*pongo2.Value) *pongo2.Value {
		if len(args) != 1 {
			e.assetErr = fmt.Errorf("url_for takes one argument")
			return pongo2.AsValue("")
		}
		return pongo2.AsValue(e.urlFor(args[0].String()))
	}
}

func (e *Engine) fnRenderTOC(page *content.Page) func(...*pongo2.Value) *pongo2.Value {
	return func(...*pongo2.Value) *pongo2.Value {
		return pongo2.AsSafeValue(RenderTOC(page.TOC))
	}
}

func (e *Engine) fnHighlightCSS() func(...*pongo2.Value) *pongo2.Value {
	return func(...*pongo2.Value) *pongo2.Value {
		return pongo2.AsSafeValue("<style>" + markup.HighlightCSS() + "</style>")
	}
}

func (e *Engine) fnAssetPath(resolve func(string) (string, error)) func(...*pongo2.Value) *pongo2.Value {
	return func(args ...*pongo2.Value) *pongo2.Value {
		if len(args) != 1 {
			e.assetErr = fmt.Errorf("asset helpers take one argument")
			return pongo2.AsValue("")
		}
		p, err := resolve(args[0].String())
		if err != nil {
			e.assetErr = err
			return pongo2.AsValue("")
		}
		return pongo2.AsValue(p)
	}
}
