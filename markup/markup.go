// Package markup converts raw page sources into HTML. Markdown goes
// through goldmark with heading, image and code fence hooks; template
// and plain HTML sources pass through untouched (template expansion
// happens at render time, when site collections exist).
package markup

import (
	"bytes"
	"strings"

	"github.com/kyokomi/emoji/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// SourceType identifies how a source file's content is handled.
type SourceType string

const (
	SourceMarkdown SourceType = "markdown"
	SourceHTML     SourceType = "html"
	SourceJinja    SourceType = "jinja"
	SourceUnknown  SourceType = "unknown"
)

// TypeOf selects the source type by file suffix, in fixed priority
// order: Markdown, template, plain HTML. Anything else is unknown,
// which is a passthrough, not an error.
func TypeOf(filename string) SourceType {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".md"):
		return SourceMarkdown
	case strings.HasSuffix(lower, ".jinja"):
		// Covers both .jinja and .html.jinja.
		return SourceJinja
	case strings.HasSuffix(lower, ".html"):
		return SourceHTML
	default:
		return SourceUnknown
	}
}

// Heading is one TOC entry, recorded in document order.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// Result is the outcome of converting one source document.
type Result struct {
	Content string
	TOC     []Heading
}

// Options configures a Converter.
type Options struct {
	// EnableEmoji expands :emoji: codes before Markdown conversion.
	EnableEmoji bool
}

// Converter renders page sources. It is safe for reuse across pages;
// per-document state (heading ids, TOC) lives in the per-conversion
// goldmark instance.
type Converter struct {
	opts Options
}

func NewConverter(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Convert renders src according to its source type. folder is the
// page's containing folder, used for relative image rewriting.
func (c *Converter) Convert(src string, t SourceType, folder string) (Result, error) {
	if t != SourceMarkdown {
		return Result{Content: src}, nil
	}
	return c.convertMarkdown(src, folder)
}

func (c *Converter) convertMarkdown(src, folder string) (Result, error) {
	if c.opts.EnableEmoji {
		src = emoji.Sprint(src)
	}

	tr := &headingTransformer{ids: newIDFactory()}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Footnote,
			extension.Table,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(tr, 100)),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(newHookRenderer(folder), 100)),
			html.WithUnsafe(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return Result{}, err
	}
	return Result{Content: buf.String(), TOC: tr.headings}, nil
}
