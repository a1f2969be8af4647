package content

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/gorgon-dev/gorgon/markup"
)

// Builder resolves source files into Page records. Rendering through
// layouts happens later; the builder stops at converted page content.
type Builder struct {
	fs      afero.Fs
	siteDir string
	conv    *markup.Converter
}

func NewBuilder(fs afero.Fs, siteDir string, conv *markup.Converter) *Builder {
	return &Builder{fs: fs, siteDir: siteDir, conv: conv}
}

// Build reads and resolves one source file, given as a site-relative
// slash path. Read and conversion failures abort the page.
func (b *Builder) Build(rel string, draft bool) (*Page, error) {
	full := filepath.Join(b.siteDir, filepath.FromSlash(rel))

	raw, err := afero.ReadFile(b.fs, full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid UTF-8", rel)
	}
	info, err := b.fs.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}

	folder := path.Dir(rel)
	if folder == "." {
		folder = ""
	}
	filename := path.Base(rel)
	srcType := markup.TypeOf(filename)

	meta := Extract(Source{Content: string(raw), Path: rel, ModTime: info.ModTime()})

	stem := Stem(filename)
	layout := ResolveLayout(b.fs, b.siteDir, stem, folder)
	_, cleanStem := LayoutOverride(stem)
	slug := Slugify(cleanStem)
	if s := meta.Frontmatter.GetString("slug"); s != "" {
		slug = s
	}

	// The hashtag sigil is stripped from rendered output for every
	// source type; tags were already extracted from the raw body.
	content := StripHashtags(meta.Body)
	var toc []markup.Heading
	if srcType == markup.SourceMarkdown {
		res, err := b.conv.Convert(content, srcType, folder)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", rel, err)
		}
		content = res.Content
		toc = res.TOC
	}
	content = markup.RewriteInlineImages(content, folder)

	return &Page{
		Title:       meta.Title,
		Body:        meta.Body,
		Content:     content,
		Description: meta.Description,
		Excerpt:     excerptFor(srcType, meta),
		URL:         DeriveURL(folder, slug),
		Slug:        slug,
		Date:        meta.Date,
		Tags:        meta.Tags,
		Draft:       draft || strings.HasPrefix(filename, "_") || cast.ToBool(meta.Frontmatter.Get("draft")),
		Layout:      layout,
		Group:       group(folder),
		Path:        rel,
		Folder:      folder,
		Filename:    filename,
		Type:        srcType,
		Frontmatter: meta.Frontmatter,
		TOC:         toc,
	}, nil
}

func excerptFor(t markup.SourceType, meta Metadata) string {
	if t != markup.SourceMarkdown {
		return ""
	}
	return meta.Excerpt
}
