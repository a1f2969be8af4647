package content

import (
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/gorgon-dev/gorgon/common/maps"
)

var (
	frontmatterRE = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n`)
	hashtagRE     = regexp.MustCompile(`#([a-zA-Z][a-zA-Z0-9]{2,}(?:/[a-zA-Z0-9]+)*)`)
	htmlTagRE     = regexp.MustCompile(`<[^>]+>`)
	templateTagRE = regexp.MustCompile(`\{[%#{].*?[%#}]\}`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

const descriptionLimit = 160

// Source is one content file handed to the extraction pipeline.
type Source struct {
	Content string
	Path    string // site-relative, slash separated
	ModTime time.Time
}

// Metadata is the result of running the extraction pipeline over a
// source file.
type Metadata struct {
	Frontmatter maps.Params
	Body        string
	Title       string
	Tags        []string
	Date        time.Time
	Description string
	Excerpt     string
}

// partial carries the fields an extraction stage resolved; nil fields
// are filled by later stages. Stages never overwrite earlier results.
type partial struct {
	frontmatter maps.Params
	body        *string
	title       *string
	tags        []string
	date        *time.Time
	description *string
	excerpt     *string
}

type extractFunc func(src Source, m Metadata) partial

var pipeline = []extractFunc{
	extractFrontmatter,
	extractTitle,
	extractTagsStage,
	extractDate,
	extractDescription,
}

// Extract runs the metadata pipeline over a source file. Each stage
// sees the results of the stages before it and contributes only the
// fields it owns.
func Extract(src Source) Metadata {
	m := Metadata{Frontmatter: maps.Params{}, Body: src.Content}
	for _, stage := range pipeline {
		p := stage(src, m)
		if p.frontmatter != nil {
			m.Frontmatter = p.frontmatter
		}
		if p.body != nil {
			m.Body = *p.body
		}
		if p.title != nil {
			m.Title = *p.title
		}
		if p.tags != nil {
			m.Tags = p.tags
		}
		if p.date != nil {
			m.Date = *p.date
		}
		if p.description != nil {
			m.Description = *p.description
		}
		if p.excerpt != nil {
			m.Excerpt = *p.excerpt
		}
	}
	return m
}

// SplitFrontmatter separates a leading YAML frontmatter block from the
// body. Malformed or non-mapping YAML yields empty params and the
// original text untouched.
func SplitFrontmatter(content string) (maps.Params, string) {
	match := frontmatterRE.FindStringSubmatchIndex(content)
	if match == nil {
		return maps.Params{}, content
	}
	raw := content[match[2]:match[3]]
	body := content[match[1]:]

	var parsed any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil {
		return maps.Params{}, content
	}
	params, ok := maps.ToParamsAndPrepare(parsed)
	if !ok {
		return maps.Params{}, content
	}
	return params, body
}

func extractFrontmatter(src Source, _ Metadata) partial {
	fm, body := SplitFrontmatter(src.Content)
	return partial{frontmatter: fm, body: &body}
}

func extractTitle(src Source, m Metadata) partial {
	if t := m.Frontmatter.GetString("title"); t != "" {
		return partial{title: &t}
	}

	for _, line := range strings.Split(m.Body, "\n") {
		rest, ok := headingText(strings.TrimSpace(line))
		if !ok {
			continue
		}
		if t := strings.TrimSpace(rest); t != "" {
			return partial{title: &t}
		}
	}

	t := Titleize(baseName(src.Path))
	return partial{title: &t}
}

// headingText matches a single-# heading, with any whitespace after
// the marker. ## and deeper headings do not qualify.
func headingText(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "#")
	if !ok || rest == "" {
		return "", false
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return rest, true
}

func extractTagsStage(_ Source, m Metadata) partial {
	tags := fromFrontmatterTags(m.Frontmatter)
	tags = append(tags, ExtractTags(m.Body)...)
	return partial{tags: dedupe(tags)}
}

func extractDate(src Source, m Metadata) partial {
	if raw := m.Frontmatter.GetString("date"); raw != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if d, err := time.Parse(layout, raw); err == nil {
				d = d.UTC()
				return partial{date: &d}
			}
		}
	}
	if d, ok := ExtractDateFromName(Stem(baseName(src.Path))); ok {
		return partial{date: &d}
	}
	d := src.ModTime.UTC()
	return partial{date: &d}
}

func extractDescription(_ Source, m Metadata) partial {
	stripped := StripHashtags(m.Body)
	desc := m.Frontmatter.GetString("description")
	if desc == "" {
		desc = FirstParagraph(stripped)
	}
	ex := Excerpt(stripped)
	return partial{description: &desc, excerpt: &ex}
}

// ExtractTags collects hashtags from body text, in first-seen order.
func ExtractTags(body string) []string {
	var tags []string
	for _, m := range hashtagRE.FindAllStringSubmatch(body, -1) {
		tags = append(tags, m[1])
	}
	return dedupe(tags)
}

// StripHashtags removes the leading # from hashtags so rendered output
// shows plain words.
func StripHashtags(body string) string {
	return hashtagRE.ReplaceAllString(body, "$1")
}

// FirstParagraph returns the first paragraph as plain text, stripped of
// markup, capped at 160 characters.
func FirstParagraph(body string) string {
	for _, para := range strings.Split(body, "\n\n") {
		text := cleanParagraph(para)
		if text == "" {
			continue
		}
		runes := []rune(text)
		if len(runes) > descriptionLimit {
			return string(runes[:descriptionLimit])
		}
		return text
	}
	return ""
}

// Excerpt returns the first prose paragraph in full, skipping headings,
// images, code fences and rules. Unlike the description, the excerpt
// keeps inline markup; only whitespace is collapsed.
func Excerpt(body string) string {
	for _, para := range strings.Split(body, "\n\n") {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "![") ||
			strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") {
			continue
		}
		if text := collapseWhitespace(para); text != "" {
			return text
		}
	}
	return ""
}

func collapseWhitespace(para string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(para, " "))
}

func cleanParagraph(para string) string {
	text := strings.TrimSpace(para)
	text = strings.TrimPrefix(text, "# ")
	text = htmlTagRE.ReplaceAllString(text, "")
	text = templateTagRE.ReplaceAllString(text, "")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func fromFrontmatterTags(fm maps.Params) []string {
	switch v := fm.Get("tags").(type) {
	case []any:
		var tags []string
		for _, t := range v {
			if s, ok := t.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		var tags []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
