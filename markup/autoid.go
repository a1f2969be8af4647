package markup

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// sanitizeAnchorName derives a URL-safe anchor from heading text:
// lower cased, non word/space/hyphen runes dropped, runs of spaces and
// hyphens collapsed to a single hyphen, edge hyphens trimmed.
func sanitizeAnchorName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	var b strings.Builder
	hyphenPending := false
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			hyphenPending = b.Len() > 0
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if hyphenPending {
				b.WriteByte('-')
				hyphenPending = false
			}
			b.WriteRune(r)
		default:
			// dropped
		}
	}
	return b.String()
}

func newIDFactory() *idFactory {
	return &idFactory{vals: make(map[string]struct{})}
}

type idFactory struct {
	vals map[string]struct{}
}

// Generate returns a unique id for the given heading text, appending
// a hyphen and a number, starting with 1, on duplicates.
func (ids *idFactory) Generate(headingText string) string {
	base := sanitizeAnchorName(headingText)
	if base == "" {
		base = "heading"
	}

	id := base
	for i := 1; ; i++ {
		if _, taken := ids.vals[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	ids.vals[id] = struct{}{}
	return id
}

// headingTransformer assigns ids to headings and records the TOC in
// document order. One instance per conversion.
type headingTransformer struct {
	ids      *idFactory
	headings []Heading
}

func (t *headingTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		h := n.(*ast.Heading)
		headingText := textOf(h, source)
		id := t.ids.Generate(headingText)
		h.SetAttributeString("id", []byte(id))
		t.headings = append(t.headings, Heading{ID: id, Text: headingText, Level: h.Level})
		return ast.WalkContinue, nil
	})
}

// textOf flattens the text content of a node and its children.
func textOf(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
