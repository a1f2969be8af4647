package templates

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorgon-dev/gorgon/markup"
)

func TestRenderTOCEmpty(t *testing.T) {
	require.Empty(t, RenderTOC(nil))
}

func TestRenderTOCFlat(t *testing.T) {
	out := RenderTOC([]markup.Heading{
		{ID: "a", Text: "A", Level: 2},
		{ID: "b", Text: "B", Level: 2},
	})
	require.Equal(t, `<ul><li><a href="#a">A</a></li><li><a href="#b">B</a></li></ul>`, out)
}

func TestRenderTOCNested(t *testing.T) {
	out := RenderTOC([]markup.Heading{
		{ID: "a", Text: "A", Level: 1},
		{ID: "b", Text: "B", Level: 2},
		{ID: "c", Text: "C", Level: 2},
		{ID: "d", Text: "D", Level: 1},
	})
	want := `<ul><li><a href="#a">A</a>` +
		`<ul><li><a href="#b">B</a></li><li><a href="#c">C</a></li></ul>` +
		`</li><li><a href="#d">D</a></li></ul>`
	require.Equal(t, want, out)
}

func TestRenderTOCEscapes(t *testing.T) {
	out := RenderTOC([]markup.Heading{{ID: "x", Text: "a < b", Level: 1}})
	require.Contains(t, out, "a &lt; b")
}
