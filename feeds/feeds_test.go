package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/gorgon-dev/gorgon/collections"
	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/content"
)

func feedPages() *collections.Collection {
	return collections.New(collections.Pages{
		&content.Page{
			Title:       "Old",
			URL:         "/posts/old/",
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Description: "older post",
			Filename:    "2024-01-01-old.md",
		},
		&content.Page{
			Title:       "New",
			URL:         "/posts/new/",
			Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Description: "newer post",
			Filename:    "2024-02-01-new.md",
		},
	})
}

func TestFeedsSkippedWithoutURL(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := maps.Params{"title": "Site"}

	require.NoError(t, WriteSitemap(fs, "out", data, feedPages()))
	require.NoError(t, WriteRSS(fs, "out", data, feedPages()))

	exists, _ := afero.Exists(fs, "out/sitemap.xml")
	require.False(t, exists)
	exists, _ = afero.Exists(fs, "out/rss.xml")
	require.False(t, exists)
}

func TestWriteSitemap(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := maps.Params{"url": "https://example.com"}

	require.NoError(t, WriteSitemap(fs, "out", data, feedPages()))

	raw, err := afero.ReadFile(fs, "out/sitemap.xml")
	require.NoError(t, err)
	s := string(raw)
	require.Contains(t, s, "<loc>https://example.com/posts/new/</loc>")
	require.Contains(t, s, "<lastmod>2024-01-01</lastmod>")
	require.Contains(t, s, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestWriteRSS(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := maps.Params{
		"url":         "https://example.com",
		"title":       "My Feed",
		"description": "stuff",
	}

	require.NoError(t, WriteRSS(fs, "out", data, feedPages()))

	raw, err := afero.ReadFile(fs, "out/rss.xml")
	require.NoError(t, err)
	s := string(raw)
	require.Contains(t, s, `<rss version="2.0">`)
	require.Contains(t, s, "<title>My Feed</title>")
	require.Contains(t, s, "<pubDate>Thu, 01 Feb 2024 00:00:00 +0000</pubDate>")
	// Newest item first.
	require.Less(t, strings.Index(s, "<title>New</title>"), strings.Index(s, "<title>Old</title>"))
}
