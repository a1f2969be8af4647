// Package feeds writes the sitemap and RSS documents for a built site.
// Both need absolute URLs, so they are skipped when the site data has
// no base url configured.
package feeds

import (
	"encoding/xml"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/gorgon-dev/gorgon/collections"
	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/transform"
)

const (
	lastmodLayout = "2006-01-02"
	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description,omitempty"`
}

// WriteSitemap emits sitemap.xml into the output directory. Without a
// configured site url it silently writes nothing.
func WriteSitemap(fs afero.Fs, outputDir string, data maps.Params, pages *collections.Collection) error {
	base := cast.ToString(data.Get("url"))
	if base == "" {
		return nil
	}

	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages.Sorted(true) {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     transform.JoinURL(base, p.URL),
			Lastmod: p.Date.UTC().Format(lastmodLayout),
		})
	}
	return writeXML(fs, filepath.Join(outputDir, "sitemap.xml"), set)
}

// WriteRSS emits rss.xml with items newest-first. Without a configured
// site url it silently writes nothing.
func WriteRSS(fs afero.Fs, outputDir string, data maps.Params, pages *collections.Collection) error {
	base := cast.ToString(data.Get("url"))
	if base == "" {
		return nil
	}

	title := cast.ToString(data.Get("title"))
	if title == "" {
		title = "Site Feed"
	}
	channel := rssChannel{
		Title:       title,
		Link:        base,
		Description: cast.ToString(data.Get("description")),
	}
	for _, p := range pages.Sorted(true) {
		link := transform.JoinURL(base, p.URL)
		channel.Items = append(channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			PubDate:     p.Date.In(time.UTC).Format(pubDateLayout),
			Description: p.Description,
		})
	}
	return writeXML(fs, filepath.Join(outputDir, "rss.xml"), rssFeed{Version: "2.0", Channel: channel})
}

func writeXML(fs afero.Fs, path string, doc any) error {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')
	return afero.WriteFile(fs, path, data, 0o644)
}
