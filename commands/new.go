package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gorgon-dev/gorgon/log"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new site project",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		name := args[0]
		fs := afero.NewOsFs()

		root, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		if exists, _ := afero.Exists(fs, root); exists {
			return fmt.Errorf("%s already exists", name)
		}

		if err := writeScaffold(fs, root, filepath.Base(root)); err != nil {
			return err
		}
		log.Feedback("Created %s. Next steps:\n  cd %s\n  gorgon serve", name, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func writeScaffold(fs afero.Fs, root, title string) error {
	today := time.Now().Format("2006-01-02")

	files := map[string]string{
		"gorgon.yaml":    scaffoldConfig,
		"data/site.yaml": fmt.Sprintf(scaffoldSiteData, title),
		"data/nav.yaml":  scaffoldNavData,
		"site/index.md":  fmt.Sprintf(scaffoldIndex, title),
		"site/about.md":  scaffoldAbout,
		fmt.Sprintf("site/posts/%s-welcome.md", today): scaffoldWelcomePost,
		"site/_layouts/default.html.jinja":             scaffoldDefaultLayout,
		"site/_layouts/posts.html.jinja":               scaffoldPostsLayout,
		"site/_partials/header.html.jinja":             scaffoldHeader,
		"assets/css/main.css":                          scaffoldCSS,
	}

	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, full, []byte(strings.TrimLeft(body, "\n")), 0o644); err != nil {
			return err
		}
	}
	return nil
}

const scaffoldConfig = `
output_dir: output
port: 4000
`

const scaffoldSiteData = `
title: %s
description: A new site
# url: https://example.com
`

const scaffoldNavData = `
links:
  - label: Home
    href: /
  - label: About
    href: /about/
`

const scaffoldIndex = `
# %s

Welcome to your new site. Edit files under site/ and watch the browser
reload.

Latest post: check the posts folder.
`

const scaffoldAbout = `
# About

This site is built with gorgon.
`

const scaffoldWelcomePost = `
# Welcome

This is your first post. It picks up its date from the filename and its
tags from hashtags like #hello.
`

const scaffoldDefaultLayout = `
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ current_page.Title }} - {{ data.title }}</title>
  <meta name="description" content="{{ current_page.Description }}">
  <link rel="stylesheet" href="{{ css_path('main') }}">
  {{ highlight_css() }}
</head>
<body>
  {% include "header.html.jinja" %}
  <main>
    {{ page_content }}
  </main>
</body>
</html>
`

const scaffoldPostsLayout = `
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ current_page.Title }} - {{ data.title }}</title>
  <link rel="stylesheet" href="{{ css_path('main') }}">
  {{ highlight_css() }}
</head>
<body>
  {% include "header.html.jinja" %}
  <article>
    <h1>{{ current_page.Title }}</h1>
    <p class="meta">{{ current_page.Date.Format("January 2, 2006") }}</p>
    {{ page_content }}
  </article>
</body>
</html>
`

const scaffoldHeader = `
<header>
  <nav>
    {% for link in data.nav.links %}
    <a href="{{ url_for(link.href) }}">{{ link.label }}</a>
    {% endfor %}
  </nav>
</header>
`

const scaffoldCSS = `
body {
  max-width: 42rem;
  margin: 0 auto;
  padding: 1rem;
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}

nav a {
  margin-right: 1rem;
}

.meta {
  color: #666;
}

pre {
  overflow-x: auto;
  padding: 0.75rem;
  background: #f6f8fa;
}
`
