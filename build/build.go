// Package build orchestrates a full site build: configuration, data,
// content resolution, rendering, assets and feeds.
package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/gorgon-dev/gorgon/assets"
	"github.com/gorgon-dev/gorgon/collections"
	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/config"
	"github.com/gorgon-dev/gorgon/content"
	"github.com/gorgon-dev/gorgon/feeds"
	"github.com/gorgon-dev/gorgon/log"
	"github.com/gorgon-dev/gorgon/markup"
	"github.com/gorgon-dev/gorgon/templates"
	"github.com/gorgon-dev/gorgon/transform"
)

// Options tune a single build run.
type Options struct {
	IncludeDrafts bool
	RootURL       string // overrides config root_url when set
	OutputDir     string // overrides config output_dir when set
	CleanOutput   bool
	Fs            afero.Fs // defaults to the OS filesystem
}

// Result is what a successful build produced.
type Result struct {
	Pages     *collections.Collection
	OutputDir string
	Data      maps.Params
	Config    config.Config
}

// Site builds the whole site under projectRoot into the output
// directory. Content errors are fatal and abort the build; asset
// pipeline failures only warn.
func Site(projectRoot string, opts Options) (*Result, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cfg, err := config.Load(fs, projectRoot)
	if err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(projectRoot, cfg.OutputDir)
	}
	rootURL := opts.RootURL
	if rootURL == "" {
		rootURL = cfg.RootURL
	}

	data, err := config.LoadData(fs, projectRoot)
	if err != nil {
		return nil, err
	}
	if rootURL != "" {
		data.SetDefault("url", rootURL)
	}

	siteDir := filepath.Join(projectRoot, "site")
	if exists, err := afero.DirExists(fs, siteDir); err != nil || !exists {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no site directory at %s", siteDir)
	}

	if err := ensureCleanDir(fs, outputDir, opts.CleanOutput); err != nil {
		return nil, err
	}

	log.Process("build", "resolving content")
	conv := markup.NewConverter(markup.Options{EnableEmoji: cfg.EnableEmoji})
	loader := content.NewLoader(fs, siteDir)
	builder := content.NewBuilder(fs, siteDir, conv)

	files, err := loader.Files(opts.IncludeDrafts)
	if err != nil {
		return nil, err
	}

	var pages collections.Pages
	for _, rel := range files {
		page, err := builder.Build(rel, false)
		if err != nil {
			return nil, &Error{Path: rel, Message: "resolve failed", Err: err}
		}
		pages = append(pages, page)
	}
	if !opts.IncludeDrafts {
		pages = pages.Published()
	}

	coll := collections.New(pages)
	tags := collections.BuildTags(pages)

	log.Process("build", "rendering pages")
	engine := templates.NewEngine(fs, projectRoot, siteDir, data, rootURL)
	engine.UpdateCollections(coll, tags)

	for _, page := range pages {
		html, err := engine.RenderPage(page)
		if err != nil {
			return nil, &Error{Path: page.Path, Message: "render failed", Err: err}
		}
		if rootURL != "" {
			html = transform.AbsURL(html, rootURL)
		}
		if err := writePage(fs, outputDir, page.URL, html); err != nil {
			return nil, &Error{Path: page.Path, Message: "write failed", Err: err}
		}
	}

	log.Process("build", "publishing assets")
	pipeline := assets.NewPipeline(fs, projectRoot, filepath.Join(projectRoot, "assets"), outputDir)
	if err := pipeline.Run(); err != nil {
		log.Warnf("assets: %v", err)
	}

	if err := feeds.WriteSitemap(fs, outputDir, data, coll); err != nil {
		return nil, err
	}
	if err := feeds.WriteRSS(fs, outputDir, data, coll); err != nil {
		return nil, err
	}

	return &Result{Pages: coll, OutputDir: outputDir, Data: data, Config: cfg}, nil
}

// writePage emits a page at {output}/{url}/index.html so every page
// serves from a clean directory URL.
func writePage(fs afero.Fs, outputDir, url, html string) error {
	rel := strings.Trim(url, "/")
	dir := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(dir, "index.html"), []byte(html), 0o644)
}

func ensureCleanDir(fs afero.Fs, dir string, clean bool) error {
	if clean {
		if err := fs.RemoveAll(dir); err != nil {
			return err
		}
	}
	return fs.MkdirAll(dir, 0o755)
}
