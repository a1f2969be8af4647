package assets

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"

	"github.com/gorgon-dev/gorgon/log"
)

// Outcome reports how one asset strategy ended.
type Outcome int

const (
	Succeeded   Outcome = iota
	Unavailable         // strategy cannot run in this environment
	Failed
)

// Pipeline publishes the assets tree into the output directory,
// running per-type strategy chains. Asset failures are logged, never
// fatal; a page build survives a broken stylesheet toolchain.
type Pipeline struct {
	fs          afero.Fs
	projectRoot string
	assetsDir   string
	outputDir   string
	min         *minify.M
}

func NewPipeline(fs afero.Fs, projectRoot, assetsDir, outputDir string) *Pipeline {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return &Pipeline{fs: fs, projectRoot: projectRoot, assetsDir: assetsDir, outputDir: outputDir, min: m}
}

// Run walks the assets directory and publishes every file into
// {output}/assets, applying the strategy chain for its type.
func (p *Pipeline) Run() error {
	exists, err := afero.DirExists(p.fs, p.assetsDir)
	if err != nil || !exists {
		return err
	}

	return afero.Walk(p.fs, p.assetsDir, func(src string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(p.assetsDir, src)
		if err != nil {
			return err
		}
		dst := filepath.Join(p.outputDir, "assets", rel)
		if err := p.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		p.publish(src, dst, filepath.ToSlash(rel))
		return nil
	})
}

func (p *Pipeline) publish(src, dst, rel string) {
	for _, s := range p.strategies(rel) {
		switch outcome := s.fn(src, dst); outcome {
		case Succeeded:
			return
		case Unavailable:
			continue
		case Failed:
			log.Warnf("asset %s: %s failed, trying next strategy", rel, s.name)
		}
	}
	if err := p.copyFile(src, dst); err != nil {
		log.Errorf("asset %s: copy failed: %v", rel, err)
	}
}

type strategy struct {
	name string
	fn   func(src, dst string) Outcome
}

func (p *Pipeline) strategies(rel string) []strategy {
	switch {
	case rel == "css/main.css":
		return []strategy{
			{"tailwind", p.tailwind},
			{"minify-css", p.minifyTo("text/css")},
		}
	case strings.HasSuffix(rel, ".css"):
		return []strategy{{"minify-css", p.minifyTo("text/css")}}
	case strings.HasSuffix(rel, ".js"):
		return []strategy{
			{"minify-js", p.minifyTo("application/javascript")},
			{"terser", p.terser},
		}
	default:
		return nil
	}
}

// tailwind shells out to the Tailwind CLI when the project has one.
// It only runs against the real filesystem.
func (p *Pipeline) tailwind(src, dst string) Outcome {
	if _, ok := p.fs.(*afero.OsFs); !ok {
		return Unavailable
	}
	bin := filepath.Join(p.projectRoot, "node_modules", ".bin", "tailwindcss")
	if _, err := os.Stat(bin); err != nil {
		var lookErr error
		bin, lookErr = exec.LookPath("tailwindcss")
		if lookErr != nil {
			return Unavailable
		}
	}
	cmd := exec.Command(bin, "-i", src, "-o", dst, "--minify")
	cmd.Dir = p.projectRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Debugf("tailwind: %v: %s", err, out)
		return Failed
	}
	return Succeeded
}

// terser shells out to terser when installed; the in-process minifier
// normally makes this strategy moot.
func (p *Pipeline) terser(src, dst string) Outcome {
	if _, ok := p.fs.(*afero.OsFs); !ok {
		return Unavailable
	}
	bin := filepath.Join(p.projectRoot, "node_modules", ".bin", "terser")
	if _, err := os.Stat(bin); err != nil {
		var lookErr error
		bin, lookErr = exec.LookPath("terser")
		if lookErr != nil {
			return Unavailable
		}
	}
	cmd := exec.Command(bin, src, "-o", dst, "--compress", "--mangle")
	cmd.Dir = p.projectRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Debugf("terser: %v: %s", err, out)
		return Failed
	}
	return Succeeded
}

func (p *Pipeline) minifyTo(mediaType string) func(src, dst string) Outcome {
	return func(src, dst string) Outcome {
		in, err := afero.ReadFile(p.fs, src)
		if err != nil {
			return Failed
		}
		out, err := p.min.Bytes(mediaType, in)
		if err != nil {
			return Failed
		}
		if err := afero.WriteFile(p.fs, dst, out, 0o644); err != nil {
			return Failed
		}
		return Succeeded
	}
}

func (p *Pipeline) copyFile(src, dst string) error {
	data, err := afero.ReadFile(p.fs, src)
	if err != nil {
		return err
	}
	return afero.WriteFile(p.fs, dst, data, 0o644)
}
