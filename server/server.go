// Package server runs the development server: it serves the built
// site, watches the source tree and rebuilds into a staging directory
// that is swapped in atomically, then tells browsers to reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/clocks"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/gorgon-dev/gorgon/build"
	"github.com/gorgon-dev/gorgon/config"
	"github.com/gorgon-dev/gorgon/log"
)

const (
	debounceWindow = 50 * time.Millisecond
	settleDelay    = 50 * time.Millisecond
)

// DevServer watches a project and serves rebuilt output with
// livereload.
type DevServer struct {
	fs            afero.Fs
	projectRoot   string
	cfg           config.Config
	outputDir     string
	stagingDir    string
	port          int
	includeDrafts bool

	hub   *Hub
	clock clocks.Clock

	rebuilding  *atomic.Bool
	mu          sync.Mutex // guards lastRebuild, lastSig, hasSig
	lastRebuild time.Time
	lastSig     uint64
	hasSig      bool

	ignore  []glob.Glob
	buildFn func() error
}

// Option adjusts a DevServer; used by serve flags and by tests.
type Option func(*DevServer)

func WithFs(fs afero.Fs) Option       { return func(s *DevServer) { s.fs = fs } }
func WithPort(port int) Option        { return func(s *DevServer) { s.port = port } }
func WithDrafts(include bool) Option  { return func(s *DevServer) { s.includeDrafts = include } }
func WithClock(c clocks.Clock) Option { return func(s *DevServer) { s.clock = c } }

func WithBuildFunc(fn func() error) Option {
	return func(s *DevServer) { s.buildFn = fn }
}

func New(projectRoot string, opts ...Option) (*DevServer, error) {
	s := &DevServer{
		fs:          afero.NewOsFs(),
		projectRoot: projectRoot,
		hub:         NewHub(),
		clock:       clocks.System(),
		rebuilding:  atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg, err := config.Load(s.fs, projectRoot)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	if s.port == 0 {
		s.port = cfg.Port
	}
	s.outputDir = filepath.Join(projectRoot, cfg.OutputDir)
	s.stagingDir = s.outputDir + ".staging"
	if s.buildFn == nil {
		s.buildFn = s.buildAndSwap
	}

	for _, pattern := range cfg.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		s.ignore = append(s.ignore, g)
	}
	return s, nil
}

// Start builds once, then serves and watches until ctx is cancelled.
// The initial build failing is fatal; later build failures keep the
// last good output serving.
func (s *DevServer) Start(ctx context.Context) error {
	if err := s.buildFn(); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}
	if sig, ok := computeSignature(s.fs, s.projectRoot); ok {
		s.lastSig, s.hasSig = sig, true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := s.watchTree(watcher); err != nil {
		_ = watcher.Close()
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub.Handler())
	mux.Handle("/", &siteHandler{fs: s.fs, root: s.outputDir, script: ReloadScript})
	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", s.port), Handler: mux}

	log.Feedback("Serving %s at http://localhost:%d/", s.outputDir, s.port)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := httpSrv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				s.handleEvent(watcher, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warnf("watch: %v", err)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = watcher.Close()
		s.hub.Shutdown()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *DevServer) watchTree(watcher *fsnotify.Watcher) error {
	for _, dir := range watchedDirs {
		root := filepath.Join(s.projectRoot, dir)
		if exists, _ := afero.DirExists(s.fs, root); !exists {
			continue
		}
		err := afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
			if err != nil || !info.IsDir() {
				return err
			}
			return watcher.Add(p)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *DevServer) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if s.ignored(event.Name) {
		return
	}
	// New directories need their own watch before files land in them.
	if event.Op.Has(fsnotify.Create) {
		if isDir, _ := afero.IsDir(s.fs, event.Name); isDir {
			_ = watcher.Add(event.Name)
		}
	}
	s.maybeRebuild()
}

// maybeRebuild coalesces watcher event bursts: a single in-flight
// rebuild, a debounce window against the previous one, and a content
// signature check so metadata-only churn rebuilds nothing.
func (s *DevServer) maybeRebuild() {
	if !s.rebuilding.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	last := s.lastRebuild
	s.mu.Unlock()
	if s.clock.Now().Sub(last) < debounceWindow {
		s.rebuilding.Store(false)
		return
	}

	sig, sigOK := computeSignature(s.fs, s.projectRoot)
	s.mu.Lock()
	unchanged := sigOK && s.hasSig && sig == s.lastSig
	s.mu.Unlock()
	if unchanged {
		s.rebuilding.Store(false)
		return
	}

	defer func() {
		s.mu.Lock()
		s.lastRebuild = s.clock.Now()
		s.mu.Unlock()
		s.rebuilding.Store(false)
	}()

	log.Process("serve", "rebuilding")
	if err := s.buildFn(); err != nil {
		log.Errorf("rebuild failed, keeping previous output: %v", err)
		return
	}

	s.mu.Lock()
	s.lastSig, s.hasSig = sig, sigOK
	s.mu.Unlock()

	// Let editors finish multi-file saves before browsers refetch.
	time.Sleep(settleDelay)
	s.hub.Broadcast()
}

// buildAndSwap builds into the staging directory and swaps it in, so
// the served tree is never half-written.
func (s *DevServer) buildAndSwap() error {
	if err := s.fs.RemoveAll(s.stagingDir); err != nil {
		return err
	}
	_, err := build.Site(s.projectRoot, build.Options{
		IncludeDrafts: s.includeDrafts,
		OutputDir:     s.stagingDir,
		CleanOutput:   true,
		Fs:            s.fs,
	})
	if err != nil {
		return err
	}
	return swapDirs(s.fs, s.stagingDir, s.outputDir)
}

// swapDirs replaces target with staging via rename, restoring the old
// tree if the swap fails halfway.
func swapDirs(fs afero.Fs, staging, target string) error {
	old := target + ".old"
	if err := fs.RemoveAll(old); err != nil {
		return err
	}

	hadTarget, _ := afero.DirExists(fs, target)
	if hadTarget {
		if err := fs.Rename(target, old); err != nil {
			return err
		}
	}
	if err := fs.Rename(staging, target); err != nil {
		if hadTarget {
			_ = fs.Rename(old, target)
		}
		return err
	}
	return fs.RemoveAll(old)
}

// ignored filters events from the output trees, dependency dirs and
// user-configured globs.
func (s *DevServer) ignored(name string) bool {
	rel, err := filepath.Rel(s.projectRoot, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	skip := map[string]struct{}{
		filepath.Base(s.outputDir):  {},
		filepath.Base(s.stagingDir): {},
		"node_modules":              {},
		".git":                      {},
	}
	for _, part := range strings.Split(rel, "/") {
		if _, ok := skip[part]; ok {
			return true
		}
	}
	for _, g := range s.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
