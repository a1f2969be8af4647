package server

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mitchellh/hashstructure"
	"github.com/spf13/afero"
)

// watchedDirs are the project subtrees whose contents feed a build.
var watchedDirs = []string{"site", "assets", "data"}

type fileStamp struct {
	Path    string
	MTimeNS int64
	Size    int64
}

// computeSignature hashes the (path, mtime, size) triple of every
// watched file, in sorted path order. A rebuild is skipped when the
// signature has not moved. The bool is false when walking failed and
// the signature cannot be trusted.
func computeSignature(fs afero.Fs, projectRoot string) (uint64, bool) {
	var stamps []fileStamp

	for _, dir := range watchedDirs {
		root := filepath.Join(projectRoot, dir)
		if exists, err := afero.DirExists(fs, root); err != nil || !exists {
			continue
		}
		err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			rel, err := filepath.Rel(projectRoot, p)
			if err != nil {
				return err
			}
			stamps = append(stamps, fileStamp{
				Path:    filepath.ToSlash(rel),
				MTimeNS: info.ModTime().UnixNano(),
				Size:    info.Size(),
			})
			return nil
		})
		if err != nil {
			return 0, false
		}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Path < stamps[j].Path })

	sig, err := hashstructure.Hash(stamps, nil)
	if err != nil {
		return 0, false
	}
	return sig, true
}
