// Package calib computes calibration file locations and synchronizes
// calibration trees. Calibration data itself is an opaque blob; only its
// location is derived here.
package calib

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mvdh/robohost/pkg/registry"
)

// Locate returns an entry's calibration file path relative to a calibration
// tree root: {robots|teleoperators}/{type}_{role}/{name}.json. Followers
// are robots, leaders are teleoperators.
func Locate(e registry.Entry) string {
	category := "teleoperators"
	if e.Role == registry.Follower {
		category = "robots"
	}
	return filepath.Join(category, fmt.Sprintf("%s_%s", e.Type, e.Role), e.Name+".json")
}

// Result summarizes one sync run.
type Result struct {
	Copied  int
	Missing []string // source paths that did not exist
	Errors  []error  // copy failures other than a missing source
}

// Syncer copies calibration files between a source-of-truth tree and a
// runtime cache tree, one file per registry entry. Export and import are
// the two directions of the same operation.
type Syncer struct {
	Source string
	Dest   string
	Warn   registry.WarnFunc
}

// Sync copies each entry's calibration file from Source to Dest, creating
// destination directories as needed. A missing source file is counted and
// skipped; so is any other copy failure. The batch never aborts.
func (s Syncer) Sync(entries []registry.Entry) Result {
	var res Result
	for _, e := range entries {
		rel := Locate(e)
		err := copyFile(filepath.Join(s.Source, rel), filepath.Join(s.Dest, rel))
		switch {
		case err == nil:
			res.Copied++
		case errors.Is(err, fs.ErrNotExist):
			src := filepath.Join(s.Source, rel)
			res.Missing = append(res.Missing, src)
			s.warnf("no calibration for %s %s %q at %s", e.Type, e.Role, e.Name, src)
		default:
			res.Errors = append(res.Errors, fmt.Errorf("copy calibration for %s %s %q: %w", e.Type, e.Role, e.Name, err))
			s.warnf("copy %s: %v", rel, err)
		}
	}
	return res
}

func (s Syncer) warnf(format string, args ...any) {
	if s.Warn != nil {
		s.Warn(format, args...)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
