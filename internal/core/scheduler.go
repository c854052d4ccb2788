package core

import (
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
)

// readBatch bounds how many directory entries are pulled per read.
const readBatch = 64

// Scheduler decides which files in a jobs directory are jobs, and in which
// order they run: plain directory enumeration order, nothing more.
type Scheduler struct {
	Ext string // recognized source extension, e.g. ".cpp"
}

// NewScheduler creates a scheduler matching the given source extension.
func NewScheduler(ext string) *Scheduler {
	return &Scheduler{Ext: ext}
}

// Match reports whether name carries the recognized extension. The match is
// exact and case-sensitive; a dotfile such as ".cpp" has no extension.
func (s *Scheduler) Match(name string) bool {
	return name != s.Ext && filepath.Ext(name) == s.Ext
}

// Jobs enumerates the direct children of dir (after home expansion) that
// match the source extension. Each range over the sequence opens the
// directory afresh. Failure to read the directory is yielded once as a
// *DirectoryError and ends the sequence.
func (s *Scheduler) Jobs(dir string) iter.Seq2[Job, error] {
	return func(yield func(Job, error) bool) {
		expanded := ExpandHome(dir)
		f, err := os.Open(expanded)
		if err != nil {
			yield(Job{}, &DirectoryError{Dir: expanded, Err: err})
			return
		}
		defer f.Close()

		for {
			entries, err := f.ReadDir(readBatch)
			for _, e := range entries {
				if !s.Match(e.Name()) {
					continue
				}
				job := Job{Name: e.Name(), Path: filepath.Join(expanded, e.Name())}
				if !yield(job, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Job{}, &DirectoryError{Dir: expanded, Err: err})
				return
			}
		}
	}
}
