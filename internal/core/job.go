package core

import (
	"errors"
	"fmt"
	"strings"
)

// Job is a source file discovered in the jobs directory.
type Job struct {
	Name string `json:"name"` // file name, e.g. "dots.cpp"
	Path string `json:"path"` // jobs dir joined with Name
}

// ErrCompileFailed is returned when the compiler exits non-zero or cannot start.
var ErrCompileFailed = errors.New("compilation failed")

// DirectoryError reports a jobs directory that cannot be enumerated.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot read jobs directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// BaseName returns everything after the last "/" of path, or path itself
// when it has no separator.
func BaseName(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
