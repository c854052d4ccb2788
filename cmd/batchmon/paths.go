package main

import (
	"strings"

	"batchmon/internal/core"
)

// jobPath resolves a file argument the way the menu does: names are taken
// relative to the jobs directory, absolute and "~" paths are used as given.
func jobPath(jobsDir, file string) string {
	if strings.HasPrefix(file, "/") || strings.HasPrefix(file, core.HomeShorthand) {
		return file
	}
	return jobsDir + "/" + file
}
