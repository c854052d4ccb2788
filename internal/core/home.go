package core

import (
	"os"
	"os/user"
	"strings"
)

// HomeShorthand is the leading character replaced by the user's home directory.
const HomeShorthand = "~"

// ExpandHome replaces a leading "~" with the caller's home directory.
// $HOME wins; the platform user database is the fallback. When neither
// resolves, the path comes back unchanged.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, HomeShorthand) {
		return path
	}
	home := homeDir()
	if home == "" {
		return path
	}
	return home + path[len(HomeShorthand):]
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.HomeDir
}
