package cli

import (
	"os"
	"path/filepath"
)

// AppPaths is an interface to determine application specific paths for
// configuration, trace output and REPL history.
type AppPaths interface {
	ConfigDir() string
	LogDir() string
	HistoryFile() string
}

// DefaultAppPaths returns an AppPaths instance with platform-dependent defaults
// set, given appTag. appTag is a string specific to a client's application to identify it.
//
// If the home directory cannot be determined, an error is returned together
// with an AppPaths instance relative to the working directory.
func DefaultAppPaths(appTag string) (AppPaths, error) {
	a := appPaths{tag: appTag}
	home, err := os.UserHomeDir()
	if err != nil {
		return a, err
	}
	a.home = home
	return a, nil
}

type appPaths struct {
	tag  string
	home string
}

var _ AppPaths = appPaths{}

// HistoryFile is the file the REPL stores its input history in. It lives in
// the log directory, falling back to the temp directory.
func (a appPaths) HistoryFile() string {
	dir := a.LogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repl-history")
}
