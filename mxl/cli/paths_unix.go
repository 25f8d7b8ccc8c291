//go:build aix || dragonfly || freebsd || (js && wasm) || nacl || linux || netbsd || openbsd || solaris
// +build aix dragonfly freebsd js,wasm nacl linux netbsd openbsd solaris

package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir follows the XDG convention: $XDG_CONFIG_HOME/mxl.
func (a appPaths) ConfigDir() string {
	c, err := os.UserConfigDir()
	if err != nil {
		c = filepath.Join(a.home, ".config")
	}
	return filepath.Join(c, strings.ToLower(a.tag))
}

// LogDir is $XDG_CACHE_HOME/mxl/logs.
func (a appPaths) LogDir() string {
	c, err := os.UserCacheDir()
	if err != nil {
		c = filepath.Join(a.home, ".cache")
	}
	return filepath.Join(c, strings.ToLower(a.tag), "logs")
}
