package cli

import (
	"os"
	"path/filepath"
)

func (a appPaths) ConfigDir() string {
	c, err := os.UserConfigDir() // %AppData%
	if err != nil {
		c = a.home
	}
	return filepath.Join(c, a.tag)
}

func (a appPaths) LogDir() string {
	c, err := os.UserCacheDir() // %LocalAppData%
	if err != nil {
		c = a.home
	}
	return filepath.Join(c, a.tag, "Logs")
}
