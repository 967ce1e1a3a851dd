package env

import (
	"os"
	"path/filepath"
)

const (
	XSFTP_CONFIG_DIR_NAME = "xsftp"

	XSFTP_CONFIG_DIR_ENV = "XSFTP_CONFIG_DIR"
	XSFTP_CWD_CONFIG_DIR = ".xsftp"
)

// In increasing priority order, later files override earlier ones:
//
// /etc/xsftp/
// $XDG_CONFIG_HOME/xsftp/ OR $HOME/.config/xsftp/
// ./.xsftp/
// $XSFTP_CONFIG_DIR/
func resolvePaths() []string {
	paths := []string{filepath.Join("/etc/", XSFTP_CONFIG_DIR_NAME)}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(cfgDir, XSFTP_CONFIG_DIR_NAME))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, XSFTP_CWD_CONFIG_DIR))
	}

	if p := os.Getenv(XSFTP_CONFIG_DIR_ENV); p != "" {
		paths = append(paths, p)
	}

	return paths
}
