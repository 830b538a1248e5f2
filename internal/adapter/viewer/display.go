package viewer

import (
	"fmt"
	"os"
	"runtime"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// checkDisplay fails on X11/Wayland platforms when neither display variable is
// set, so a headless run errors out instead of crashing in the GL driver.
func checkDisplay(goos string, getenv func(string) string) error {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return fmt.Errorf("%w: no display available (DISPLAY and WAYLAND_DISPLAY are unset)", domain.ErrRender)
		}
	}
	return nil
}

// CheckDisplay reports whether a window can be opened on this host.
func CheckDisplay() error {
	return checkDisplay(runtime.GOOS, os.Getenv)
}
