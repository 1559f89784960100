//go:build darwin

package internal

import (
	"os"
	"os/exec"
	"strings"
)

var getenv = os.Getenv

// skipSystemLocale can be set to true in tests to skip the AppleLocale lookup
var skipSystemLocale = false

// detectSystemLocale reads the AppleLocale preference, e.g. "en_US" or "sv_SE".
func detectSystemLocale() string {
	if skipSystemLocale {
		return ""
	}
	out, err := exec.Command("defaults", "read", "-g", "AppleLocale").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
