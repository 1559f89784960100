//go:build !windows && !darwin

package internal

import "os"

var getenv = os.Getenv

// skipSystemLocale has no effect here and exists so tests build on every platform
var skipSystemLocale = false

// detectSystemLocale has no platform setting to consult beyond the
// environment, which localeFromEnv already checked.
func detectSystemLocale() string {
	return ""
}
