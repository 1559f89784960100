//go:build windows

package internal

import (
	"os"
	"syscall"
	"unsafe"
)

var getenv = os.Getenv

// skipSystemLocale can be set to true in tests to skip the Windows API lookup
var skipSystemLocale = false

var (
	kernel32                 = syscall.NewLazyDLL("kernel32.dll")
	procGetUserDefaultLocale = kernel32.NewProc("GetUserDefaultLocaleName")
)

// detectSystemLocale asks GetUserDefaultLocaleName, e.g. "sv-SE".
func detectSystemLocale() string {
	if skipSystemLocale {
		return ""
	}

	const maxLen = 85 // LOCALE_NAME_MAX_LENGTH
	buf := make([]uint16, maxLen)
	ret, _, _ := procGetUserDefaultLocale.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(maxLen),
	)
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf)
}
