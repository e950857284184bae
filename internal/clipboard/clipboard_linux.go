//go:build linux

package clipboard

import "errors"

// clipboardAvailable indicates if clipboard functionality is available on this platform
const clipboardAvailable = false

var errUnavailable = errors.New("clipboard not available on this platform (Linux without X11)")

// initClipboard returns an error indicating clipboard is not available
func initClipboard() error {
	return errUnavailable
}

// writeToClipboard returns an error indicating clipboard is not available
func writeToClipboard(_ string) error {
	return errUnavailable
}
