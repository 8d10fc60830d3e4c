//go:build !darwin

package core

// MacOSVersion is always empty off macOS.
func MacOSVersion() string {
	return ""
}
