//go:build !unix

package core

// IsElevated always reports false on platforms without POSIX uids.
func IsElevated() bool {
	return false
}
