//go:build unix

package core

import "golang.org/x/sys/unix"

// IsElevated reports whether the process runs with an effective uid of 0.
func IsElevated() bool {
	return unix.Geteuid() == 0
}
